package library

import "mediamaestro/internal/shared"

// Collision records an identity collision within one format slot: two
// distinct files normalized to the same identity, so the later one replaced
// the earlier in the grouping. The engine keeps the last-write-wins policy
// but surfaces what it discarded.
type Collision struct {
	Identity      string            `json:"identity"`
	Format        shared.FormatKind `json:"format"`
	KeptPath      string            `json:"kept_path"`
	DiscardedPath string            `json:"discarded_path"`
}

// CompletenessReport classifies every track identity of a category by which
// format slots it is present in. Names are the first-seen original display
// names, not normalized keys.
type CompletenessReport struct {
	MissingMP3   []string    `json:"missing_mp3"`
	MissingFLAC  []string    `json:"missing_flac"`
	MissingVideo []string    `json:"missing_video"`
	Complete     []string    `json:"complete_songs"`
	Collisions   []Collision `json:"collisions,omitempty"`
}

type songEntry struct {
	displayName string
	formats     map[shared.FormatKind]string // format -> path
}

// MissingFormats groups the category's files across all three format slots by
// normalized filename identity and reports which formats each identity is
// missing. An unknown or absent category yields an empty report.
func (m *Manager) MissingFormats(category string) *CompletenessReport {
	report := &CompletenessReport{
		MissingMP3:   []string{},
		MissingFLAC:  []string{},
		MissingVideo: []string{},
		Complete:     []string{},
	}

	listing := m.scanCategory(category)

	entries := make(map[string]*songEntry)
	var order []string

	for _, kind := range shared.FormatKinds {
		for _, file := range listing.Files(kind) {
			identity := NormalizeName(shared.Stem(file.Name))

			entry, ok := entries[identity]
			if !ok {
				entry = &songEntry{
					displayName: shared.Stem(file.Name),
					formats:     make(map[shared.FormatKind]string),
				}
				entries[identity] = entry
				order = append(order, identity)
			}

			if previous, seen := entry.formats[kind]; seen {
				report.Collisions = append(report.Collisions, Collision{
					Identity:      identity,
					Format:        kind,
					KeptPath:      file.Path,
					DiscardedPath: previous,
				})
			}
			entry.formats[kind] = file.Path
		}
	}

	for _, identity := range order {
		entry := entries[identity]

		if _, ok := entry.formats[shared.FormatMP3]; !ok {
			report.MissingMP3 = append(report.MissingMP3, entry.displayName)
		}
		if _, ok := entry.formats[shared.FormatFLAC]; !ok {
			report.MissingFLAC = append(report.MissingFLAC, entry.displayName)
		}
		if _, ok := entry.formats[shared.FormatVideo]; !ok {
			report.MissingVideo = append(report.MissingVideo, entry.displayName)
		}

		if len(entry.formats) == len(shared.FormatKinds) {
			report.Complete = append(report.Complete, entry.displayName)
		}
	}

	return report
}
