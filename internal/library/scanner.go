package library

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"mediamaestro/internal/shared"
)

// CategoryListing is the per-category slice of a scan: the files found in
// each of the three format slots.
type CategoryListing struct {
	Name       string             `json:"name"`
	MP3Files   []shared.MediaFile `json:"mp3_files"`
	FLACFiles  []shared.MediaFile `json:"flac_files"`
	VideoFiles []shared.MediaFile `json:"video_files"`
	MP3Count   int                `json:"mp3_count"`
	FLACCount  int                `json:"flac_count"`
	VideoCount int                `json:"video_count"`
	IsBalanced bool               `json:"is_balanced"`
}

// Files returns the listing for one format slot.
func (l *CategoryListing) Files(kind shared.FormatKind) []shared.MediaFile {
	switch kind {
	case shared.FormatMP3:
		return l.MP3Files
	case shared.FormatFLAC:
		return l.FLACFiles
	case shared.FormatVideo:
		return l.VideoFiles
	}
	return nil
}

// ScanReport is the full library scan result.
type ScanReport struct {
	Categories map[string]*CategoryListing `json:"playlists"`
	TotalFiles int                         `json:"total_files"`
}

// Scan walks the media root and returns the file organization status for
// every known category. Missing category or format directories yield empty
// lists, never errors; directories whose name is not a known category key
// are ignored.
func (m *Manager) Scan() *ScanReport {
	report := &ScanReport{Categories: make(map[string]*CategoryListing)}

	keys := make([]string, 0, len(m.opts.Categories))
	for key := range m.opts.Categories {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		categoryDir := filepath.Join(m.opts.MediaDir, key)
		if info, err := os.Stat(categoryDir); err != nil || !info.IsDir() {
			continue
		}

		listing := m.scanCategory(key)
		report.Categories[key] = listing
		report.TotalFiles += listing.MP3Count + listing.FLACCount + listing.VideoCount
	}

	return report
}

// ListCategory returns the listing for one category. Unknown categories come
// back with three empty slots.
func (m *Manager) ListCategory(key string) *CategoryListing {
	return m.scanCategory(key)
}

// scanCategory lists the three format slots of one category. The category
// directory itself may be absent; every slot then comes back empty.
func (m *Manager) scanCategory(key string) *CategoryListing {
	listing := &CategoryListing{Name: m.opts.Categories[key]}

	listing.MP3Files = m.listFormatDir(key, shared.FormatMP3)
	listing.FLACFiles = m.listFormatDir(key, shared.FormatFLAC)
	listing.VideoFiles = m.listFormatDir(key, shared.FormatVideo)

	listing.MP3Count = len(listing.MP3Files)
	listing.FLACCount = len(listing.FLACFiles)
	listing.VideoCount = len(listing.VideoFiles)
	listing.IsBalanced = listing.MP3Count == listing.FLACCount &&
		listing.FLACCount == listing.VideoCount

	return listing
}

// listFormatDir enumerates one format slot, filtering by the slot's
// extension allow-list. Symlinked entries are skipped so a link cannot pull
// files from outside the media root into the report.
func (m *Manager) listFormatDir(category string, kind shared.FormatKind) []shared.MediaFile {
	dir := filepath.Join(m.opts.MediaDir, category, string(kind))
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Missing directory is an empty slot, not an error.
		return nil
	}

	allowed := m.allowedExtensions(kind)
	var files []shared.MediaFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !extensionAllowed(filepath.Ext(entry.Name()), allowed) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Str("file", entry.Name()).
				Msg("failed to stat media file")
			continue
		}

		path := filepath.Join(dir, entry.Name())
		files = append(files, shared.MediaFile{
			Name:     entry.Name(),
			Path:     path,
			Size:     info.Size(),
			Format:   kind,
			Metadata: m.ExtractTags(path, kind),
		})
	}

	return files
}
