package library

import (
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"

	"mediamaestro/internal/shared"
)

// FuzzyMatch pairs a local identity with its best above-threshold catalog
// candidate.
type FuzzyMatch struct {
	CatalogIdentity string  `json:"spotify_match"`
	Score           float64 `json:"confidence"`
}

// MatchReport is the local-vs-catalog reconciliation result. Matched,
// LocalOnly and CatalogOnly partition the two identity sets; FuzzyMatches
// holds the below-exact, above-threshold correspondences for entries that
// stayed in LocalOnly.
type MatchReport struct {
	Matched      []string              `json:"matched"`
	LocalOnly    []string              `json:"local_only"`
	CatalogOnly  []string              `json:"spotify_only"`
	FuzzyMatches map[string]FuzzyMatch `json:"match_confidence"`
}

// MatchCatalog compares the category's local track identities against the
// supplied catalog tracks. Local identities use tag metadata when extraction
// succeeded and the filename otherwise; catalog identities join all listed
// artists with ", " to mirror the local "title - artist" shape.
func (m *Manager) MatchCatalog(category string, tracks []shared.CatalogTrack) *MatchReport {
	report := &MatchReport{
		Matched:      []string{},
		LocalOnly:    []string{},
		CatalogOnly:  []string{},
		FuzzyMatches: make(map[string]FuzzyMatch),
	}

	listing := m.scanCategory(category)

	local := make(map[string]bool)
	var localOrder []string
	for _, kind := range shared.FormatKinds {
		for _, file := range listing.Files(kind) {
			title := file.Metadata.Title
			if title == "" {
				title = file.Name
			}
			artist := file.Metadata.Artist
			if artist == "" {
				artist = "Unknown"
			}
			identity := NormalizeTrack(title, artist)
			if !local[identity] {
				local[identity] = true
				localOrder = append(localOrder, identity)
			}
		}
	}

	catalog := make(map[string]bool)
	var catalogOrder []string
	for _, track := range tracks {
		identity := NormalizeTrack(track.Title, strings.Join(track.Artists, ", "))
		if !catalog[identity] {
			catalog[identity] = true
			catalogOrder = append(catalogOrder, identity)
		}
	}

	for _, identity := range localOrder {
		if catalog[identity] {
			report.Matched = append(report.Matched, identity)
		} else {
			report.LocalOnly = append(report.LocalOnly, identity)
		}
	}
	for _, identity := range catalogOrder {
		if !local[identity] {
			report.CatalogOnly = append(report.CatalogOnly, identity)
		}
	}

	// Fuzzy pass: for each unmatched local identity, the first catalog-only
	// candidate to reach the best score wins; later candidates only replace
	// it with a strictly greater score. Candidate order is the catalog input
	// order, so tie outcomes follow the catalog listing.
	for _, localIdentity := range report.LocalOnly {
		var best string
		var bestScore float64
		for _, candidate := range report.CatalogOnly {
			score := SimilarityRatio(localIdentity, candidate)
			if score > bestScore && score > m.opts.MatchThreshold {
				bestScore = score
				best = candidate
			}
		}
		if best != "" {
			report.FuzzyMatches[localIdentity] = FuzzyMatch{
				CatalogIdentity: best,
				Score:           bestScore,
			}
		}
	}

	return report
}

// SimilarityRatio is a symmetric similarity in [0,1] based on the longest
// common subsequence: 2*LCS(a,b) / (len(a)+len(b)). 1.0 means identical
// strings.
func SimilarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1.0
	}
	return 2 * float64(edlib.LCS(a, b)) / float64(total)
}
