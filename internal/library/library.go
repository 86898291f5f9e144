// Package library implements the media format reconciliation engine: scanning
// the three-way (mp3/flac/video) category tree, grouping files into track
// identities, reporting missing formats and matching the local library against
// a remote catalog.
//
// The engine is stateless between calls; every report is recomputed from the
// filesystem on each invocation.
package library

import (
	"strings"

	"mediamaestro/internal/config"
	"mediamaestro/internal/shared"
)

// Options configures the engine. All of it comes from the application config;
// tests substitute their own categories and threshold.
type Options struct {
	MediaDir        string
	Categories      map[string]string // key -> display name
	AudioExtensions []string
	VideoExtensions []string
	MatchThreshold  float64
}

// TagExtractor reads tag metadata from a file. Implementations may fail; the
// manager wraps every extractor so failures degrade to the filename-derived
// fallback record instead of propagating.
type TagExtractor func(path string, kind shared.FormatKind) (shared.TagRecord, error)

// Manager is the engine entry point.
type Manager struct {
	opts    Options
	extract TagExtractor
}

// New creates a Manager with the default tag extractor.
func New(opts Options) *Manager {
	return &Manager{opts: opts, extract: ReadTags}
}

// NewFromConfig builds a Manager from the application configuration.
func NewFromConfig(cfg *config.Config) *Manager {
	return New(Options{
		MediaDir:        cfg.MediaDir,
		Categories:      cfg.Categories,
		AudioExtensions: cfg.AudioExtensions,
		VideoExtensions: cfg.VideoExtensions,
		MatchThreshold:  cfg.MatchThreshold,
	})
}

// WithExtractor overrides the tag extractor. Used by tests.
func (m *Manager) WithExtractor(fn TagExtractor) *Manager {
	m.extract = fn
	return m
}

// allowedExtensions returns the allow-list for a format slot. The mp3 and
// flac slots share the audio list: the slots are split by directory, not by
// extension.
func (m *Manager) allowedExtensions(kind shared.FormatKind) []string {
	if kind == shared.FormatVideo {
		return m.opts.VideoExtensions
	}
	return m.opts.AudioExtensions
}

func extensionAllowed(ext string, allowed []string) bool {
	ext = strings.ToLower(ext)
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}
