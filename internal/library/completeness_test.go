package library

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediamaestro/internal/shared"
)

func TestMissingFormatsCaseInsensitiveGrouping(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "kpop", "mp3", "Song A.mp3"))
	writeFile(t, filepath.Join(root, "kpop", "video", "song a.mp4"))

	m := New(testOptions(root)).WithExtractor(stemExtractor("x"))
	report := m.MissingFormats("kpop")

	// Both files fold to the same identity, present in mp3 and video.
	assert.Empty(t, report.MissingMP3)
	assert.Equal(t, []string{"Song A"}, report.MissingFLAC)
	assert.Empty(t, report.MissingVideo)
	assert.Empty(t, report.Complete)
}

func TestMissingFormatsComplete(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "kpop", "mp3", "Song A.mp3"))
	writeFile(t, filepath.Join(root, "kpop", "flac", "SONG A.flac"))
	writeFile(t, filepath.Join(root, "kpop", "video", "song a.mp4"))
	writeFile(t, filepath.Join(root, "kpop", "mp3", "Lonely.mp3"))

	m := New(testOptions(root)).WithExtractor(stemExtractor("x"))
	report := m.MissingFormats("kpop")

	assert.Equal(t, []string{"Song A"}, report.Complete)
	assert.Equal(t, []string{"Lonely"}, report.MissingFLAC)
	assert.Equal(t, []string{"Lonely"}, report.MissingVideo)
	assert.Empty(t, report.MissingMP3)
}

// Adding a file for an identity never makes that identity less complete.
func TestMissingFormatsMonotonic(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "kpop", "mp3", "Song A.mp3"))

	m := New(testOptions(root)).WithExtractor(stemExtractor("x"))
	before := m.MissingFormats("kpop")
	assert.Equal(t, []string{"Song A"}, before.MissingFLAC)
	assert.Equal(t, []string{"Song A"}, before.MissingVideo)

	writeFile(t, filepath.Join(root, "kpop", "flac", "Song A.flac"))
	after := m.MissingFormats("kpop")
	assert.Empty(t, after.MissingFLAC)
	assert.Equal(t, []string{"Song A"}, after.MissingVideo)
}

func TestMissingFormatsCollision(t *testing.T) {
	root := t.TempDir()
	// Both normalize to "song a" inside the same format slot. ReadDir returns
	// entries in byte order, so "Song A.mp3" comes first and the second file
	// replaces it in the grouping.
	writeFile(t, filepath.Join(root, "kpop", "mp3", "Song A.mp3"))
	writeFile(t, filepath.Join(root, "kpop", "mp3", "song a!.mp3"))

	m := New(testOptions(root)).WithExtractor(stemExtractor("x"))
	report := m.MissingFormats("kpop")

	require.Len(t, report.Collisions, 1)
	collision := report.Collisions[0]
	assert.Equal(t, "song a", collision.Identity)
	assert.Equal(t, shared.FormatMP3, collision.Format)
	assert.Equal(t, filepath.Join(root, "kpop", "mp3", "song a!.mp3"), collision.KeptPath)
	assert.Equal(t, filepath.Join(root, "kpop", "mp3", "Song A.mp3"), collision.DiscardedPath)

	// First-seen display name survives the collision.
	assert.Equal(t, []string{"Song A"}, report.MissingFLAC)
}

func TestMissingFormatsUnknownCategory(t *testing.T) {
	m := New(testOptions(t.TempDir())).WithExtractor(stemExtractor("x"))
	report := m.MissingFormats("nosuch")

	assert.Empty(t, report.MissingMP3)
	assert.Empty(t, report.MissingFLAC)
	assert.Empty(t, report.MissingVideo)
	assert.Empty(t, report.Complete)
	assert.Empty(t, report.Collisions)
}
