package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediamaestro/internal/shared"
)

func testOptions(mediaDir string) Options {
	return Options{
		MediaDir: mediaDir,
		Categories: map[string]string{
			"kpop":    "K-Pop",
			"jpop":    "J-Pop",
			"english": "English",
		},
		AudioExtensions: []string{".mp3", ".flac", ".wav", ".m4a", ".aac"},
		VideoExtensions: []string{".mp4", ".mkv", ".avi", ".webm", ".mov"},
		MatchThreshold:  0.8,
	}
}

// stemExtractor produces deterministic tags from the filename so tests do not
// depend on real tag parsing.
func stemExtractor(artist string) TagExtractor {
	return func(path string, kind shared.FormatKind) (shared.TagRecord, error) {
		return shared.TagRecord{
			Title:  shared.Stem(path),
			Artist: artist,
			Album:  "Unknown",
			Format: string(kind),
		}, nil
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("test data"), 0644))
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "kpop", "mp3", "Dynamite.mp3"))
	writeFile(t, filepath.Join(root, "kpop", "mp3", "Butter.wav"))
	writeFile(t, filepath.Join(root, "kpop", "flac", "Dynamite.flac"))
	writeFile(t, filepath.Join(root, "kpop", "video", "Dynamite.mp4"))
	// Not on any allow-list; must be ignored.
	writeFile(t, filepath.Join(root, "kpop", "mp3", "readme.txt"))
	// Directory not named after a known category key; must be ignored.
	writeFile(t, filepath.Join(root, "bootlegs", "mp3", "mystery.mp3"))

	m := New(testOptions(root)).WithExtractor(stemExtractor("BTS"))
	report := m.Scan()

	require.Contains(t, report.Categories, "kpop")
	assert.NotContains(t, report.Categories, "bootlegs")
	// jpop and english directories do not exist on disk.
	assert.NotContains(t, report.Categories, "jpop")
	assert.NotContains(t, report.Categories, "english")

	kpop := report.Categories["kpop"]
	assert.Equal(t, "K-Pop", kpop.Name)
	assert.Equal(t, 2, kpop.MP3Count)
	assert.Equal(t, 1, kpop.FLACCount)
	assert.Equal(t, 1, kpop.VideoCount)
	assert.False(t, kpop.IsBalanced)
	assert.Equal(t, 4, report.TotalFiles)

	names := []string{kpop.MP3Files[0].Name, kpop.MP3Files[1].Name}
	assert.ElementsMatch(t, []string{"Dynamite.mp3", "Butter.wav"}, names)
}

func TestScanBalanced(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "jpop", "mp3", "Lemon.mp3"))
	writeFile(t, filepath.Join(root, "jpop", "flac", "Lemon.flac"))
	writeFile(t, filepath.Join(root, "jpop", "video", "Lemon.mp4"))

	m := New(testOptions(root)).WithExtractor(stemExtractor("Kenshi Yonezu"))
	report := m.Scan()

	require.Contains(t, report.Categories, "jpop")
	assert.True(t, report.Categories["jpop"].IsBalanced)
}

func TestScanEmptyRoot(t *testing.T) {
	m := New(testOptions(t.TempDir())).WithExtractor(stemExtractor("x"))
	report := m.Scan()

	assert.Empty(t, report.Categories)
	assert.Zero(t, report.TotalFiles)
}

func TestScanMissingRoot(t *testing.T) {
	m := New(testOptions(filepath.Join(t.TempDir(), "nope"))).WithExtractor(stemExtractor("x"))
	report := m.Scan()

	assert.Empty(t, report.Categories)
	assert.Zero(t, report.TotalFiles)
}

func TestScanSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "outside.mp3")
	writeFile(t, outside)
	writeFile(t, filepath.Join(root, "kpop", "mp3", "real.mp3"))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "kpop", "mp3", "linked.mp3")))

	m := New(testOptions(root)).WithExtractor(stemExtractor("x"))
	report := m.Scan()

	require.Contains(t, report.Categories, "kpop")
	kpop := report.Categories["kpop"]
	require.Equal(t, 1, kpop.MP3Count)
	assert.Equal(t, "real.mp3", kpop.MP3Files[0].Name)
}

func TestScanCaseInsensitiveExtensions(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "english", "mp3", "Loud.MP3"))
	writeFile(t, filepath.Join(root, "english", "video", "Clip.MKV"))

	m := New(testOptions(root)).WithExtractor(stemExtractor("x"))
	report := m.Scan()

	require.Contains(t, report.Categories, "english")
	assert.Equal(t, 1, report.Categories["english"].MP3Count)
	assert.Equal(t, 1, report.Categories["english"].VideoCount)
}
