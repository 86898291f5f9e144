package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediamaestro/internal/shared"
)

func TestExtractTagsFallbackOnGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "My Song.mp3")
	require.NoError(t, os.WriteFile(path, []byte("this is not an mp3"), 0644))

	m := New(testOptions(dir))
	record := m.ExtractTags(path, shared.FormatMP3)

	assert.Equal(t, "My Song", record.Title)
	assert.Equal(t, "Unknown", record.Artist)
	assert.Equal(t, "Unknown", record.Album)
	assert.Equal(t, "MP3", record.Format)
	assert.Zero(t, record.Duration)
	assert.Zero(t, record.Bitrate)
}

func TestExtractTagsFallbackOnCorruptTagBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Broken.mp3")
	// ID3 magic followed by a truncated, nonsense header.
	require.NoError(t, os.WriteFile(path, []byte("ID3\xff\xff"), 0644))

	m := New(testOptions(dir))
	record := m.ExtractTags(path, shared.FormatMP3)

	assert.Equal(t, "Broken", record.Title)
	assert.Zero(t, record.Bitrate)
}

func TestExtractTagsFallbackOnGarbageFLAC(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Not Flac.flac")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))

	m := New(testOptions(dir))
	record := m.ExtractTags(path, shared.FormatFLAC)

	assert.Equal(t, "Not Flac", record.Title)
	assert.Equal(t, "FLAC", record.Format)
}

func TestExtractTagsNoReaderForExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("video data"), 0644))

	m := New(testOptions(dir))
	record := m.ExtractTags(path, shared.FormatVideo)

	assert.Equal(t, "Clip", record.Title)
	assert.Equal(t, "MP4", record.Format)
}

func TestFallbackRecord(t *testing.T) {
	record := FallbackRecord("/media/kpop/mp3/Dynamite (Official).mp3")
	assert.Equal(t, "Dynamite (Official)", record.Title)
	assert.Equal(t, "Unknown", record.Artist)
	assert.Equal(t, "Unknown", record.Album)
	assert.Equal(t, "MP3", record.Format)
}

func TestExtractTagsUsesInjectedExtractor(t *testing.T) {
	m := New(testOptions(t.TempDir())).WithExtractor(func(path string, kind shared.FormatKind) (shared.TagRecord, error) {
		return shared.TagRecord{Title: "Injected", Artist: "Tester"}, nil
	})

	record := m.ExtractTags("/nowhere/file.mp3", shared.FormatMP3)
	assert.Equal(t, "Injected", record.Title)
	assert.Equal(t, "Tester", record.Artist)
}
