package downloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediamaestro/internal/config"
	"mediamaestro/internal/shared"
)

// fakeYtdlp writes an executable script that prints the given stdout and
// returns a downloader pointed at it.
func fakeYtdlp(t *testing.T, stdout string) *YouTubeDownloader {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "yt-dlp")
	body := "#!/bin/sh\ncat <<'JSON'\n" + stdout + "\nJSON\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))

	cfg := config.DefaultConfig()
	cfg.YtdlpPath = script
	cfg.DownloadsDir = t.TempDir()
	return NewYouTubeDownloader(cfg)
}

func TestCheckYtdlpMissing(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.YtdlpPath = filepath.Join(t.TempDir(), "no-such-binary")
	d := NewYouTubeDownloader(cfg)
	assert.Error(t, d.CheckYtdlp())
}

func TestSearch(t *testing.T) {
	d := fakeYtdlp(t, `{"id":"abc123","title":"Dynamite","uploader":"BTS","duration":199,"view_count":1000,"webpage_url":"https://youtu.be/abc123","thumbnail":"https://i.ytimg.com/abc123.jpg"}
{"id":"def456","title":"Butter","uploader":"BTS","duration":164,"view_count":500,"webpage_url":"https://youtu.be/def456"}`)

	results, err := d.Search(context.Background(), "bts", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "abc123", results[0].ID)
	assert.Equal(t, "Dynamite", results[0].Title)
	assert.Equal(t, "BTS", results[0].Uploader)
	assert.Equal(t, 199, results[0].Duration)
	assert.Equal(t, int64(1000), results[0].ViewCount)
	assert.Equal(t, "https://youtu.be/abc123", results[0].URL)
	assert.Equal(t, "Butter", results[1].Title)
}

func TestSearchCommandFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.YtdlpPath = filepath.Join(t.TempDir(), "missing")
	d := NewYouTubeDownloader(cfg)

	_, err := d.Search(context.Background(), "bts", 5)
	assert.Error(t, err)
}

func TestDownloadAudioUnsupportedFormat(t *testing.T) {
	d := fakeYtdlp(t, "{}")
	result := d.DownloadAudio(context.Background(), "https://youtu.be/x", shared.FormatVideo, "kpop")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unsupported audio format")
}

func TestDownloadVideoParsesMetadata(t *testing.T) {
	d := fakeYtdlp(t, `{"id":"abc123","title":"Dynamite MV","uploader":"HYBE","duration":225,"_filename":"/downloads/kpop/video/Dynamite MV.mp4"}`)

	result := d.DownloadVideo(context.Background(), "https://youtu.be/abc123", "kpop")
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "Dynamite MV", result.Title)
	assert.Equal(t, "/downloads/kpop/video/Dynamite MV.mp4", result.FilePath)
	assert.Equal(t, 225, result.Duration)
	assert.Equal(t, "abc123", result.YouTubeID)
}

func TestDownloadBatchKeepsOrder(t *testing.T) {
	d := fakeYtdlp(t, `{"id":"v1","title":"First","_filename":"/tmp/First.mp4"}`)

	requests := []DownloadRequest{
		{URL: "https://youtu.be/v1", Format: shared.FormatVideo, Category: "kpop"},
		{URL: "https://youtu.be/v2", Format: shared.FormatVideo, Category: "kpop"},
	}
	results := d.DownloadBatch(context.Background(), requests, nil)

	require.Len(t, results, 2)
	for _, result := range results {
		assert.True(t, result.Success)
		assert.Equal(t, "First", result.Title)
	}
}

func TestSwapExtension(t *testing.T) {
	assert.Equal(t, "/a/b/song.flac", swapExtension("/a/b/song.webm", "flac"))
	assert.Equal(t, "/a/b/song.mp3", swapExtension("/a/b/song.m4a", "mp3"))
	assert.Equal(t, "noext.mp3", swapExtension("noext", "mp3"))
}

func TestDetectImageFormat(t *testing.T) {
	assert.Equal(t, "image/png", detectImageFormat([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}))
	assert.Equal(t, "image/jpeg", detectImageFormat([]byte{0xFF, 0xD8, 0xFF, 0xE0}))
	assert.Equal(t, "image/gif", detectImageFormat([]byte("GIF89a")))
	assert.Equal(t, "image/jpeg", detectImageFormat([]byte{0x00}))

	webp := append([]byte("RIFF"), 0, 0, 0, 0)
	webp = append(webp, []byte("WEBP")...)
	assert.Equal(t, "image/webp", detectImageFormat(webp))
}
