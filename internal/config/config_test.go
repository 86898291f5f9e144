package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	original := DefaultConfig()
	original.MediaDir = "/srv/media"
	original.SpotifyClientID = "client-id"
	original.MatchThreshold = 0.9

	require.NoError(t, SaveConfig(path, original))

	loaded := &Config{}
	require.NoError(t, LoadConfig(path, loaded))

	assert.Equal(t, "/srv/media", loaded.MediaDir)
	assert.Equal(t, "client-id", loaded.SpotifyClientID)
	assert.Equal(t, 0.9, loaded.MatchThreshold)
	assert.Equal(t, original.Categories, loaded.Categories)
}

func TestLoadConfigMissingFile(t *testing.T) {
	err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"), &Config{})
	assert.Error(t, err)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{MediaDir: "/custom"}
	cfg.ApplyDefaults()

	assert.Equal(t, "/custom", cfg.MediaDir)
	assert.Equal(t, 0.8, cfg.MatchThreshold)
	assert.Contains(t, cfg.Categories, "kpop")
	assert.Contains(t, cfg.AudioExtensions, ".mp3")
	assert.Contains(t, cfg.VideoExtensions, ".mp4")
	assert.Equal(t, ":8000", cfg.ListenAddr)
	assert.Equal(t, 3, cfg.Parallelism)
	assert.Equal(t, "yt-dlp", cfg.YtdlpPath)
}

func TestApplyDefaultsEnvOverrides(t *testing.T) {
	t.Setenv("MEDIAMAESTRO_MEDIA_DIR", "/env/media")
	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")

	cfg := &Config{MediaDir: "/from-file"}
	cfg.ApplyDefaults()

	assert.Equal(t, "/env/media", cfg.MediaDir)
	assert.Equal(t, "env-id", cfg.SpotifyClientID)
	assert.Equal(t, "env-secret", cfg.SpotifyClientSecret)
}

func TestCategoryKeysSorted(t *testing.T) {
	cfg := DefaultConfig()
	keys := cfg.CategoryKeys()
	assert.Equal(t, []string{"cpop", "custom", "english", "jpop", "kpop"}, keys)
}

func TestEnsureMediaTree(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MediaDir = filepath.Join(t.TempDir(), "media")
	cfg.DownloadsDir = filepath.Join(t.TempDir(), "downloads")

	require.NoError(t, cfg.EnsureMediaTree())

	for _, key := range cfg.CategoryKeys() {
		for _, format := range []string{"mp3", "flac", "video"} {
			info, err := os.Stat(filepath.Join(cfg.MediaDir, key, format))
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		}
	}
	info, err := os.Stat(cfg.DownloadsDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
