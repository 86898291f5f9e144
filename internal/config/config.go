package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	RequestTimeout = 10 * time.Minute
	UserAgent      = "MediaMaestro/1.0"
)

// Configuration structure. The category vocabulary, extension allow-lists
// and the fuzzy-match threshold are configuration, not constants, so tests
// and deployments can substitute their own.
type Config struct {
	MediaDir            string            `json:"MediaDir"`
	DownloadsDir        string            `json:"DownloadsDir"`
	Categories          map[string]string `json:"Categories"` // key -> display name
	AudioExtensions     []string          `json:"AudioExtensions"`
	VideoExtensions     []string          `json:"VideoExtensions"`
	MatchThreshold      float64           `json:"MatchThreshold"`
	SpotifyClientID     string            `json:"SpotifyClientID"`
	SpotifyClientSecret string            `json:"SpotifyClientSecret"`
	SpotifyRedirectURI  string            `json:"SpotifyRedirectURI"`
	SpotifyTokenFile    string            `json:"SpotifyTokenFile"`
	DatabasePath        string            `json:"DatabasePath"`
	ListenAddr          string            `json:"ListenAddr"`
	AllowedOrigins      []string          `json:"AllowedOrigins"`
	Parallelism         int               `json:"Parallelism"`
	YtdlpPath           string            `json:"YtdlpPath"`
	Debug               bool              `json:"Debug"`
}

// DefaultConfig returns the stock configuration: the five stock categories,
// the audio/video allow-lists and the 0.8 similarity threshold.
func DefaultConfig() *Config {
	return &Config{
		MediaDir:     "./media",
		DownloadsDir: "./downloads",
		Categories: map[string]string{
			"kpop":    "K-Pop",
			"jpop":    "J-Pop",
			"english": "English",
			"cpop":    "C-Pop",
			"custom":  "Custom",
		},
		AudioExtensions:    []string{".mp3", ".flac", ".wav", ".m4a", ".aac"},
		VideoExtensions:    []string{".mp4", ".mkv", ".avi", ".webm", ".mov"},
		MatchThreshold:     0.8,
		SpotifyRedirectURI: "http://localhost:8000/auth/spotify/callback",
		SpotifyTokenFile:   ".spotify_token.json",
		DatabasePath:       "./mediamaestro.db",
		ListenAddr:         ":8000",
		AllowedOrigins:     []string{"http://localhost:3000", "http://localhost:3001"},
		Parallelism:        3,
		YtdlpPath:          "yt-dlp",
	}
}

// ApplyDefaults fills empty fields with default values.
func (cfg *Config) ApplyDefaults() {
	defaults := DefaultConfig()

	if cfg.MediaDir == "" {
		cfg.MediaDir = defaults.MediaDir
	}
	if cfg.DownloadsDir == "" {
		cfg.DownloadsDir = defaults.DownloadsDir
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = defaults.Categories
	}
	if len(cfg.AudioExtensions) == 0 {
		cfg.AudioExtensions = defaults.AudioExtensions
	}
	if len(cfg.VideoExtensions) == 0 {
		cfg.VideoExtensions = defaults.VideoExtensions
	}
	if cfg.MatchThreshold == 0 {
		cfg.MatchThreshold = defaults.MatchThreshold
	}
	if cfg.SpotifyRedirectURI == "" {
		cfg.SpotifyRedirectURI = defaults.SpotifyRedirectURI
	}
	if cfg.SpotifyTokenFile == "" {
		cfg.SpotifyTokenFile = defaults.SpotifyTokenFile
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaults.DatabasePath
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaults.ListenAddr
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = defaults.AllowedOrigins
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = defaults.Parallelism
	}
	if cfg.YtdlpPath == "" {
		cfg.YtdlpPath = defaults.YtdlpPath
	}

	// Environment overrides, matching the original deployment convention.
	if dir := os.Getenv("MEDIAMAESTRO_MEDIA_DIR"); dir != "" {
		cfg.MediaDir = dir
	}
	if id := os.Getenv("SPOTIFY_CLIENT_ID"); id != "" {
		cfg.SpotifyClientID = id
	}
	if secret := os.Getenv("SPOTIFY_CLIENT_SECRET"); secret != "" {
		cfg.SpotifyClientSecret = secret
	}
	if uri := os.Getenv("SPOTIFY_REDIRECT_URI"); uri != "" {
		cfg.SpotifyRedirectURI = uri
	}
}

// CategoryKeys returns the category keys in stable sorted order.
func (cfg *Config) CategoryKeys() []string {
	keys := make([]string, 0, len(cfg.Categories))
	for key := range cfg.Categories {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// CreateDirIfNotExists creates a directory if it does not exist
func CreateDirIfNotExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// EnsureMediaTree creates the <media>/<category>/<format> skeleton.
func (cfg *Config) EnsureMediaTree() error {
	for _, key := range cfg.CategoryKeys() {
		for _, format := range []string{"mp3", "flac", "video"} {
			if err := os.MkdirAll(filepath.Join(cfg.MediaDir, key, format), 0755); err != nil {
				return fmt.Errorf("failed to create media directory: %w", err)
			}
		}
	}
	return CreateDirIfNotExists(cfg.DownloadsDir)
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// SaveConfig saves configuration to a JSON file
func SaveConfig(filePath string, config *Config) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	dir := filepath.Dir(filePath)
	if err := CreateDirIfNotExists(dir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
