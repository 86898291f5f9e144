package shared

import "fmt"

// FormatKind identifies one of the three parallel library slots a track can
// exist in. The values double as the on-disk directory names, which must stay
// stable for compatibility with existing libraries.
type FormatKind string

const (
	FormatMP3   FormatKind = "mp3"   // compressed audio slot (mixed by directory, not extension)
	FormatFLAC  FormatKind = "flac"  // lossless audio slot
	FormatVideo FormatKind = "video" // video slot
)

// FormatKinds is the fixed slot order used when iterating a category.
var FormatKinds = []FormatKind{FormatMP3, FormatFLAC, FormatVideo}

// TagRecord is the best-effort metadata extracted from a media file. Every
// field is always populated: extraction failures degrade to filename-derived
// defaults instead of propagating.
type TagRecord struct {
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	Duration float64 `json:"duration"` // seconds
	Bitrate  int     `json:"bitrate"`  // bits per second
	Format   string  `json:"format"`   // e.g. "MP3", "FLAC"
}

// MediaFile is a single file found during a library scan.
type MediaFile struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Size     int64      `json:"size"`
	Format   FormatKind `json:"-"`
	Metadata TagRecord  `json:"metadata"`
}

// CatalogTrack is a track from the remote catalog (a Spotify playlist or
// search result). Read-only input to the matcher.
type CatalogTrack struct {
	ID         string   `json:"id"`
	Title      string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	DurationMS int      `json:"duration_ms"`
}

// PlaylistSummary describes a remote playlist.
type PlaylistSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TracksTotal int    `json:"tracks_total"`
}

// AuthStatus reports the catalog client's configuration and token state.
type AuthStatus struct {
	Configured      bool `json:"configured"`
	Authenticated   bool `json:"authenticated"`
	ClientIDSet     bool `json:"client_id_set"`
	ClientSecretSet bool `json:"client_secret_set"`
	HasCachedToken  bool `json:"has_cached_token"`
}

// VideoResult is a single YouTube search hit.
type VideoResult struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Uploader  string `json:"uploader"`
	Duration  int    `json:"duration"`
	ViewCount int64  `json:"view_count"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
}

// DownloadResult reports the outcome of a single YouTube download.
type DownloadResult struct {
	Success   bool   `json:"success"`
	Title     string `json:"title,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
	Duration  int    `json:"duration,omitempty"`
	Uploader  string `json:"uploader,omitempty"`
	YouTubeID string `json:"youtube_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ErrNotConfigured is returned when the Spotify credentials are missing.
var ErrNotConfigured = fmt.Errorf("spotify not configured - missing credentials")

// ErrNotAuthenticated is returned when no valid Spotify token is available.
// Callers are expected to send the user through the auth flow; the client
// never retries authentication itself.
var ErrNotAuthenticated = fmt.Errorf("not authenticated with spotify")
