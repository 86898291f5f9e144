package storage

import "time"

// Download job states.
const (
	JobPending    = "pending"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// Playlist is a named, categorized collection of songs. SpotifyID is empty
// for local-only playlists.
type Playlist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	SpotifyID string    `json:"spotify_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Song is one tracked library entry. The three path fields mirror the format
// slots; any of them may be empty.
type Song struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	Album      string    `json:"album"`
	MP3Path    string    `json:"mp3_path,omitempty"`
	FLACPath   string    `json:"flac_path,omitempty"`
	VideoPath  string    `json:"video_path,omitempty"`
	SpotifyID  string    `json:"spotify_id,omitempty"`
	YouTubeID  string    `json:"youtube_id,omitempty"`
	Duration   float64   `json:"duration"`
	FileSize   int64     `json:"file_size"`
	PlaylistID *int64    `json:"playlist_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DownloadJob tracks one YouTube download through its lifecycle.
type DownloadJob struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	SongID       *int64     `json:"song_id,omitempty"`
	Status       string     `json:"status"`
	Progress     float64    `json:"progress"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}
