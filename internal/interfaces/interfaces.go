// Package interfaces defines the service contracts the HTTP server and CLI
// commands depend on, so handlers can be tested against fakes.
package interfaces

import (
	"context"

	"mediamaestro/internal/shared"
)

// CatalogService is the Spotify-facing surface.
type CatalogService interface {
	Status() shared.AuthStatus
	AuthURL(state string) (string, error)
	Exchange(ctx context.Context, code string) error
	Logout() error
	SearchTracks(ctx context.Context, track, artist string) ([]shared.CatalogTrack, error)
	UserPlaylists(ctx context.Context) ([]shared.PlaylistSummary, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]shared.CatalogTrack, error)
	CreatePlaylist(ctx context.Context, name, description string) (*shared.PlaylistSummary, error)
	AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error
}

// DownloaderService is the YouTube-facing surface.
type DownloaderService interface {
	Search(ctx context.Context, query string, maxResults int) ([]shared.VideoResult, error)
	DownloadAudio(ctx context.Context, url string, format shared.FormatKind, category string) shared.DownloadResult
	DownloadVideo(ctx context.Context, url, category string) shared.DownloadResult
}
