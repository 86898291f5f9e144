// Package spotify wraps the Spotify Web API behind the authorization-code
// flow. The client persists its OAuth token to disk so a restart does not
// force the user back through the browser consent screen.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog/log"
	spotifyapi "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"

	"mediamaestro/internal/config"
	"mediamaestro/internal/shared"
)

// Client talks to the Spotify Web API on behalf of one authenticated user.
type Client struct {
	clientID     string
	clientSecret string
	tokenFile    string
	auth         *spotifyauth.Authenticator

	mu     sync.Mutex
	client *spotifyapi.Client
}

// NewClient builds a catalog client from the application configuration. A
// cached token from a previous session is loaded if present; the underlying
// HTTP client refreshes it transparently when it expires.
func NewClient(cfg *config.Config) *Client {
	c := &Client{
		clientID:     cfg.SpotifyClientID,
		clientSecret: cfg.SpotifyClientSecret,
		tokenFile:    cfg.SpotifyTokenFile,
	}

	if !c.Configured() {
		return c
	}

	c.auth = spotifyauth.New(
		spotifyauth.WithClientID(cfg.SpotifyClientID),
		spotifyauth.WithClientSecret(cfg.SpotifyClientSecret),
		spotifyauth.WithRedirectURL(cfg.SpotifyRedirectURI),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserLibraryRead,
			spotifyauth.ScopePlaylistModifyPublic,
			spotifyauth.ScopePlaylistModifyPrivate,
			spotifyauth.ScopeUserReadPrivate,
		),
	)

	if token, err := c.loadToken(); err == nil {
		c.client = spotifyapi.New(c.auth.Client(context.Background(), token))
		log.Debug().Msg("loaded cached spotify token")
	}

	return c
}

// Configured reports whether both OAuth credentials are set.
func (c *Client) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// Status reports the credential and token state for the auth status endpoint.
func (c *Client) Status() shared.AuthStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return shared.AuthStatus{
		Configured:      c.Configured(),
		Authenticated:   c.client != nil,
		ClientIDSet:     c.clientID != "",
		ClientSecretSet: c.clientSecret != "",
		HasCachedToken:  shared.FileExists(c.tokenFile),
	}
}

// AuthURL returns the Spotify consent URL the user must visit. The state
// value is echoed back on the callback and must be verified by the caller.
func (c *Client) AuthURL(state string) (string, error) {
	if !c.Configured() {
		return "", shared.ErrNotConfigured
	}
	return c.auth.AuthURL(state), nil
}

// Exchange trades the callback authorization code for a token, caches the
// token on disk and activates the API client.
func (c *Client) Exchange(ctx context.Context, code string) error {
	if !c.Configured() {
		return shared.ErrNotConfigured
	}

	token, err := c.auth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	if err := c.saveToken(token); err != nil {
		log.Warn().Err(err).Msg("failed to cache spotify token")
	}

	c.mu.Lock()
	c.client = spotifyapi.New(c.auth.Client(context.Background(), token))
	c.mu.Unlock()

	return nil
}

// Logout drops the active session and removes the cached token.
func (c *Client) Logout() error {
	c.mu.Lock()
	c.client = nil
	c.mu.Unlock()

	if err := os.Remove(c.tokenFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// api returns the active API client or the appropriate sentinel error.
func (c *Client) api() (*spotifyapi.Client, error) {
	if !c.Configured() {
		return nil, shared.ErrNotConfigured
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return c.client, nil
}

// SearchTracks searches the catalog for a track. The artist filter may be
// empty.
func (c *Client) SearchTracks(ctx context.Context, track, artist string) ([]shared.CatalogTrack, error) {
	client, err := c.api()
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("track:%s", track)
	if artist != "" {
		query = fmt.Sprintf("track:%s artist:%s", track, artist)
	}

	result, err := client.Search(ctx, query, spotifyapi.SearchTypeTrack, spotifyapi.Limit(10))
	if err != nil {
		return nil, fmt.Errorf("spotify search failed: %w", err)
	}

	tracks := []shared.CatalogTrack{}
	if result.Tracks != nil {
		for _, hit := range result.Tracks.Tracks {
			tracks = append(tracks, convertTrack(hit))
		}
	}
	return tracks, nil
}

// UserPlaylists lists the authenticated user's playlists.
func (c *Client) UserPlaylists(ctx context.Context) ([]shared.PlaylistSummary, error) {
	client, err := c.api()
	if err != nil {
		return nil, err
	}

	page, err := client.CurrentUsersPlaylists(ctx, spotifyapi.Limit(50))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlists: %w", err)
	}

	playlists := []shared.PlaylistSummary{}
	for _, p := range page.Playlists {
		playlists = append(playlists, shared.PlaylistSummary{
			ID:          string(p.ID),
			Name:        p.Name,
			Description: p.Description,
			TracksTotal: int(p.Tracks.Total),
		})
	}
	return playlists, nil
}

// PlaylistTracks fetches every track of one playlist.
func (c *Client) PlaylistTracks(ctx context.Context, playlistID string) ([]shared.CatalogTrack, error) {
	client, err := c.api()
	if err != nil {
		return nil, err
	}

	playlist, err := client.GetPlaylist(ctx, spotifyapi.ID(playlistID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist %s: %w", playlistID, err)
	}

	tracks := []shared.CatalogTrack{}
	for _, item := range playlist.Tracks.Tracks {
		tracks = append(tracks, convertTrack(item.Track))
	}
	return tracks, nil
}

// CreatePlaylist creates a private playlist for the authenticated user.
func (c *Client) CreatePlaylist(ctx context.Context, name, description string) (*shared.PlaylistSummary, error) {
	client, err := c.api()
	if err != nil {
		return nil, err
	}

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current user: %w", err)
	}

	playlist, err := client.CreatePlaylistForUser(ctx, user.ID, name, description, false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	return &shared.PlaylistSummary{
		ID:          string(playlist.ID),
		Name:        playlist.Name,
		Description: playlist.Description,
	}, nil
}

// AddTracksToPlaylist appends tracks to a playlist in batches of 100, the
// API's per-request ceiling.
func (c *Client) AddTracksToPlaylist(ctx context.Context, playlistID string, trackIDs []string) error {
	client, err := c.api()
	if err != nil {
		return err
	}

	for start := 0; start < len(trackIDs); start += 100 {
		end := start + 100
		if end > len(trackIDs) {
			end = len(trackIDs)
		}
		batch := make([]spotifyapi.ID, 0, end-start)
		for _, id := range trackIDs[start:end] {
			batch = append(batch, spotifyapi.ID(id))
		}
		if _, err := client.AddTracksToPlaylist(ctx, spotifyapi.ID(playlistID), batch...); err != nil {
			return fmt.Errorf("failed to add tracks to playlist: %w", err)
		}
	}
	return nil
}

func convertTrack(track spotifyapi.FullTrack) shared.CatalogTrack {
	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, artist.Name)
	}
	return shared.CatalogTrack{
		ID:         string(track.ID),
		Title:      track.Name,
		Artists:    artists,
		Album:      track.Album.Name,
		DurationMS: int(track.Duration),
	}
}

func (c *Client) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached token: %w", err)
	}
	if token.RefreshToken == "" && !token.Valid() {
		return nil, fmt.Errorf("cached token expired with no refresh token")
	}
	return &token, nil
}

func (c *Client) saveToken(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	// The token grants API access; keep it private to the user.
	return os.WriteFile(c.tokenFile, data, 0600)
}
