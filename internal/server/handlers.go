package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os/exec"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mediamaestro/internal/shared"
	"mediamaestro/internal/storage"
)

// CreatePlaylistRequest is the POST /playlists body.
type CreatePlaylistRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	CreateSpotify bool   `json:"create_spotify"`
}

// CopyFilesRequest is the POST /files/copy body.
type CopyFilesRequest struct {
	SourcePaths    []string `json:"source_paths"`
	TargetPlaylist string   `json:"target_playlist"`
}

// MatchPlaylistRequest is the POST /files/match-spotify body.
type MatchPlaylistRequest struct {
	PlaylistKey       string `json:"playlist_key"`
	SpotifyPlaylistID string `json:"spotify_playlist_id"`
}

// DownloadRequest is the POST /youtube/download body.
type DownloadRequest struct {
	URL      string `json:"url"`
	Format   string `json:"format"`
	Category string `json:"category"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

// writeServiceError maps service errors onto HTTP statuses: missing
// credentials are a client configuration problem, a missing token needs the
// auth flow, a missing yt-dlp binary makes the downloader unavailable.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotConfigured):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, shared.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, exec.ErrNotFound):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return false
	}
	return true
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    "MediaMaestro API",
		"version": "1.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSpotifyLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	url, err := s.services.Catalog.AuthURL(state)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	s.authMu.Lock()
	s.authState = state
	s.authMu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"auth_url": url})
}

func (s *Server) handleSpotifyCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing authorization code"))
		return
	}

	s.authMu.Lock()
	expected := s.authState
	s.authState = ""
	s.authMu.Unlock()

	if expected == "" || state != expected {
		writeError(w, http.StatusBadRequest, errors.New("state mismatch"))
		return
	}

	if err := s.services.Catalog.Exchange(r.Context(), code); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "authenticated with spotify"})
}

func (s *Server) handleSpotifyStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.services.Catalog.Status())
}

func (s *Server) handleSpotifyLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Catalog.Logout(); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Server) handleListPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.services.Store.ListPlaylists(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) handleCreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req CreatePlaylistRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("playlist name is required"))
		return
	}
	if _, ok := s.services.Config.Categories[req.Category]; !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown category"))
		return
	}

	spotifyID := ""
	if req.CreateSpotify {
		remote, err := s.services.Catalog.CreatePlaylist(r.Context(), req.Name, "Created by MediaMaestro")
		if err != nil {
			writeServiceError(w, err)
			return
		}
		spotifyID = remote.ID
	}

	playlist, err := s.services.Store.CreatePlaylist(r.Context(), req.Name, req.Category, spotifyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, playlist)
}

func (s *Server) handlePlaylistSongs(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid playlist id"))
		return
	}

	if _, err := s.services.Store.GetPlaylist(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	songs, err := s.services.Store.PlaylistSongs(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, songs)
}

func (s *Server) handleSpotifySearch(w http.ResponseWriter, r *http.Request) {
	track := r.URL.Query().Get("track")
	if track == "" {
		writeError(w, http.StatusBadRequest, errors.New("track query parameter is required"))
		return
	}

	tracks, err := s.services.Catalog.SearchTracks(r.Context(), track, r.URL.Query().Get("artist"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleSpotifyPlaylists(w http.ResponseWriter, r *http.Request) {
	playlists, err := s.services.Catalog.UserPlaylists(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, playlists)
}

func (s *Server) handleSpotifyPlaylistTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := s.services.Catalog.PlaylistTracks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

func (s *Server) handleYouTubeSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, errors.New("query parameter is required"))
		return
	}
	maxResults, _ := strconv.Atoi(r.URL.Query().Get("max_results"))

	results, err := s.services.Downloader.Search(r.Context(), query, maxResults)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleYouTubeDownload(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, errors.New("url is required"))
		return
	}
	if _, ok := s.services.Config.Categories[req.Category]; !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown category"))
		return
	}
	format := shared.FormatKind(req.Format)
	if format != shared.FormatMP3 && format != shared.FormatFLAC && format != shared.FormatVideo {
		writeError(w, http.StatusBadRequest, errors.New("format must be mp3, flac or video"))
		return
	}

	job, err := s.services.Store.CreateDownloadJob(r.Context(), req.URL)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var result shared.DownloadResult
	if format == shared.FormatVideo {
		result = s.services.Downloader.DownloadVideo(r.Context(), req.URL, req.Category)
	} else {
		result = s.services.Downloader.DownloadAudio(r.Context(), req.URL, format, req.Category)
	}

	if !result.Success {
		if err := s.services.Store.UpdateDownloadJob(r.Context(), job.ID, storage.JobFailed, 0, result.Error); err != nil {
			log.Error().Err(err).Str("job", job.ID).Msg("failed to record job failure")
		}
		writeJSON(w, http.StatusOK, map[string]any{"job_id": job.ID, "result": result})
		return
	}

	if err := s.services.Store.UpdateDownloadJob(r.Context(), job.ID, storage.JobCompleted, 1, ""); err != nil {
		log.Error().Err(err).Str("job", job.ID).Msg("failed to record job completion")
	}

	song := &storage.Song{
		Title:     result.Title,
		Artist:    result.Uploader,
		YouTubeID: result.YouTubeID,
		Duration:  float64(result.Duration),
	}
	switch format {
	case shared.FormatMP3:
		song.MP3Path = result.FilePath
	case shared.FormatFLAC:
		song.FLACPath = result.FilePath
	case shared.FormatVideo:
		song.VideoPath = result.FilePath
	}
	if saved, err := s.services.Store.AddSong(r.Context(), song); err != nil {
		log.Error().Err(err).Msg("failed to record downloaded song")
	} else if err := s.services.Store.AttachJobSong(r.Context(), job.ID, saved.ID); err != nil {
		log.Error().Err(err).Str("job", job.ID).Msg("failed to attach song to job")
	}

	writeJSON(w, http.StatusOK, map[string]any{"job_id": job.ID, "result": result})
}

func (s *Server) handleDownloadJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.services.Store.GetDownloadJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.services.Library.Scan())
}

func (s *Server) handleCopy(w http.ResponseWriter, r *http.Request) {
	var req CopyFilesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := s.services.Config.Categories[req.TargetPlaylist]; !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown target playlist"))
		return
	}

	writeJSON(w, http.StatusOK, s.services.Library.CopyIntoLibrary(req.SourcePaths, req.TargetPlaylist, nil))
}

func (s *Server) handleMissing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.services.Library.MissingFormats(chi.URLParam(r, "category")))
}

func (s *Server) handleMatchSpotify(w http.ResponseWriter, r *http.Request) {
	var req MatchPlaylistRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PlaylistKey == "" || req.SpotifyPlaylistID == "" {
		writeError(w, http.StatusBadRequest, errors.New("playlist_key and spotify_playlist_id are required"))
		return
	}

	tracks, err := s.services.Catalog.PlaylistTracks(r.Context(), req.SpotifyPlaylistID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.services.Library.MatchCatalog(req.PlaylistKey, tracks))
}

func (s *Server) handleOrganize(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.services.Library.ListCategory(chi.URLParam(r, "category")))
}

func (s *Server) handleMediaDirectory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"media_directory": s.services.Config.MediaDir,
		"categories":      s.services.Config.CategoryKeys(),
	})
}
