// Package server exposes the reconciliation engine, the Spotify catalog and
// the YouTube downloader over HTTP for the web frontend.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"mediamaestro/internal/services"
)

// Server is the HTTP frontend over the service container.
type Server struct {
	services *services.ServiceContainer
	http     *http.Server

	// OAuth state issued by the last login request, cleared on callback.
	authMu    sync.Mutex
	authState string
}

// New builds the server and its route tree.
func New(container *services.ServiceContainer) *Server {
	s := &Server{services: container}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   container.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/auth/spotify", func(r chi.Router) {
		r.Get("/login", s.handleSpotifyLogin)
		r.Get("/callback", s.handleSpotifyCallback)
		r.Get("/status", s.handleSpotifyStatus)
		r.Post("/logout", s.handleSpotifyLogout)
	})

	r.Route("/playlists", func(r chi.Router) {
		r.Get("/", s.handleListPlaylists)
		r.Post("/", s.handleCreatePlaylist)
		r.Get("/{id}/songs", s.handlePlaylistSongs)
	})

	r.Route("/spotify", func(r chi.Router) {
		r.Get("/search", s.handleSpotifySearch)
		r.Get("/playlists", s.handleSpotifyPlaylists)
		r.Get("/playlists/{id}/tracks", s.handleSpotifyPlaylistTracks)
	})

	r.Route("/youtube", func(r chi.Router) {
		r.Get("/search", s.handleYouTubeSearch)
		r.Post("/download", s.handleYouTubeDownload)
		r.Get("/jobs/{id}", s.handleDownloadJob)
	})

	r.Route("/files", func(r chi.Router) {
		r.Get("/scan", s.handleScan)
		r.Post("/copy", s.handleCopy)
		r.Get("/missing/{category}", s.handleMissing)
		r.Post("/match-spotify", s.handleMatchSpotify)
		r.Get("/organize/{category}", s.handleOrganize)
	})

	r.Get("/config/media-directory", s.handleMediaDirectory)

	s.http = &http.Server{
		Addr:              container.Config.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("http server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}
