// Package storage persists playlists, songs and download jobs in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store manages library persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Open initializes or connects to the library database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}

// CreatePlaylist inserts a playlist and returns it with its assigned ID.
func (s *Store) CreatePlaylist(ctx context.Context, name, category, spotifyID string) (*Playlist, error) {
	createdAt := now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO playlists (name, category, spotify_id, created_at) VALUES (?, ?, ?, ?)",
		name, category, spotifyID, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert playlist: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist id: %w", err)
	}
	return &Playlist{
		ID:        id,
		Name:      name,
		Category:  category,
		SpotifyID: spotifyID,
		CreatedAt: parseTime(createdAt),
	}, nil
}

// ListPlaylists returns all playlists, newest first.
func (s *Store) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, category, spotify_id, created_at FROM playlists ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		var p Playlist
		var createdAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.SpotifyID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		p.CreatedAt = parseTime(createdAt)
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// GetPlaylist fetches one playlist by ID.
func (s *Store) GetPlaylist(ctx context.Context, id int64) (*Playlist, error) {
	var p Playlist
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, category, spotify_id, created_at FROM playlists WHERE id = ?", id).
		Scan(&p.ID, &p.Name, &p.Category, &p.SpotifyID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist: %w", err)
	}
	p.CreatedAt = parseTime(createdAt)
	return &p, nil
}

// AddSong inserts a song. ID, CreatedAt and UpdatedAt are assigned here.
func (s *Store) AddSong(ctx context.Context, song *Song) (*Song, error) {
	createdAt := now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO songs (title, artist, album, mp3_path, flac_path, video_path,
			spotify_id, youtube_id, duration, file_size, playlist_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		song.Title, song.Artist, song.Album, song.MP3Path, song.FLACPath, song.VideoPath,
		song.SpotifyID, song.YouTubeID, song.Duration, song.FileSize, song.PlaylistID,
		createdAt, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert song: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read song id: %w", err)
	}

	inserted := *song
	inserted.ID = id
	inserted.CreatedAt = parseTime(createdAt)
	inserted.UpdatedAt = inserted.CreatedAt
	return &inserted, nil
}

// PlaylistSongs returns the songs of one playlist in insertion order.
func (s *Store) PlaylistSongs(ctx context.Context, playlistID int64) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, artist, album, mp3_path, flac_path, video_path,
			spotify_id, youtube_id, duration, file_size, playlist_id, created_at, updated_at
		FROM songs WHERE playlist_id = ? ORDER BY id`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	songs := []Song{}
	for rows.Next() {
		var song Song
		var createdAt, updatedAt string
		if err := rows.Scan(&song.ID, &song.Title, &song.Artist, &song.Album,
			&song.MP3Path, &song.FLACPath, &song.VideoPath,
			&song.SpotifyID, &song.YouTubeID, &song.Duration, &song.FileSize,
			&song.PlaylistID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		song.CreatedAt = parseTime(createdAt)
		song.UpdatedAt = parseTime(updatedAt)
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// CreateDownloadJob inserts a pending job and returns it with a fresh UUID.
func (s *Store) CreateDownloadJob(ctx context.Context, url string) (*DownloadJob, error) {
	job := &DownloadJob{
		ID:     uuid.NewString(),
		URL:    url,
		Status: JobPending,
	}
	createdAt := now()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO download_jobs (id, url, status, progress, created_at) VALUES (?, ?, ?, 0, ?)",
		job.ID, job.URL, job.Status, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert download job: %w", err)
	}
	job.CreatedAt = parseTime(createdAt)
	return job, nil
}

// UpdateDownloadJob records a job's new state. Terminal states also set the
// completion timestamp.
func (s *Store) UpdateDownloadJob(ctx context.Context, id, status string, progress float64, errorMessage string) error {
	var completedAt any
	if status == JobCompleted || status == JobFailed {
		completedAt = now()
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE download_jobs SET status = ?, progress = ?, error_message = ?, completed_at = ? WHERE id = ?",
		status, progress, errorMessage, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update download job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AttachJobSong links a completed job to the song it produced.
func (s *Store) AttachJobSong(ctx context.Context, jobID string, songID int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE download_jobs SET song_id = ? WHERE id = ?", songID, jobID)
	if err != nil {
		return fmt.Errorf("failed to attach song to job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetDownloadJob fetches one job by its UUID.
func (s *Store) GetDownloadJob(ctx context.Context, id string) (*DownloadJob, error) {
	var job DownloadJob
	var createdAt string
	var completedAt sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, song_id, status, progress, error_message, created_at, completed_at
		FROM download_jobs WHERE id = ?`, id).
		Scan(&job.ID, &job.URL, &job.SongID, &job.Status, &job.Progress,
			&job.ErrorMessage, &createdAt, &completedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query download job: %w", err)
	}
	job.CreatedAt = parseTime(createdAt)
	if completedAt.Valid {
		t := parseTime(completedAt.String)
		job.CompletedAt = &t
	}
	return &job, nil
}
