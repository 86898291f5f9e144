package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPlaylistRoundtrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.CreatePlaylist(ctx, "K-Pop Favorites", "kpop", "sp123")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := store.GetPlaylist(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "K-Pop Favorites", fetched.Name)
	assert.Equal(t, "kpop", fetched.Category)
	assert.Equal(t, "sp123", fetched.SpotifyID)

	playlists, err := store.ListPlaylists(ctx)
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, created.ID, playlists[0].ID)
}

func TestPlaylistNameUnique(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.CreatePlaylist(ctx, "Dupes", "kpop", "")
	require.NoError(t, err)
	_, err = store.CreatePlaylist(ctx, "Dupes", "jpop", "")
	assert.Error(t, err)
}

func TestGetPlaylistNotFound(t *testing.T) {
	store := openTestStore(t)
	_, err := store.GetPlaylist(context.Background(), 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSongs(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	playlist, err := store.CreatePlaylist(ctx, "List", "kpop", "")
	require.NoError(t, err)

	song, err := store.AddSong(ctx, &Song{
		Title:      "Dynamite",
		Artist:     "BTS",
		Album:      "BE",
		MP3Path:    "/media/kpop/mp3/Dynamite.mp3",
		Duration:   199.5,
		FileSize:   4096,
		PlaylistID: &playlist.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, song.ID)

	songs, err := store.PlaylistSongs(ctx, playlist.ID)
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Dynamite", songs[0].Title)
	assert.Equal(t, 199.5, songs[0].Duration)
	require.NotNil(t, songs[0].PlaylistID)
	assert.Equal(t, playlist.ID, *songs[0].PlaylistID)

	empty, err := store.PlaylistSongs(ctx, 999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDownloadJobLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	job, err := store.CreateDownloadJob(ctx, "https://youtu.be/abc123")
	require.NoError(t, err)
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, JobPending, job.Status)

	require.NoError(t, store.UpdateDownloadJob(ctx, job.ID, JobInProgress, 0.5, ""))

	mid, err := store.GetDownloadJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobInProgress, mid.Status)
	assert.Equal(t, 0.5, mid.Progress)
	assert.Nil(t, mid.CompletedAt)

	require.NoError(t, store.UpdateDownloadJob(ctx, job.ID, JobCompleted, 1.0, ""))

	done, err := store.GetDownloadJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobCompleted, done.Status)
	require.NotNil(t, done.CompletedAt)
	assert.False(t, done.CompletedAt.IsZero())
}

func TestDownloadJobFailure(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	job, err := store.CreateDownloadJob(ctx, "https://youtu.be/bad")
	require.NoError(t, err)

	require.NoError(t, store.UpdateDownloadJob(ctx, job.ID, JobFailed, 0, "yt-dlp failed"))

	failed, err := store.GetDownloadJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, JobFailed, failed.Status)
	assert.Equal(t, "yt-dlp failed", failed.ErrorMessage)
	assert.NotNil(t, failed.CompletedAt)
}

func TestUpdateUnknownJob(t *testing.T) {
	store := openTestStore(t)
	err := store.UpdateDownloadJob(context.Background(), "no-such-id", JobCompleted, 1, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttachJobSong(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	job, err := store.CreateDownloadJob(ctx, "https://youtu.be/abc")
	require.NoError(t, err)

	song, err := store.AddSong(ctx, &Song{Title: "Dynamite", Artist: "BTS"})
	require.NoError(t, err)

	require.NoError(t, store.AttachJobSong(ctx, job.ID, song.ID))

	fetched, err := store.GetDownloadJob(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.SongID)
	assert.Equal(t, song.ID, *fetched.SongID)
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.db")

	store, err := Open(path)
	require.NoError(t, err)
	_, err = store.CreatePlaylist(context.Background(), "Persisted", "kpop", "")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	playlists, err := reopened.ListPlaylists(context.Background())
	require.NoError(t, err)
	require.Len(t, playlists, 1)
	assert.Equal(t, "Persisted", playlists[0].Name)
}
