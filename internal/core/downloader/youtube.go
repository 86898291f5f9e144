// Package downloader fetches audio and video from YouTube through yt-dlp and
// files the results into the per-category download tree.
package downloader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"mediamaestro/internal/config"
	"mediamaestro/internal/shared"
)

// YouTubeDownloader shells out to yt-dlp. Concurrency is bounded by a
// semaphore and starts are rate limited to one per second to stay polite.
type YouTubeDownloader struct {
	downloadsDir string
	ytdlpPath    string
	limiter      *rate.Limiter
	sem          *semaphore.Weighted
}

// DownloadRequest is one item of a batch download.
type DownloadRequest struct {
	URL      string            `json:"url"`
	Format   shared.FormatKind `json:"format"`
	Category string            `json:"category"`
}

// videoInfo is the subset of yt-dlp's JSON output the downloader needs.
type videoInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Duration   float64 `json:"duration"`
	ViewCount  int64   `json:"view_count"`
	WebpageURL string  `json:"webpage_url"`
	Thumbnail  string  `json:"thumbnail"`
	Filename   string  `json:"_filename"`
}

// NewYouTubeDownloader builds a downloader from the application
// configuration.
func NewYouTubeDownloader(cfg *config.Config) *YouTubeDownloader {
	return &YouTubeDownloader{
		downloadsDir: cfg.DownloadsDir,
		ytdlpPath:    cfg.YtdlpPath,
		limiter:      rate.NewLimiter(rate.Every(time.Second), 1),
		sem:          semaphore.NewWeighted(int64(cfg.Parallelism)),
	}
}

// CheckYtdlp verifies the yt-dlp binary is reachable.
func (d *YouTubeDownloader) CheckYtdlp() error {
	if _, err := exec.LookPath(d.ytdlpPath); err != nil {
		return fmt.Errorf("yt-dlp not found (looked for %q): %w", d.ytdlpPath, err)
	}
	return nil
}

// Search runs a YouTube search and returns up to maxResults hits.
func (d *YouTubeDownloader) Search(ctx context.Context, query string, maxResults int) ([]shared.VideoResult, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	cmd := exec.CommandContext(ctx, d.ytdlpPath,
		fmt.Sprintf("ytsearch%d:%s", maxResults, query),
		"--dump-json",
		"--skip-download",
		"--no-warnings",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp search failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	// yt-dlp prints one JSON object per result line.
	results := []shared.VideoResult{}
	scanner := bufio.NewScanner(&stdout)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var info videoInfo
		if err := json.Unmarshal([]byte(line), &info); err != nil {
			log.Warn().Err(err).Msg("skipping unparseable yt-dlp search result")
			continue
		}
		results = append(results, shared.VideoResult{
			ID:        info.ID,
			Title:     info.Title,
			Uploader:  info.Uploader,
			Duration:  int(info.Duration),
			ViewCount: info.ViewCount,
			URL:       info.WebpageURL,
			Thumbnail: info.Thumbnail,
		})
	}
	return results, scanner.Err()
}

// DownloadAudio downloads one video's audio track as mp3 or flac into
// <downloads>/<category>/<format>/. FLAC output gets vorbis tags and the
// video thumbnail embedded as cover art.
func (d *YouTubeDownloader) DownloadAudio(ctx context.Context, url string, format shared.FormatKind, category string) shared.DownloadResult {
	if format != shared.FormatMP3 && format != shared.FormatFLAC {
		return failedResult(fmt.Errorf("unsupported audio format %q", format))
	}

	outDir := filepath.Join(d.downloadsDir, category, string(format))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return failedResult(fmt.Errorf("failed to create output directory: %w", err))
	}

	args := []string{
		url,
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", string(format),
		"-o", filepath.Join(outDir, "%(title)s.%(ext)s"),
		"--no-warnings",
		"--print-json",
	}
	if format == shared.FormatMP3 {
		args = append(args, "--audio-quality", "320K")
	}

	info, err := d.runDownload(ctx, args)
	if err != nil {
		return failedResult(err)
	}

	// _filename reflects the pre-extraction container; the audio postprocessor
	// swaps the extension for the target format.
	path := swapExtension(info.Filename, string(format))

	if format == shared.FormatFLAC {
		if err := TagFLACFile(ctx, path, info.Title, info.Uploader, info.Thumbnail); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("failed to tag downloaded flac")
		}
	}

	return shared.DownloadResult{
		Success:   true,
		Title:     info.Title,
		FilePath:  path,
		Duration:  int(info.Duration),
		Uploader:  info.Uploader,
		YouTubeID: info.ID,
	}
}

// DownloadVideo downloads one video, capped at 720p, into
// <downloads>/<category>/video/.
func (d *YouTubeDownloader) DownloadVideo(ctx context.Context, url, category string) shared.DownloadResult {
	outDir := filepath.Join(d.downloadsDir, category, string(shared.FormatVideo))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return failedResult(fmt.Errorf("failed to create output directory: %w", err))
	}

	info, err := d.runDownload(ctx, []string{
		url,
		"-f", "best[height<=720]",
		"-o", filepath.Join(outDir, "%(title)s.%(ext)s"),
		"--no-warnings",
		"--print-json",
	})
	if err != nil {
		return failedResult(err)
	}

	return shared.DownloadResult{
		Success:   true,
		Title:     info.Title,
		FilePath:  info.Filename,
		Duration:  int(info.Duration),
		Uploader:  info.Uploader,
		YouTubeID: info.ID,
	}
}

// Download dispatches one request by format.
func (d *YouTubeDownloader) Download(ctx context.Context, req DownloadRequest) shared.DownloadResult {
	if req.Format == shared.FormatVideo {
		return d.DownloadVideo(ctx, req.URL, req.Category)
	}
	return d.DownloadAudio(ctx, req.URL, req.Format, req.Category)
}

// DownloadBatch runs the requests concurrently under the semaphore. Results
// keep the request order. bar may be nil.
func (d *YouTubeDownloader) DownloadBatch(ctx context.Context, requests []DownloadRequest, bar *pb.ProgressBar) []shared.DownloadResult {
	results := make([]shared.DownloadResult, len(requests))
	var wg sync.WaitGroup

	for i, req := range requests {
		wg.Add(1)
		go func(i int, req DownloadRequest) {
			defer wg.Done()

			if err := d.sem.Acquire(ctx, 1); err != nil {
				results[i] = failedResult(err)
				return
			}
			defer d.sem.Release(1)

			if err := d.limiter.Wait(ctx); err != nil {
				results[i] = failedResult(err)
				return
			}

			results[i] = d.Download(ctx, req)
			if bar != nil {
				bar.Increment()
			}
		}(i, req)
	}

	wg.Wait()
	return results
}

// runDownload executes yt-dlp and parses the --print-json metadata line.
func (d *YouTubeDownloader) runDownload(ctx context.Context, args []string) (*videoInfo, error) {
	cmd := exec.CommandContext(ctx, d.ytdlpPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Strs("args", args).Msg("running yt-dlp")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("yt-dlp failed: %w (%s)", err, strings.TrimSpace(stderr.String()))
	}

	var info videoInfo
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	return &info, nil
}

func failedResult(err error) shared.DownloadResult {
	return shared.DownloadResult{Success: false, Error: err.Error()}
}

// swapExtension replaces a path's extension, keeping the rest intact.
func swapExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}
