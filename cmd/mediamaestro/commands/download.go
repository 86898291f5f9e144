package commands

import (
	"context"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"mediamaestro/internal/core/downloader"
	"mediamaestro/internal/shared"
)

// NewDownloadCommand creates the YouTube download command.
func NewDownloadCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download [urls...]",
		Short: "Download audio or video from YouTube into the downloads tree.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDownloadCommand,
	}
	cmd.Flags().String("format", "mp3", "Target format (mp3, flac, video)")
	cmd.Flags().String("category", "custom", "Target category")
	return cmd
}

func runDownloadCommand(cmd *cobra.Command, args []string) error {
	cfg, _, err := initConfigAndServices(cmd, false)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	category, _ := cmd.Flags().GetString("category")

	kind := shared.FormatKind(format)
	if kind != shared.FormatMP3 && kind != shared.FormatFLAC && kind != shared.FormatVideo {
		shared.ColorError.Printf("❌ Unknown format %q (want mp3, flac or video)\n", format)
		return nil
	}
	if _, ok := cfg.Categories[category]; !ok {
		shared.ColorError.Printf("❌ Unknown category %q. Known categories: %v\n", category, cfg.CategoryKeys())
		return nil
	}

	dl := downloader.NewYouTubeDownloader(cfg)
	if err := dl.CheckYtdlp(); err != nil {
		shared.ColorError.Printf("❌ %v\n", err)
		shared.ColorInfo.Println("💡 Install yt-dlp: https://github.com/yt-dlp/yt-dlp#installation")
		return nil
	}

	requests := make([]downloader.DownloadRequest, 0, len(args))
	for _, url := range args {
		requests = append(requests, downloader.DownloadRequest{
			URL:      url,
			Format:   kind,
			Category: category,
		})
	}

	shared.ColorInfo.Printf("⬇️  Downloading %d item(s) as %s into %s...\n", len(requests), format, category)

	var bar *pb.ProgressBar
	if shared.IsTTY() {
		bar = pb.StartNew(len(requests))
	}
	results := dl.DownloadBatch(context.Background(), requests, bar)
	if bar != nil {
		bar.Finish()
	}

	for i, result := range results {
		if result.Success {
			shared.ColorSuccess.Printf("✅ %s -> %s\n", result.Title, result.FilePath)
		} else {
			shared.ColorError.Printf("❌ %s: %s\n", requests[i].URL, result.Error)
		}
	}
	return nil
}
