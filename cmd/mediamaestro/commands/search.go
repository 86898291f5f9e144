package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediamaestro/internal/shared"
)

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search YouTube (default) or the Spotify catalog for tracks.",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearchCommand,
	}
	cmd.Flags().Int("max", 10, "Maximum number of results")
	cmd.Flags().Bool("spotify", false, "Search the Spotify catalog instead of YouTube")
	cmd.Flags().String("artist", "", "Artist filter for Spotify search")
	return cmd
}

func runSearchCommand(cmd *cobra.Command, args []string) error {
	_, container, err := initConfigAndServices(cmd, false)
	if err != nil {
		return err
	}

	query := args[0]
	maxResults, _ := cmd.Flags().GetInt("max")

	if useSpotify, _ := cmd.Flags().GetBool("spotify"); useSpotify {
		artist, _ := cmd.Flags().GetString("artist")
		tracks, err := container.Catalog.SearchTracks(context.Background(), query, artist)
		if err != nil {
			shared.ColorError.Printf("❌ Spotify search failed: %v\n", err)
			return nil
		}
		if len(tracks) == 0 {
			shared.ColorWarning.Println("⚠️ No tracks found.")
			return nil
		}
		shared.ColorInfo.Printf("🎧 Spotify results for %q:\n", query)
		for i, track := range tracks {
			fmt.Printf("  %2d. %s - %s [%s] (%s)\n",
				i+1, track.Title, strings.Join(track.Artists, ", "), track.Album, track.ID)
		}
		return nil
	}

	results, err := container.Downloader.Search(context.Background(), query, maxResults)
	if err != nil {
		shared.ColorError.Printf("❌ YouTube search failed: %v\n", err)
		return nil
	}
	if len(results) == 0 {
		shared.ColorWarning.Println("⚠️ No videos found.")
		return nil
	}

	shared.ColorInfo.Printf("📺 YouTube results for %q:\n", query)
	for i, video := range results {
		fmt.Printf("  %2d. %s (%s, %ds, %d views)\n     %s\n",
			i+1, video.Title, video.Uploader, video.Duration, video.ViewCount, video.URL)
	}
	return nil
}
