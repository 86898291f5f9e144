package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mediamaestro/internal/shared"
)

// NewMatchCommand creates the local-vs-Spotify reconciliation command.
func NewMatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match [category] [spotify_playlist_id]",
		Short: "Match a category's local tracks against a Spotify playlist.",
		Args:  cobra.ExactArgs(2),
		RunE:  runMatchCommand,
	}
	cmd.Flags().Bool("json", false, "Print the raw report as JSON")
	return cmd
}

func runMatchCommand(cmd *cobra.Command, args []string) error {
	_, container, err := initConfigAndServices(cmd, false)
	if err != nil {
		return err
	}

	category, playlistID := args[0], args[1]

	tracks, err := container.Catalog.PlaylistTracks(context.Background(), playlistID)
	if err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			shared.ColorError.Println("❌ Not authenticated with Spotify. Run 'mediamaestro auth login' first.")
			return nil
		}
		return fmt.Errorf("failed to fetch playlist tracks: %w", err)
	}

	report := container.Library.MatchCatalog(category, tracks)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	shared.ColorInfo.Printf("🔗 Matching %s against playlist %s (%d tracks):\n", category, playlistID, len(tracks))
	shared.ColorSuccess.Printf("✅ Matched: %d\n", len(report.Matched))
	printNameList("📁 Local only", report.LocalOnly)
	printNameList("🎧 Spotify only", report.CatalogOnly)

	for local, match := range report.FuzzyMatches {
		shared.ColorWarning.Printf("≈ %q looks like %q (%.2f)\n", local, match.CatalogIdentity, match.Score)
	}
	return nil
}
