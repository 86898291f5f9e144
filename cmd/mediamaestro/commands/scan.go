package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"mediamaestro/internal/shared"
)

// NewScanCommand creates the library scan command.
func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the media library and show per-category organization.",
		Args:  cobra.NoArgs,
		RunE:  runScanCommand,
	}
	cmd.Flags().Bool("json", false, "Print the raw report as JSON")
	return cmd
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	_, container, err := initConfigAndServices(cmd, false)
	if err != nil {
		return err
	}

	report := container.Library.Scan()

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(report.Categories) == 0 {
		shared.ColorWarning.Println("⚠️ No category directories found in the media library.")
		return nil
	}

	keys := make([]string, 0, len(report.Categories))
	for key := range report.Categories {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	shared.ColorInfo.Println("📂 Library scan:")
	for _, key := range keys {
		listing := report.Categories[key]
		balance := "⚖️  balanced"
		if !listing.IsBalanced {
			balance = "⚠️  unbalanced"
		}
		fmt.Printf("  %s (%s): %d mp3, %d flac, %d video [%s]\n",
			key, listing.Name, listing.MP3Count, listing.FLACCount, listing.VideoCount, balance)
	}
	shared.ColorSuccess.Printf("✅ %d files total\n", report.TotalFiles)
	return nil
}
