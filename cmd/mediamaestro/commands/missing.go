package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"mediamaestro/internal/shared"
)

// NewMissingCommand creates the missing-formats report command.
func NewMissingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "missing [category]",
		Short: "Report which format each track of a category is missing.",
		Args:  cobra.ExactArgs(1),
		RunE:  runMissingCommand,
	}
	cmd.Flags().Bool("json", false, "Print the raw report as JSON")
	return cmd
}

func runMissingCommand(cmd *cobra.Command, args []string) error {
	_, container, err := initConfigAndServices(cmd, false)
	if err != nil {
		return err
	}

	category := args[0]
	report := container.Library.MissingFormats(category)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	shared.ColorInfo.Printf("🔍 Format completeness for %s:\n", category)
	printNameList("🎧 Missing mp3", report.MissingMP3)
	printNameList("💿 Missing flac", report.MissingFLAC)
	printNameList("🎬 Missing video", report.MissingVideo)

	if len(report.Complete) > 0 {
		shared.ColorSuccess.Printf("✅ Complete in all formats: %d tracks\n", len(report.Complete))
	}
	for _, collision := range report.Collisions {
		shared.ColorWarning.Printf("⚠️ Name collision for %q in %s: kept %s, ignored %s\n",
			collision.Identity, collision.Format, collision.KeptPath, collision.DiscardedPath)
	}
	return nil
}

func printNameList(label string, names []string) {
	if len(names) == 0 {
		return
	}
	shared.ColorWarning.Printf("%s (%d):\n", label, len(names))
	for _, name := range names {
		fmt.Printf("  - %s\n", name)
	}
}
