package commands

import (
	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"mediamaestro/internal/shared"
)

// NewCopyCommand creates the file import command.
func NewCopyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy [category] [files...]",
		Short: "Copy external media files into a category's format slots.",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runCopyCommand,
	}
}

func runCopyCommand(cmd *cobra.Command, args []string) error {
	cfg, container, err := initConfigAndServices(cmd, false)
	if err != nil {
		return err
	}

	category, sources := args[0], args[1:]
	if _, ok := cfg.Categories[category]; !ok {
		shared.ColorError.Printf("❌ Unknown category %q. Known categories: %v\n", category, cfg.CategoryKeys())
		return nil
	}

	var bar *pb.ProgressBar
	if shared.IsTTY() {
		bar = pb.StartNew(len(sources))
	}
	report := container.Library.CopyIntoLibrary(sources, category, bar)
	if bar != nil {
		bar.Finish()
	}

	shared.ColorSuccess.Printf("✅ Copied: %d\n", len(report.Success))
	for _, copied := range report.Success {
		shared.ColorInfo.Printf("  📄 %s -> %s\n", copied.File, copied.Target)
	}
	for _, duplicate := range report.Duplicates {
		shared.ColorWarning.Printf("⏭️  Skipped duplicate: %s (already at %s)\n", duplicate.File, duplicate.Target)
	}
	for _, failure := range report.Failed {
		shared.ColorError.Printf("❌ %s: %s\n", failure.File, failure.Error)
	}
	return nil
}
