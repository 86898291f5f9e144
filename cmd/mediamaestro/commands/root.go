// Package commands holds the CLI command tree.
package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"mediamaestro/internal/config"
	"mediamaestro/internal/services"
	"mediamaestro/internal/shared"
)

const toolVersion = "1.0.0"

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mediamaestro",
		Version: toolVersion,
		Short:   "Keep a three-format (mp3/flac/video) media library organized and in sync.",
		Long: fmt.Sprintf(`MediaMaestro (v%s)

Manages a personal media library organized by category and format:
- Scan the library and report per-category file organization.
- Report which format (mp3, flac, video) each track is missing.
- Match local tracks against a Spotify playlist.
- Copy external files into the right library slot.
- Download audio and video from YouTube with yt-dlp.`, toolVersion),
	}

	cmd.PersistentFlags().String("config", "config.json", "Path to the configuration file")
	cmd.PersistentFlags().String("media-dir", "", "Media library root (overrides config)")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewMissingCommand())
	cmd.AddCommand(NewMatchCommand())
	cmd.AddCommand(NewCopyCommand())
	cmd.AddCommand(NewDownloadCommand())
	cmd.AddCommand(NewSearchCommand())
	cmd.AddCommand(NewAuthCommand())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}

// initConfigAndServices loads (or interactively creates) the configuration
// and wires the service container. withStore opens the SQLite database too.
func initConfigAndServices(cmd *cobra.Command, withStore bool) (*config.Config, *services.ServiceContainer, error) {
	configFile, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	setupLogging(debug)

	cfg := &config.Config{}
	if !shared.FileExists(configFile) {
		shared.ColorInfo.Println("✨ Welcome to MediaMaestro! Let's set up your configuration.")

		defaults := config.DefaultConfig()
		cfg.MediaDir = shared.GetUserInput(
			fmt.Sprintf("Enter media library directory (e.g., %s)", defaults.MediaDir), defaults.MediaDir)
		cfg.DownloadsDir = shared.GetUserInput(
			fmt.Sprintf("Enter downloads directory (e.g., %s)", defaults.DownloadsDir), defaults.DownloadsDir)
		cfg.SpotifyClientID = shared.GetUserInput("Enter Spotify client ID (optional)", "")
		cfg.SpotifyClientSecret = shared.GetUserInput("Enter Spotify client secret (optional)", "")
		cfg.ApplyDefaults()

		if err := config.SaveConfig(configFile, cfg); err != nil {
			shared.ColorError.Printf("❌ Failed to save initial config: %v\n", err)
		} else {
			shared.ColorSuccess.Println("✅ Configuration saved to", configFile)
		}
	} else {
		if err := config.LoadConfig(configFile, cfg); err != nil {
			return nil, nil, fmt.Errorf("failed to load config from %s: %w", configFile, err)
		}
		cfg.ApplyDefaults()
	}

	if mediaDir, _ := cmd.Flags().GetString("media-dir"); mediaDir != "" {
		cfg.MediaDir = mediaDir
	}
	cfg.Debug = debug

	container, err := services.NewServiceContainer(cfg, withStore)
	if err != nil {
		return nil, nil, err
	}
	return cfg, container, nil
}

func setupLogging(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
