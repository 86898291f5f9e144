package commands

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mediamaestro/internal/shared"
)

// NewAuthCommand creates the Spotify authentication command group.
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage Spotify authentication.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "login",
		Short: "Authenticate with Spotify via the browser consent flow.",
		Args:  cobra.NoArgs,
		RunE:  runAuthLogin,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the Spotify credential and token state.",
		Args:  cobra.NoArgs,
		RunE:  runAuthStatus,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Drop the Spotify session and cached token.",
		Args:  cobra.NoArgs,
		RunE:  runAuthLogout,
	})

	return cmd
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	_, container, err := initConfigAndServices(cmd, false)
	if err != nil {
		return err
	}

	state := uuid.NewString()
	authURL, err := container.Catalog.AuthURL(state)
	if err != nil {
		shared.ColorError.Printf("❌ %v\n", err)
		shared.ColorInfo.Println("💡 Set SpotifyClientID and SpotifyClientSecret in the config file or environment.")
		return nil
	}

	shared.ColorInfo.Println("🌐 Open this URL in your browser and approve access:")
	shared.ColorPrompt.Println(authURL)

	answer := shared.GetUserInput("Paste the full redirect URL (or just the code)", "")
	code, gotState := parseCallbackInput(answer)
	if code == "" {
		shared.ColorError.Println("❌ No authorization code provided.")
		return nil
	}
	if gotState != "" && gotState != state {
		shared.ColorError.Println("❌ State mismatch; aborting for safety.")
		return nil
	}

	if err := container.Catalog.Exchange(context.Background(), code); err != nil {
		shared.ColorError.Printf("❌ Authentication failed: %v\n", err)
		return nil
	}
	shared.ColorSuccess.Println("✅ Authenticated with Spotify.")
	return nil
}

// parseCallbackInput accepts either a bare authorization code or the full
// redirect URL the browser landed on.
func parseCallbackInput(input string) (code, state string) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ""
	}
	if strings.Contains(input, "://") || strings.Contains(input, "code=") {
		parsed, err := url.Parse(input)
		if err != nil {
			return "", ""
		}
		query := parsed.Query()
		return query.Get("code"), query.Get("state")
	}
	return input, ""
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	_, container, err := initConfigAndServices(cmd, false)
	if err != nil {
		return err
	}

	status := container.Catalog.Status()
	if !status.Configured {
		shared.ColorWarning.Println("⚠️ Spotify credentials not configured.")
		return nil
	}
	shared.ColorSuccess.Println("✅ Spotify credentials configured.")
	if status.Authenticated {
		shared.ColorSuccess.Println("✅ Authenticated (token loaded).")
	} else if status.HasCachedToken {
		shared.ColorWarning.Println("⚠️ Cached token present but not loaded; run 'auth login' again.")
	} else {
		shared.ColorWarning.Println("⚠️ Not authenticated; run 'mediamaestro auth login'.")
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	_, container, err := initConfigAndServices(cmd, false)
	if err != nil {
		return err
	}

	if err := container.Catalog.Logout(); err != nil {
		shared.ColorError.Printf("❌ Logout failed: %v\n", err)
		return nil
	}
	shared.ColorSuccess.Println("✅ Logged out of Spotify.")
	return nil
}
