package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/avandorp/ticktick-mcp/internal/config"
)

// TickTick Open API OAuth2 endpoints and scopes.
const (
	authURL  = "https://ticktick.com/oauth/authorize"
	tokenURL = "https://ticktick.com/oauth/token"
)

var oauthScopes = []string{"tasks:read", "tasks:write"}

func newAuthCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Run the one-time OAuth2 authorization flow for the Open API",
		Long: `Run the OAuth2 authorization-code flow against the TickTick Open API and
print the resulting access token.

Register an application at https://developer.ticktick.com to obtain a
client ID and secret, then set:
  TICKTICK_CLIENT_ID
  TICKTICK_CLIENT_SECRET
  TICKTICK_REDIRECT_URI   (must match the registered redirect URI)

The command prints an authorization URL, waits for the code from the
redirect, and exchanges it. Export the printed token as
TICKTICK_ACCESS_TOKEN for the serve command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.ValidateAuthFlow(); err != nil {
				return err
			}
			return runAuthFlow(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file. Environment variables are used when omitted.")

	return cmd
}

func runAuthFlow(ctx context.Context, cfg *config.Settings) error {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       oauthScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authURL,
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	state := uuid.NewString()

	fmt.Println("Open this URL in your browser and authorize the application:")
	fmt.Println()
	fmt.Printf("  %s\n", oauthConfig.AuthCodeURL(state))
	fmt.Println()
	fmt.Printf("After authorizing you are redirected to %s with ?code=...&state=...\n", cfg.RedirectURI)
	fmt.Printf("Verify the state matches %q, then paste the code here.\n", state)
	fmt.Println()
	fmt.Print("Authorization code: ")

	reader := bufio.NewReader(os.Stdin)
	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read authorization code: %w", err)
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("authorization code is empty")
	}

	exchangeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	token, err := oauthConfig.Exchange(exchangeCtx, code)
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}

	fmt.Println()
	fmt.Println("Authorization complete. Export the token for the serve command:")
	fmt.Println()
	fmt.Printf("  export TICKTICK_ACCESS_TOKEN=%s\n", token.AccessToken)
	if !token.Expiry.IsZero() {
		fmt.Println()
		fmt.Printf("The token expires %s.\n", token.Expiry.Format(time.RFC1123))
	}

	return nil
}
