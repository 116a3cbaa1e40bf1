package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/plotforge/plotforge/internal/auth"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API token",
		Long: `Issue a signed bearer token for the HTTP API. Requires auth.secret to be
set in the config or PLOTFORGE_AUTH_SECRET in the environment.`,
		Example: `  plotforge token --subject dashboard --ttl 720h`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd, subject, ttl)
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "cli", "Subject claim for the token")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (defaults to auth.token_ttl)")

	return cmd
}

func runToken(cmd *cobra.Command, subject string, ttl time.Duration) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tokens := auth.NewTokenService(cfg.Auth.Secret)
	if tokens == nil {
		return fmt.Errorf("auth is disabled: set auth.secret in the config or PLOTFORGE_AUTH_SECRET")
	}

	if ttl <= 0 {
		ttl = cfg.Auth.TokenTTL
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	token, err := tokens.Issue(subject, ttl)
	if err != nil {
		return fmt.Errorf("issuing token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
