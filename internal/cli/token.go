package cli

import (
	"time"

	"accounts-cli/internal/web"

	"github.com/spf13/cobra"
)

func newTokenCmd(app *App) *cobra.Command {
	var sub string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for `accounts serve --auth`",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			secret, err := web.LoadOrInitSecret(dir)
			if err != nil {
				return writeErr(cmd, err)
			}
			tok, err := web.NewToken(secret, sub, ttl)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"token":     tok,
				"subject":   sub,
				"expiresAt": time.Now().Add(ttl).UTC().Format(time.RFC3339),
			}})
		},
	}

	cmd.Flags().StringVar(&sub, "sub", "cli", "Token subject (who the token is for)")
	cmd.Flags().DurationVar(&ttl, "ttl", 30*24*time.Hour, "Token lifetime")
	return cmd
}
