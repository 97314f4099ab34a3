package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/guestify/mediakit-ai/internal/auth"
	"github.com/guestify/mediakit-ai/internal/config"
)

// NonceOptions holds flags for the nonce command.
type NonceOptions struct {
	Context string
	Subject string
	Secret  string
	TTL     time.Duration
}

// NewNonceCommand creates the nonce command.
func NewNonceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NonceOptions{}

	cmd := &cobra.Command{
		Use:   "nonce",
		Short: "Mint a nonce accepted by the generation API",
		Long: `Mint a builder nonce (sent as X-WP-Nonce) or a public nonce (sent in the request body).

The subject is the user id for builder nonces and is informational for public ones.
The signing secret defaults to NONCE_SECRET.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNonce(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Context, "context", "builder", "nonce context (builder|public)")
	cmd.Flags().StringVar(&opts.Subject, "subject", "", "user id or client address the nonce is issued to")
	cmd.Flags().StringVar(&opts.Secret, "secret", "", "signing secret, defaults to NONCE_SECRET")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", 0, "lifetime, defaults to NONCE_TTL_HOURS")

	return cmd
}

func runNonce(cmd *cobra.Command, rootOpts *RootOptions, opts *NonceOptions) error {
	var action string
	switch opts.Context {
	case "builder":
		action = auth.ActionREST
	case "public":
		action = auth.ActionPublicAI
	default:
		return commandError("invalid --context %q: must be builder or public", opts.Context)
	}

	cfg, _ := config.Load()
	secret, ttl := opts.Secret, opts.TTL
	if secret == "" {
		secret = cfg.NonceSecret
	}
	if ttl <= 0 {
		ttl = cfg.NonceTTL
	}
	if secret == "" {
		return commandError("no signing secret: set NONCE_SECRET or pass --secret")
	}

	nonce, err := auth.NewNonceManager(secret, ttl).Issue(action, opts.Subject)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "failed to issue nonce", Err: err}
	}

	if rootOpts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"nonce":      nonce,
			"context":    opts.Context,
			"expires_in": int(ttl.Seconds()),
		})
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), nonce)
	return err
}
