package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/guestify/mediakit-ai/internal/api"
	"github.com/guestify/mediakit-ai/internal/auth"
	"github.com/guestify/mediakit-ai/internal/backend"
	"github.com/guestify/mediakit-ai/internal/config"
	"github.com/guestify/mediakit-ai/internal/store"
	"github.com/guestify/mediakit-ai/internal/tools"
	"github.com/guestify/mediakit-ai/internal/utils"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	Port     string
	Database string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the generation API server",
		Long: `Run the HTTP API that generators call: ai/generate, ai/usage, ai/nonce and ai/history
under /wp-json/gmkb/v2, plus /health.

Configuration comes from the environment (or a .env file): GEMINI_API_KEY and NONCE_SECRET
are required.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "listen port, defaults to HTTP_PORT")
	cmd.Flags().StringVar(&opts.Database, "db", "", "sqlite database path, defaults to DATABASE_URL")

	return cmd
}

func runServe(cmd *cobra.Command, rootOpts *RootOptions, opts *ServeOptions) error {
	cfg, envLoaded := config.Load()
	if opts.Port != "" {
		cfg.HTTPPort = opts.Port
	}
	if opts.Database != "" {
		cfg.DatabaseURL = opts.Database
	}
	if rootOpts.LogLevel != "" {
		cfg.LogLevel = rootOpts.LogLevel
	}

	log, err := utils.NewLogger(cfg.LogLevel)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to create logger", Err: err}
	}
	defer log.Sync()

	if !envLoaded {
		log.Debug("no .env file found, using environment variables")
	}
	if err := cfg.ValidateServer(); err != nil {
		return &ExitError{Code: ExitCommandError, Message: "invalid configuration", Err: err}
	}

	registry, err := tools.Load(cfg.ToolsFile)
	if err != nil {
		return &ExitError{Code: ExitCommandError, Message: "failed to load tools", Err: err}
	}

	dbStore, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "failed to initialize database", Err: err}
	}
	defer dbStore.Close()

	gemini, err := backend.NewGeminiClient(cmd.Context(), cfg.GeminiAPIKey, cfg.GeminiModel, log)
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "failed to initialize LLM client", Err: err}
	}
	defer gemini.Close()

	limiter := backend.NewRateLimiter(dbStore, backend.Limits{
		Public:  cfg.PublicRateLimit,
		Builder: cfg.BuilderRateLimit,
		Window:  cfg.RateLimitWindow,
	})
	llm := backend.Throttled(gemini, backend.NewLimiter(cfg.LLMRequestsPerMinute))
	service := backend.NewService(registry, llm, limiter, dbStore, log)
	nonces := auth.NewNonceManager(cfg.NonceSecret, cfg.NonceTTL)

	apiHandler := api.NewAPIHandler(service, nonces, log)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // LLM calls can take time
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", serverAddr), zap.Strings("types", registry.Types()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return &ExitError{Code: ExitFailure, Message: "could not listen on " + serverAddr, Err: err}
	case <-quit:
	case <-cmd.Context().Done():
	}
	log.Info("shutting down server")

	// Active connections get time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return &ExitError{Code: ExitFailure, Message: "server forced to shutdown", Err: err}
	}
	log.Info("server exited gracefully")
	return nil
}
