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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tansive/redditreader/internal/common/middleware"
	"github.com/tansive/redditreader/internal/readerskill/config"
	"github.com/tansive/redditreader/internal/readerskill/server"
)

const shutdownGracePeriod = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the skill webhook server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), config.Config())
		},
	}
}

func serve(ctx context.Context, cfg *config.ConfigParam) error {
	slog := log.With().Str("state", "init").Logger()

	s, err := server.CreateNewServer(newSkill(cfg), server.Options{
		HandleCORS:     cfg.HandleCORS,
		RequestTimeout: cfg.RequestTimeout,
		RateLimit: middleware.RateLimitConfig{
			RequestLimit: cfg.RateLimit.Requests,
			WindowSize:   cfg.RateLimit.Window,
		},
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	s.MountHandlers()

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info().Str("port", cfg.ServerPort).Msg("server started")
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		slog.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case <-ctx.Done():
		slog.Info().Msg("context cancelled")
	}

	// Give outstanding requests time to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error().Err(err).Msg("could not stop server gracefully")
		if err := srv.Close(); err != nil {
			slog.Error().Err(err).Msg("could not stop server")
		}
	}

	slog.Info().Msg("server stopped")
	return nil
}
