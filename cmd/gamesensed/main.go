// Command gamesensed runs the game presence daemon: it watches the current
// game title, resolves it against the catalog and publishes the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"gamesense/internal/agent"
	"gamesense/internal/assets"
	"gamesense/internal/cache"
	"gamesense/internal/config"
	"gamesense/internal/igdb"
	"gamesense/internal/logging"
	"gamesense/internal/publish"
	"gamesense/internal/resolver"
	"gamesense/internal/tracing"
	"gamesense/internal/web"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "gamesensed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Local .env files are a convenience for development setups.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
	} else {
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logging.Error("failed to shutdown tracing", "error", err)
			}
		}()
	}

	token := cfg.IGDB.Token
	if token == "" && cfg.IGDB.ClientSecret != "" {
		token, err = igdb.FetchToken(cfg.IGDB.ClientID, cfg.IGDB.ClientSecret)
		if err != nil {
			return fmt.Errorf("exchanging client secret for token: %w", err)
		}
		logging.Info("obtained catalog access token")
	}

	client, err := igdb.NewClient(cfg.IGDB.ClientID, token, cfg.IGDBTimeout())
	if err != nil {
		return err
	}

	store, err := cache.Open(ctx, cfg.GetDBPath())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	fetcher := assets.NewFetcher(cfg.GetDataDir(), cfg.IGDBTimeout())
	res := resolver.New(client, store, fetcher)

	var publisher agent.Publisher
	if cfg.Redis.Enabled {
		rp := publish.NewRedisPublisher(cfg.Redis.Addr, cfg.Redis.Prefix)
		if err := rp.Ping(ctx); err != nil {
			logging.Warn("redis unreachable, presence publishing degraded", "addr", cfg.Redis.Addr, "error", err)
		}
		defer func() { _ = rp.Close() }()
		publisher = rp
	}

	if cfg.Agent.TitleFile == "" {
		return fmt.Errorf("agent.title_file is not configured")
	}
	a := agent.New(agent.FileSource{Path: cfg.Agent.TitleFile}, res, publisher, cfg.PollInterval())

	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      web.NewServer(a, res, store),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("status server listening", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	go a.Run(ctx)

	select {
	case <-ctx.Done():
		logging.Info("shutting down")
	case err := <-errCh:
		return fmt.Errorf("status server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
