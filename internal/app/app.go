package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-roster/internal/config"
	"github.com/vovakirdan/wirechat-roster/internal/core"
	"github.com/vovakirdan/wirechat-roster/internal/identity"
	applog "github.com/vovakirdan/wirechat-roster/internal/log"
	"github.com/vovakirdan/wirechat-roster/internal/roster"
	"github.com/vovakirdan/wirechat-roster/internal/store"
	"github.com/vovakirdan/wirechat-roster/internal/store/sqlite"
	"github.com/vovakirdan/wirechat-roster/internal/store/textfile"
	transporthttp "github.com/vovakirdan/wirechat-roster/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	settings        store.SettingsStore
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SettingsDB), 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	settings, err := sqlite.New(cfg.SettingsDB)
	if err != nil {
		return nil, fmt.Errorf("init settings store: %w", err)
	}

	logger.Info().Str("settings_db", cfg.SettingsDB).Msg("settings store initialized")

	salt, err := identity.LoadOrCreateSalt(ctx, settings)
	if err != nil {
		_ = settings.Close()
		return nil, fmt.Errorf("init identity salt: %w", err)
	}

	hub := core.NewHub(core.Options{
		Lists:        textfile.New(cfg.DataDir),
		Hasher:       identity.NewHasher(salt),
		Correlations: identity.NewCorrelations(),
		Badges:       roster.NewBadgeCache(),
		Logger:       applog.Component(logger, "core"),
		AutoKick:     cfg.AutoKick,
		Notify:       cfg.Notify,
	})
	server := transporthttp.NewServer(hub, cfg, applog.Component(logger, "http"))

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		settings:        settings,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

// cleanup closes the settings store.
func (a *App) cleanup() {
	if a.settings != nil {
		if err := a.settings.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close settings store")
		} else {
			a.log.Info().Msg("settings store closed")
		}
	}
}
