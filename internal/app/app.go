package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/courtserver/internal/auth"
	"github.com/vovakirdan/courtserver/internal/config"
	"github.com/vovakirdan/courtserver/internal/core"
	"github.com/vovakirdan/courtserver/internal/store"
	"github.com/vovakirdan/courtserver/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/courtserver/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	world           *core.World
	store           store.IdentityStore
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	creds, err := cfg.CredentialTable()
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	st, err := sqlite.New(cfg.IdentityDBPath)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("db_path", cfg.IdentityDBPath).Msg("identity store initialized")

	world, err := core.NewWorld(core.Options{
		Settings:    cfg.Settings(),
		Areas:       cfg.AreaDefs(),
		Characters:  cfg.Characters,
		Music:       cfg.Music,
		Identities:  st,
		Credentials: creds,
		Logger:      logger,
	})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("init world: %w", err)
	}
	logger.Info().
		Int("areas", world.Areas().Len()).
		Int("characters", len(cfg.Characters)).
		Int("credentials", creds.Len()).
		Msg("world initialized")

	authService := auth.NewService(creds, cfg.JWT(), nil)
	server := transporthttp.NewServer(world, authService, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		world:           world,
		store:           st,
		log:             logger,
	}, nil
}

// Run starts the world loop and the HTTP server and blocks until context
// cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	worldCtx, stopWorld := context.WithCancel(context.Background())
	defer stopWorld()
	go a.world.Run(worldCtx)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("listening")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		stopWorld()
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		err := a.server.Shutdown(shutdownCtx)
		// Connections release their clients through the world, so it stops last.
		stopWorld()
		a.cleanup()
		if err != nil {
			return err
		}
		return <-serverErr
	}
}

// cleanup closes database and other resources.
func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
