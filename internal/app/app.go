package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/wirechat-inbox/internal/attachment"
	"github.com/vovakirdan/wirechat-inbox/internal/config"
	"github.com/vovakirdan/wirechat-inbox/internal/core"
	"github.com/vovakirdan/wirechat-inbox/internal/store"
	"github.com/vovakirdan/wirechat-inbox/internal/store/jsonsrc"
	"github.com/vovakirdan/wirechat-inbox/internal/store/sqlite"
	transporthttp "github.com/vovakirdan/wirechat-inbox/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	registry        *attachment.Registry
	source          store.Source
	closeSource     func() error
	log             *zerolog.Logger
}

// OpenSource returns the snapshot source selected by cfg and a function that
// releases it.
func OpenSource(cfg *config.Config) (store.Source, func() error, error) {
	noop := func() error { return nil }

	switch cfg.SnapshotDriver {
	case config.DriverFile:
		return jsonsrc.NewFile(cfg.SnapshotSource), noop, nil
	case config.DriverHTTP:
		return jsonsrc.NewHTTP(cfg.SnapshotSource, &stdhttp.Client{Timeout: 30 * time.Second}), noop, nil
	case config.DriverSQLite:
		st, err := sqlite.New(cfg.SnapshotSource)
		if err != nil {
			return nil, nil, fmt.Errorf("init store: %w", err)
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown snapshot driver %q", cfg.SnapshotDriver)
	}
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	src, closeSource, err := OpenSource(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("driver", cfg.SnapshotDriver).
		Str("source", cfg.SnapshotSource).
		Msg("snapshot source configured")

	registry := attachment.NewRegistry(cfg.MediaPrefix)
	session := core.NewSession(core.Identity{ID: cfg.UserID, Name: cfg.UserName}, logger)
	hub := core.NewHub(session, logger)
	server := transporthttp.NewServer(hub, registry, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		registry:        registry,
		source:          src,
		closeSource:     closeSource,
		log:             logger,
	}, nil
}

// Run starts the hub, kicks off the one-shot directory load and serves HTTP
// until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	hubCtx, stopHub := context.WithCancel(ctx)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		a.hub.Run(hubCtx)
	}()
	// The hub releases the previews of sent messages when it stops.
	defer func() {
		stopHub()
		<-hubDone
	}()

	go func() {
		if err := a.hub.Load(hubCtx, a.source); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			a.log.Error().Err(err).Msg("directory load failed")
			return
		}
		a.log.Info().Msg("directory ready")
	}()

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("starting inbox server")
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
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

// cleanup closes the snapshot source.
func (a *App) cleanup() {
	if a.closeSource == nil {
		return
	}
	if err := a.closeSource(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close snapshot source")
	} else {
		a.log.Debug().Msg("snapshot source closed")
	}
}
