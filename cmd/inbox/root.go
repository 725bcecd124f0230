package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wirechat-inbox/internal/app"
	"github.com/vovakirdan/wirechat-inbox/internal/config"
	"github.com/vovakirdan/wirechat-inbox/internal/core"
	"github.com/vovakirdan/wirechat-inbox/internal/log"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "inbox",
		Short:        "Conversation inbox: browse rooms and compose messages",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.yaml")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level")

	cmd.AddCommand(
		newServeCmd(opts),
		newRoomsCmd(opts),
		newShowCmd(opts),
		newSendCmd(opts),
	)
	return cmd
}

// load resolves the configuration and builds the logger it asks for.
func (o *rootOptions) load() (*config.Config, *zerolog.Logger, error) {
	bootstrap := log.New("warn")

	cfg, path, err := config.Load(bootstrap, o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	logger := log.New(cfg.LogLevel)
	logger.Debug().Str("path", path).Msg("config loaded")
	return &cfg, logger, nil
}

// loadSession reads the snapshot synchronously and returns a Ready session.
func loadSession(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*core.Session, error) {
	src, closeSource, err := app.OpenSource(cfg)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	session := core.NewSession(core.Identity{ID: cfg.UserID, Name: cfg.UserName}, logger)
	snap, err := src.Snapshot(ctx)
	if err != nil {
		_ = session.Fail(err)
		return nil, session.LoadErr()
	}
	if err := session.Load(snap); err != nil {
		return nil, err
	}
	return session, nil
}
