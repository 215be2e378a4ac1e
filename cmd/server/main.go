package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mmuslimabdulj/quickmeet/internal/cli"
	"github.com/mmuslimabdulj/quickmeet/internal/config"
	"github.com/mmuslimabdulj/quickmeet/internal/logger"
	"github.com/mmuslimabdulj/quickmeet/internal/store"
	"github.com/mmuslimabdulj/quickmeet/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		log.Error().Err(err).Msg("quickmeet failed")
		os.Exit(1)
	}
}

func run() error {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Configuring Logging
	logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	themePath := cfg.ThemeFile
	if themePath == "" {
		themePath = store.DefaultThemePath()
	}

	deps := &cli.Dependencies{
		Config:     cfg,
		ThemeStore: store.NewThemeFileStore(themePath),
		Generator:  usecase.NewMeetingIDGenerator(),
	}

	return cli.NewRootCmd(deps).Execute()
}
