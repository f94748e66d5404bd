package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/MegaGrindStone/estate-analyst-web/internal/config"
	"github.com/MegaGrindStone/estate-analyst-web/internal/handlers"
	"github.com/MegaGrindStone/estate-analyst-web/internal/services"
)

// loadConfig reads the config file from the user's config directory and builds the logger it asks for.
func loadConfig() (config.Config, *slog.Logger, error) {
	cfgPath, err := config.DefaultPath()
	if err != nil {
		return config.Config{}, nil, err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return config.Config{}, nil, err
	}

	logger, err := config.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}

	return cfg, logger, nil
}

// newStore returns the session store selected by the config, and the function releasing it.
func newStore(cfg config.Config) (handlers.Store, func() error, error) {
	if cfg.StorePath == "" {
		return services.NewMemory(), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0755); err != nil {
		return nil, nil, fmt.Errorf("error creating store directory: %w", err)
	}
	boltDB, err := services.NewBoltDB(cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}
	return boltDB, boltDB.Close, nil
}
