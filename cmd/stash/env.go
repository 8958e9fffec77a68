package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/pario-ai/stash/pkg/cache"
	"github.com/pario-ai/stash/pkg/config"
	"github.com/pario-ai/stash/pkg/logging"
	"github.com/pario-ai/stash/pkg/storage"
	"github.com/pario-ai/stash/pkg/storage/file"
	"github.com/pario-ai/stash/pkg/storage/redis"
	"github.com/pario-ai/stash/pkg/storage/sqlite"
)

// env is the configuration, logger and storage shared by every command.
type env struct {
	cfg      *config.Config
	logger   zerolog.Logger
	provider storage.Provider
	closer   io.Closer
}

// openEnv loads configuration and opens the configured storage backend.
// A missing config file falls back to defaults.
func openEnv(ctx context.Context, configPath string) (*env, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	e := &env{
		cfg:    cfg,
		logger: logging.New(cfg.Log, os.Stderr),
	}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		p, err := sqlite.New(cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		e.provider, e.closer = p, p
	case config.BackendRedis:
		p, err := redis.New(ctx, cfg.Storage.RedisAddr, cfg.Storage.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		e.provider, e.closer = p, p
	default:
		e.provider = file.New(cfg.Storage.Dir)
	}

	e.logger.Debug().Str("backend", cfg.Storage.Backend).Str("config", configPath).Msg("storage ready")
	return e, nil
}

func (e *env) cacheOptions() cache.Options {
	return cache.Options{Timeout: e.cfg.Storage.Timeout, Logger: e.logger}
}

func (e *env) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}
