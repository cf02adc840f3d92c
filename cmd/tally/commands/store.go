package commands

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/grekz/tally/internal/config"
	"github.com/grekz/tally/internal/printer"
	"github.com/grekz/tally/pkg/sheet"
)

// loadConfig reads --config if given, otherwise ./tally.yml when present,
// otherwise the defaults. Environment overrides apply in every case.
func loadConfig() (*config.TallyConfig, error) {
	var (
		cfg *config.TallyConfig
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadOrDefault(config.DefaultPath)
	}
	if err != nil {
		path := configPath
		if path == "" {
			path = config.DefaultPath
		}
		return nil, printer.ErrorWithContext(
			"invalid configuration",
			err.Error(),
			map[string]string{"Config": path},
			[]string{"Regenerate a default configuration:\n  tally init --force"},
		)
	}
	return cfg, nil
}

// openStore connects to the backend selected in cfg and verifies it is
// reachable.
func openStore(ctx context.Context, cfg *config.TallyConfig) (sheet.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		store, err := sheet.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, printer.ErrorWithContext(
				"SQLite open failed",
				err.Error(),
				map[string]string{"Path": cfg.Store.SQLitePath},
				[]string{"Check that the directory exists and is writable"},
			)
		}
		return store, nil
	default:
		client, err := openRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// openRedis connects to the Redis backend. Commands that need pub/sub
// call it directly.
func openRedis(ctx context.Context, cfg *config.TallyConfig) (*sheet.Client, error) {
	redisOpts, err := redis.ParseURL(cfg.Store.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client, err := sheet.NewClient(redisOpts, cfg.Instance)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, printer.ErrorWithContext(
			"Redis connection failed",
			fmt.Sprintf("Could not connect to Redis at %s", cfg.Store.RedisURL),
			map[string]string{"Instance": cfg.Instance},
			[]string{
				"Start Redis locally:\n  docker run -d -p 6379:6379 redis:7-alpine",
				"Point tally at another server:\n  export TALLY_REDIS_URL=redis://host:6379/0",
			},
		)
	}

	return client, nil
}

// sheetNameOr returns name, or the configured sheet when name is empty.
func sheetNameOr(name string, cfg *config.TallyConfig) string {
	if name != "" {
		return name
	}
	return cfg.Sheet.Name
}

// sheetNotFound formats a missing-sheet error.
func sheetNotFound(name string, cfg *config.TallyConfig) error {
	return printer.ErrorWithContext(
		fmt.Sprintf("sheet '%s' not found", name),
		"The sheet has no header row yet.",
		map[string]string{"Instance": cfg.Instance, "Backend": cfg.Store.Backend},
		[]string{"Start the server once to create it:\n  tally serve"},
	)
}
