package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sagarc03/settlersdb/config"
	"github.com/sagarc03/settlersdb/database"
)

// connect initializes a Manager from the config stored on ctx. The caller
// must call the returned cleanup.
func connect(ctx context.Context) (*config.Config, *database.Manager, func(), error) {
	cfg, err := config.FromContext(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	m, err := database.Initialize(ctx, cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}

	return cfg, m, func() { cleanup(m) }, nil
}

func cleanup(m *database.Manager) {
	if m == nil {
		return
	}
	if err := m.Cleanup(true); err != nil && !errors.Is(err, context.Canceled) {
		slog.Warn("database cleanup failed", "err", err)
	}
}
