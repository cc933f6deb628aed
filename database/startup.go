package database

import (
	"context"
	"log/slog"
)

// Outcome tells the host what to do after Start.
type Outcome int

const (
	// OutcomeServe means the host keeps running with the Manager.
	OutcomeServe Outcome = iota
	// OutcomeCompleted means a one-shot mode finished and the host should
	// clean up and exit successfully.
	OutcomeCompleted
)

func (o Outcome) String() string {
	if o == OutcomeCompleted {
		return "completed"
	}
	return "serve"
}

// Startup is the result of Start.
type Startup struct {
	Outcome Outcome
	Manager *Manager
	// Upgrade is set when cfg.UpgradeSchema ran an upgrade.
	Upgrade *UpgradeReport
}

// Start connects and runs any one-shot mode in cfg: a setup script, a schema
// upgrade, or both. When Start fails after connecting, the returned Startup
// still carries the Manager so the caller can clean it up.
func Start(ctx context.Context, cfg Config) (Startup, error) {
	m, err := Initialize(ctx, cfg)
	if err != nil {
		return Startup{}, err
	}

	s := Startup{Outcome: OutcomeServe, Manager: m}

	if cfg.UpgradeSchema {
		u := NewUpgrader(m)
		if cfg.UpgradeBatchSize > 0 {
			u.BatchSize = cfg.UpgradeBatchSize
		}
		report, err := u.Upgrade(ctx)
		if err != nil {
			return s, err
		}
		s.Upgrade = &report
		s.Outcome = OutcomeCompleted
	}

	if cfg.SetupScript != "" {
		s.Outcome = OutcomeCompleted
	}

	if s.Outcome == OutcomeServe && !m.Catalog().IsLatest() {
		slog.Warn("database schema is not the latest; run the schema upgrade",
			"version", int(m.Version()),
			"latest", int(SchemaLatest),
		)
	}

	return s, nil
}
