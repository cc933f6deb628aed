package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/settlersdb"
	"github.com/sagarc03/settlersdb/database"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade the schema to the latest version",
	Long: `Upgrade the users table to case-insensitive nicknames.

The upgrade adds users.nickname_lc, fills it in batches inside one
transaction, and creates the unique index users__l. Nicknames that differ
only by case must be renamed first; they are reported and nothing changes.

Back up the database before upgrading. If a step fails the added column is
dropped again where the database allows; otherwise restore from backup.

With --check only the collision pre-check runs.`,
	RunE: runUpgrade,
}

func init() {
	upgradeCmd.Flags().Bool("check", false, "only report nickname collisions")
	upgradeCmd.Flags().String("format", "text", "report format: text, yaml")
	upgradeCmd.Flags().Int("batch-size", database.DefaultBatchSize, "users backfilled per statement (env: SETTLERSDB_DATABASE_UPGRADE_BATCH_SIZE)")

	rootCmd.AddCommand(upgradeCmd)
}

// precheckReport is the yaml form of an upgrade --check.
type precheckReport struct {
	Version    int        `yaml:"version"`
	Latest     bool       `yaml:"latest"`
	Collisions [][]string `yaml:"collisions"`
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	ctx, cancel := exitOnSignal(cmd.Context())
	defer cancel()

	checkOnly, _ := cmd.Flags().GetBool("check")
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	cfg, m, done, err := connect(ctx)
	if err != nil {
		return err
	}
	defer done()

	u := database.NewUpgrader(m)
	if cfg.Database.UpgradeBatchSize > 0 {
		u.BatchSize = cfg.Database.UpgradeBatchSize
	}

	out := cmd.OutOrStdout()

	if checkOnly {
		err := u.Precheck(ctx)
		var precheck *database.PrecheckError
		if err != nil && !errors.As(err, &precheck) {
			return err
		}

		if format == "yaml" {
			r := precheckReport{Version: int(m.Version()), Latest: m.Catalog().IsLatest(), Collisions: [][]string{}}
			if precheck != nil {
				r.Collisions = precheck.SortedGroups()
			}
			if err := printYAML(out, r); err != nil {
				return err
			}
		} else if precheck != nil {
			printCollisions(out, precheck)
		} else {
			_, _ = fmt.Fprintln(out, "no nickname collisions found")
		}

		if precheck != nil {
			return errors.New("upgrade pre-check failed")
		}
		return nil
	}

	report, err := u.Upgrade(ctx)
	if err != nil {
		var precheck *database.PrecheckError
		switch {
		case errors.As(err, &precheck):
			printCollisions(out, precheck)
			return errors.New("upgrade pre-check failed")
		case errors.Is(err, settlersdb.ErrSchemaLatest):
			_, _ = fmt.Fprintf(out, "schema is already at version %d\n", int(report.From))
		}
		return err
	}

	if format == "yaml" {
		return printYAML(out, report)
	}
	printUpgradeText(out, report)
	return nil
}
