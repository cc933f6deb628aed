package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sagarc03/settlersdb/config"
	"github.com/sagarc03/settlersdb/database"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run a database setup script and exit",
	Long: `Connect and run a SQL setup script, one statement at a time.

The script is read line by line: blank lines and lines starting with --
are skipped, indented lines continue the current statement, and a
statement runs until it ends with a semicolon. The first failing
statement stops the script; statements already run are not rolled back.

Scripts for each dialect ship in the sql/ directory.`,
	Example: `  settlersdb setup --db-url sqlite:socdata.sqlite --script sql/tables-sqlite.sql`,
	RunE:    runSetup,
}

func init() {
	setupCmd.Flags().String("script", "", "setup script path (env: SETTLERSDB_DATABASE_SETUP_SCRIPT)")

	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	ctx, cancel := exitOnSignal(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}
	if cfg.Database.SetupScript == "" {
		return errors.New("setup: --script is required")
	}

	dbCfg := cfg.Database
	dbCfg.UpgradeSchema = false

	startup, err := database.Start(ctx, dbCfg)
	defer cleanup(startup.Manager)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	m := startup.Manager
	slog.Info("setup script completed", "script", dbCfg.SetupScript)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "setup complete: %s schema version %d\n", m.Dialect(), int(m.Version()))
	return nil
}
