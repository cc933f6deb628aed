package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/settlersdb/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "settlersdb",
	Short:   "Account database tooling for a Settlers game server",
	Long: `settlersdb connects to the game server's account database, runs setup
scripts and schema upgrades, resets passwords, and can serve a small
read-only status API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configFiles, _ := cmd.Flags().GetStringSlice("config")
		cfg, err := config.Load(configFiles, cmd.Flags())
		if err != nil {
			return err
		}
		setupLogging(cfg)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file paths, merged left to right (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: mysql, postgres, sqlite, oracle (env: SETTLERSDB_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-url", "", "database URL (default: mysql://localhost/socdata, env: SETTLERSDB_DATABASE_URL)")
	rootCmd.PersistentFlags().String("db-user", "", "database user (default: socuser, env: SETTLERSDB_DATABASE_USER)")
	rootCmd.PersistentFlags().String("db-password", "", "database password (default: socpass, env: SETTLERSDB_DATABASE_PASSWORD)")
	rootCmd.PersistentFlags().String("db-driver", "", "database/sql driver name (env: SETTLERSDB_DATABASE_DRIVER)")
	rootCmd.PersistentFlags().String("db-driver-path", "", "driver plugin to load (env: SETTLERSDB_DATABASE_DRIVER_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: SETTLERSDB_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
