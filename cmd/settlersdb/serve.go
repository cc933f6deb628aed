package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/settlersdb/config"
	"github.com/sagarc03/settlersdb/database"
	settlershttp "github.com/sagarc03/settlersdb/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect and hold the database for the game server",
	Long: `Connect to the database and keep the connection until SIGINT or SIGTERM.

One-shot modes in the configuration (database.setup_script,
database.upgrade_schema) run first; when one of them is set the command
exits after it completes instead of serving.

With --admin the read-only status API is served on --port.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Bool("admin", false, "serve the status API (env: SETTLERSDB_SERVER_ENABLED)")
	serveCmd.Flags().Int("port", 8880, "status API port (env: SETTLERSDB_SERVER_PORT)")
	serveCmd.Flags().Bool("save-games", false, "persist game results (env: SETTLERSDB_DATABASE_SAVE_GAMES)")
	serveCmd.Flags().Bool("upgrade-schema", false, "upgrade the schema and exit (env: SETTLERSDB_DATABASE_UPGRADE_SCHEMA)")
	serveCmd.Flags().String("script", "", "run a setup script and exit (env: SETTLERSDB_DATABASE_SETUP_SCRIPT)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := exitOnSignal(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	startup, err := database.Start(ctx, cfg.Database)
	defer cleanup(startup.Manager)
	if err != nil {
		var precheck *database.PrecheckError
		if errors.As(err, &precheck) {
			printCollisions(cmd.OutOrStdout(), precheck)
		}
		return fmt.Errorf("start database: %w", err)
	}

	if startup.Outcome == database.OutcomeCompleted {
		if startup.Upgrade != nil {
			printUpgradeText(cmd.OutOrStdout(), *startup.Upgrade)
		}
		slog.Info("one-shot database mode completed")
		return nil
	}

	store := database.NewStore(startup.Manager)

	if !cfg.Server.Enabled {
		slog.Info("database ready", "dialect", startup.Manager.Dialect(), "version", int(startup.Manager.Version()))
		<-ctx.Done()
		slog.Info("shutting down...")
		return nil
	}

	handler := settlershttp.NewHandler(&settlershttp.HandlerConfig{CORS: cfg.CORS}, store)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		<-ctx.Done()

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
	}()

	slog.Info("starting status server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// exitOnSignal returns a context cancelled by SIGINT or SIGTERM.
func exitOnSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
