// Package config provides configuration loading and validation for settlersdb.
//
// The package handles YAML configuration files, environment variables, and CLI flags
// with automatic merging and validation using go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (SETTLERSDB_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with SETTLERSDB_ prefix:
//   - database.url → SETTLERSDB_DATABASE_URL
//   - database.save_games → SETTLERSDB_DATABASE_SAVE_GAMES
//   - server.port → SETTLERSDB_SERVER_PORT
//
// # Configuration Structure
//
// The Config struct contains:
//   - Env: dev or prod, selecting the log format
//   - Server: whether to expose the admin status API, and its port
//   - Database: dialect, credentials, URL, driver and one-shot modes
//   - CORS: cross-origin resource sharing settings for the admin API
//   - Log: logging level
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Database type, when set, must name a known dialect
//   - A driver plugin path requires a driver name
//   - Log level must be debug, info, warn, or error
//
// After tag validation the database settings must resolve to a dialect; a
// URL with an unknown scheme and no driver is rejected.
package config
