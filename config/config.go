package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/settlersdb/database"
	settlershttp "github.com/sagarc03/settlersdb/http"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SETTLERSDB"

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for settlersdb.
type Config struct {
	Env      string                  `mapstructure:"env" validate:"omitempty,oneof=dev development prod production"`
	Server   ServerConfig            `mapstructure:"server"`
	Database database.Config         `mapstructure:"database"`
	CORS     settlershttp.CORSConfig `mapstructure:"cors"`
	Log      LogConfig               `mapstructure:"log"`
}

// IsProd reports whether Env names a production deployment.
func (c *Config) IsProd() bool {
	return c.Env == "prod" || c.Env == "production"
}

// ServerConfig holds the admin status API configuration.
type ServerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"db-type":        "database.type",
	"db-user":        "database.user",
	"db-password":    "database.password",
	"db-url":         "database.url",
	"db-driver":      "database.driver",
	"db-driver-path": "database.driver_path",
	"script":         "database.setup_script",
	"batch-size":     "database.upgrade_batch_size",
	"save-games":     "database.save_games",
	"upgrade-schema": "database.upgrade_schema",
	"port":           "server.port",
	"admin":          "server.enabled",
	"log-level":      "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance. Keys without
// a meaningful default are still registered so environment variables reach
// them on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.enabled", false)
	v.SetDefault("server.port", 8880)

	v.SetDefault("database.type", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.driver", "")
	v.SetDefault("database.driver_path", "")
	v.SetDefault("database.setup_script", "")
	v.SetDefault("database.upgrade_schema", false)
	v.SetDefault("database.upgrade_batch_size", database.DefaultBatchSize)
	v.SetDefault("database.save_games", false)

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "OPTIONS"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// 7. Check the database settings resolve to a dialect
	if _, err := cfg.Database.Resolve(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
