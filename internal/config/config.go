// Package config loads phaseplan settings from file, environment and flags.
//
// Precedence (highest to lowest): explicit overrides > PHASEPLAN_* env vars >
// .env file > .phaseplan.yaml > defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/HendryAvila/phaseplan/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Default configuration values.
const (
	DefaultBackend  = BackendFile
	DefaultLogLevel = "info"
	DefaultFormat   = "table"
	FileName        = ".phaseplan"
	EnvPrefix       = "PHASEPLAN"
)

// Config holds all phaseplan settings.
type Config struct {
	State  StateConfig  `mapstructure:"state"`
	Log    LogConfig    `mapstructure:"log"`
	Output OutputConfig `mapstructure:"output"`
}

// StateConfig selects where plans are persisted.
type StateConfig struct {
	Dir     string `mapstructure:"dir" validate:"required"`
	Backend string `mapstructure:"backend" validate:"oneof=file sqlite"`
}

// LogConfig controls the stderr logger.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

// OutputConfig controls CLI rendering.
type OutputConfig struct {
	Format string `mapstructure:"format" validate:"oneof=table json yaml"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration. cfgFile, when non-empty, must exist; otherwise
// .phaseplan.yaml is searched in the working directory and then $HOME.
// overrides are applied last (typically bound CLI flags).
func Load(cfgFile string, overrides map[string]any) (*Config, error) {
	// A missing .env is fine; a malformed one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("state.dir", storage.DefaultStateDir)
	v.SetDefault("state.backend", DefaultBackend)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("output.format", DefaultFormat)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	for key, val := range overrides {
		v.Set(key, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.State.Backend = strings.ToLower(cfg.State.Backend)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("config loaded", "file", used)
	}
	return &cfg, nil
}

// Validate checks every field against its allowed values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("validating config: %w", err)
		}
		problems := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			key := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
			if fe.Tag() == "oneof" {
				problems = append(problems, fmt.Sprintf("invalid %s %q: must be one of: %s",
					key, fmt.Sprint(fe.Value()), strings.ReplaceAll(fe.Param(), " ", ", ")))
				continue
			}
			problems = append(problems, fmt.Sprintf("%s is %s", key, fe.Tag()))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LogLevel maps the configured level to slog.
func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// OpenStorage opens the configured backend. The returned cleanup function is
// always non-nil and must be called on shutdown.
func OpenStorage(cfg *Config) (storage.Storage, func(), error) {
	switch cfg.State.Backend {
	case BackendSQLite:
		db, err := storage.NewSQLiteStorage(cfg.State.Dir)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				slog.Warn("closing state database", "err", err)
			}
		}
		slog.Debug("state backend opened", "backend", BackendSQLite,
			"path", filepath.Join(cfg.State.Dir, storage.SQLiteFile))
		return db, cleanup, nil
	case BackendFile, "":
		slog.Debug("state backend opened", "backend", BackendFile, "dir", cfg.State.Dir)
		return storage.NewOsFileStorage(cfg.State.Dir), noop, nil
	}
	return nil, noop, fmt.Errorf("invalid state.backend %q: must be one of: file, sqlite", cfg.State.Backend)
}

func noop() {}
