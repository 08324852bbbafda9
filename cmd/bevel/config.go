package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chazu/bevel/pkg/design"
	"github.com/chazu/bevel/pkg/engine"
	"github.com/chazu/bevel/pkg/report"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all command configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Project ProjectConfig `mapstructure:"project"`
	Eval    EvalConfig    `mapstructure:"eval"`
	Store   StoreConfig   `mapstructure:"store"`
	Report  ReportConfig  `mapstructure:"report"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ProjectConfig is the project used by scripts that do not call
// (project ...).
type ProjectConfig struct {
	Name    string `mapstructure:"name"`
	RootDir string `mapstructure:"root_dir"`
}

// EvalConfig holds script evaluation limits.
type EvalConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// StoreConfig holds the design library location.
type StoreConfig struct {
	DSN string `mapstructure:"dsn"`
}

// ReportConfig controls how derived values are printed.
type ReportConfig struct {
	Precision int `mapstructure:"precision"`
}

// flagKeys maps config keys to the command line flags that override them.
var flagKeys = map[string]string{
	"log.level":  "log-level",
	"log.format": "log-format",
	"store.dsn":  "db",
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from defaults, an optional file, BEVEL_*
// environment variables and finally any flags in fs that were set.
func LoadConfig(configPath string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := design.DefaultProject()
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("project.name", def.Name)
	v.SetDefault("project.root_dir", def.RootDir)
	v.SetDefault("eval.timeout", engine.EvalTimeout.String())
	v.SetDefault("store.dsn", "./bevel.db")
	v.SetDefault("report.precision", report.DefaultPrecision)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// A missing file falls back to defaults.
		}
	}

	v.SetEnvPrefix("BEVEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for key, name := range flagKeys {
			f := fs.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Eval.Timeout <= 0 {
		return nil, fmt.Errorf("eval.timeout must be positive, got %s", cfg.Eval.Timeout)
	}
	return &cfg, nil
}

// DefaultProject returns the configured fallback project.
func (c *Config) DefaultProject() design.Project {
	return design.Project{Name: c.Project.Name, RootDir: c.Project.RootDir}
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format that
// writes to w. Command output goes to stdout, so logs go elsewhere.
func SetupLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}
