// Package config loads bastion configuration from defaults, an optional
// YAML file, and BASTION_-prefixed environment variables, in that order
// of precedence (later sources override earlier ones).
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/xraph/bastion"
)

// Storage selects and configures the durable role backend.
type Storage struct {
	// Backend is one of "file", "memory", or "postgres".
	Backend  string   `koanf:"backend"`
	RoleFile string   `koanf:"role_file"`
	Postgres Postgres `koanf:"postgres"`
}

// Postgres holds connection settings for the postgres role backend.
type Postgres struct {
	DSN            string `koanf:"dsn"`
	MaxConns       int32  `koanf:"max_conns"`
	MigrateOnStart bool   `koanf:"migrate_on_start"`
}

// Log configures the process logger.
type Log struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `koanf:"level"`
	// Format is "text" or "json".
	Format string `koanf:"format"`
}

// File is the full configuration document.
type File struct {
	Manager bastion.Config `koanf:"manager"`
	Storage Storage        `koanf:"storage"`
	Log     Log            `koanf:"log"`
}

// Defaults returns the configuration used when nothing else is provided:
// file-backed roles next to the working directory and text logging at info.
func Defaults() File {
	return File{
		Manager: bastion.DefaultConfig(),
		Storage: Storage{
			Backend:  "file",
			RoleFile: "roles",
			Postgres: Postgres{MaxConns: 4},
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads configuration, layering the YAML file at path (if non-empty)
// and then the environment over Defaults. Environment keys map double
// underscores to nesting: BASTION_STORAGE__ROLE_FILE sets storage.role_file.
func Load(path string) (*File, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider("BASTION_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "BASTION_")
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg File
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// BuildLogger constructs a slog.Logger per the Log section, writing to
// stderr. Unknown levels and formats fall back to info and text.
func BuildLogger(cfg Log) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
