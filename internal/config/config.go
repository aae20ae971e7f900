// Package config loads cpapath settings from the environment.
// All variables use the CPAPATH_ prefix. A .env file in the working
// directory is read first when present; variables already set win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultLearner is the learner id used when none is configured.
const DefaultLearner = "default"

// Config holds all cpapath settings.
type Config struct {
	// DBPath is the SQLite file. Empty means the XDG default.
	DBPath string

	// DataDir holds the curriculum (chapter_<n>/ directories and
	// question_bank.json). Empty disables curriculum features.
	DataDir string

	// CatalogPath is a YAML level/achievement catalog. Empty means the
	// built-in catalog.
	CatalogPath string

	// Learner is the learner id commands act on.
	Learner string

	Log LogConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Mode string // "dev", "prod" or "nop"
}

// Load reads an optional .env file and then CPAPATH_* variables.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit dotenv path. A missing file is ignored.
func LoadFile(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		DBPath:      envStr("CPAPATH_DB", ""),
		DataDir:     envStr("CPAPATH_DATA_DIR", ""),
		CatalogPath: envStr("CPAPATH_CATALOG", ""),
		Learner:     envStr("CPAPATH_LEARNER", DefaultLearner),
		Log: LogConfig{
			Mode: strings.ToLower(envStr("CPAPATH_LOG_MODE", "nop")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that settings are usable.
func (c *Config) Validate() error {
	switch c.Log.Mode {
	case "dev", "prod", "nop":
	default:
		return fmt.Errorf("CPAPATH_LOG_MODE must be 'dev', 'prod' or 'nop', got %q", c.Log.Mode)
	}
	if strings.TrimSpace(c.Learner) == "" {
		return fmt.Errorf("CPAPATH_LEARNER must not be blank")
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
