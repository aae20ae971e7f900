package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets all CPAPATH_ variables for a clean test and restores them
// afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"CPAPATH_DB",
		"CPAPATH_DATA_DIR",
		"CPAPATH_CATALOG",
		"CPAPATH_LEARNER",
		"CPAPATH_LOG_MODE",
	}
	for _, v := range envVars {
		t.Setenv(v, "")
		_ = os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile("")
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.DBPath != "" {
		t.Errorf("DBPath = %q, want empty", cfg.DBPath)
	}
	if cfg.Learner != DefaultLearner {
		t.Errorf("Learner = %q, want %q", cfg.Learner, DefaultLearner)
	}
	if cfg.Log.Mode != "nop" {
		t.Errorf("Log.Mode = %q, want nop", cfg.Log.Mode)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("CPAPATH_DB", "/tmp/cpa.db")
	t.Setenv("CPAPATH_DATA_DIR", "/srv/data")
	t.Setenv("CPAPATH_CATALOG", "/etc/cpapath/catalog.yaml")
	t.Setenv("CPAPATH_LEARNER", "amy")
	t.Setenv("CPAPATH_LOG_MODE", "DEV")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/cpa.db", cfg.DBPath)
	assert.Equal(t, "/srv/data", cfg.DataDir)
	assert.Equal(t, "/etc/cpapath/catalog.yaml", cfg.CatalogPath)
	assert.Equal(t, "amy", cfg.Learner)
	assert.Equal(t, "dev", cfg.Log.Mode)
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	content := "CPAPATH_LEARNER=bob\nCPAPATH_DATA_DIR=./data\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// Variables already in the environment win over the file.
	t.Setenv("CPAPATH_DATA_DIR", "/override")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.Learner)
	assert.Equal(t, "/override", cfg.DataDir)
}

func TestLoad_MissingDotEnvIgnored(t *testing.T) {
	clearEnv(t)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoad_InvalidLogMode(t *testing.T) {
	clearEnv(t)
	t.Setenv("CPAPATH_LOG_MODE", "verbose")

	_, err := LoadFile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CPAPATH_LOG_MODE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{Learner: "amy", Log: LogConfig{Mode: "prod"}}, false},
		{"blank learner", Config{Learner: "  ", Log: LogConfig{Mode: "nop"}}, true},
		{"bad mode", Config{Learner: "amy", Log: LogConfig{Mode: ""}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
