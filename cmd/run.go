package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cpapath/cpapath/internal/config"
	"github.com/cpapath/cpapath/internal/curriculum"
	"github.com/cpapath/cpapath/internal/gamification"
	"github.com/cpapath/cpapath/internal/platform/logger"
	"github.com/cpapath/cpapath/internal/store"
	"github.com/cpapath/cpapath/internal/tracker"
)

// app bundles the dependencies a command needs.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *store.Store
	tracker *tracker.Service
	course  *curriculum.Course // nil without a data dir
}

// now is swapped in tests.
var now = time.Now

// openApp loads config, opens the store and builds the tracker.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}
	var lessonCounts map[string]int
	if cfg.DataDir != "" {
		a.course, err = curriculum.LoadChapters(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("load chapters: %w", err)
		}
		lessonCounts = a.course.LessonCounts()
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	a.store, err = store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", dbPath, "learner", cfg.Learner)

	a.tracker = tracker.NewService(a.store, tracker.Options{
		Catalog:      catalog,
		LessonCounts: lessonCounts,
		Logger:       log,
	})
	return a, nil
}

func (a *app) Close() error {
	a.log.Sync()
	return a.store.Close()
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCatalog returns the configured catalog or the built-in one.
func loadCatalog(cfg *config.Config) (*gamification.Catalog, error) {
	if cfg.CatalogPath == "" {
		return gamification.DefaultCatalog(), nil
	}
	c, err := gamification.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return c, nil
}

// requireDataDir returns the curriculum data directory or an error naming the
// settings that provide it.
func requireDataDir(cfg *config.Config) (string, error) {
	if cfg.DataDir == "" {
		return "", fmt.Errorf("no curriculum data directory: set --data-dir or CPAPATH_DATA_DIR")
	}
	return cfg.DataDir, nil
}

func questionBankPath(dataDir string) string {
	return filepath.Join(dataDir, curriculum.QuestionBankFile)
}
