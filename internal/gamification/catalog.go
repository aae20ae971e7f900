package gamification

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedCatalogMajor is the catalog format major version this build reads.
const SupportedCatalogMajor = "v1"

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog holds the level table, achievement definitions and daily goals.
// A Catalog is built once and must not be mutated after Validate succeeds;
// every calculator method only reads from it.
type Catalog struct {
	Version      string                  `yaml:"version"`
	Levels       []LevelThreshold        `yaml:"levels"`
	Achievements []AchievementDefinition `yaml:"achievements"`
	DailyGoals   DailyGoals              `yaml:"daily_goals"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// DefaultCatalog returns the built-in catalog. It panics if the embedded
// document is invalid, which is a build defect.
func DefaultCatalog() *Catalog {
	defaultOnce.Do(func() {
		c, err := ParseCatalog(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadCatalog reads and validates a catalog file. An empty path returns the
// built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks the structural invariants every calculator relies on.
func (c *Catalog) Validate() error {
	if !semver.IsValid(c.Version) {
		return catalogErrorf("version", "%q is not a semantic version", c.Version)
	}
	if major := semver.Major(c.Version); major != SupportedCatalogMajor {
		return catalogErrorf("version", "major %s unsupported, want %s", major, SupportedCatalogMajor)
	}

	if len(c.Levels) == 0 {
		return catalogErrorf("levels", "at least one level is required")
	}
	if first := c.Levels[0]; first.Level != 1 || first.XPRequired != 0 {
		return catalogErrorf("levels", "first level must be (1, 0), got (%d, %d)", first.Level, first.XPRequired)
	}
	for i := 1; i < len(c.Levels); i++ {
		prev, cur := c.Levels[i-1], c.Levels[i]
		if cur.Level <= prev.Level || cur.XPRequired <= prev.XPRequired {
			return catalogErrorf("levels", "entry %d (%d, %d) does not increase over (%d, %d)",
				i, cur.Level, cur.XPRequired, prev.Level, prev.XPRequired)
		}
	}

	seen := make(map[string]bool, len(c.Achievements))
	for i, a := range c.Achievements {
		if a.ID == "" {
			return catalogErrorf("achievements", "entry %d has no id", i)
		}
		if seen[a.ID] {
			return catalogErrorf("achievements", "duplicate id %q", a.ID)
		}
		seen[a.ID] = true
		if _, ok := (Statistics{}).Value(a.Condition.Stat); !ok {
			return catalogErrorf("achievements", "%s: unknown stat %q", a.ID, a.Condition.Stat)
		}
		if a.Condition.Min < 0 {
			return catalogErrorf("achievements", "%s: negative minimum %d", a.ID, a.Condition.Min)
		}
	}

	if c.DailyGoals.Lessons.Target < 1 {
		return catalogErrorf("daily_goals", "lessons target must be at least 1")
	}
	return nil
}

// Achievement looks up a definition by id.
func (c *Catalog) Achievement(id string) (AchievementDefinition, bool) {
	for _, a := range c.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return AchievementDefinition{}, false
}

// MaxLevel returns the highest threshold in the table.
func (c *Catalog) MaxLevel() LevelThreshold {
	return c.Levels[len(c.Levels)-1]
}
