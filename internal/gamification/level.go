package gamification

// CalculateLevel maps an XP total onto the default level table.
func CalculateLevel(xp int) LevelDescriptor {
	return DefaultCatalog().CalculateLevel(xp)
}

// CalculateLevel maps an XP total onto the catalog's level table.
// Negative XP is clamped to zero.
func (c *Catalog) CalculateLevel(xp int) LevelDescriptor {
	if xp < 0 {
		xp = 0
	}

	// Highest threshold at or below xp. Levels[0] requires 0 XP so idx
	// always lands on a row.
	idx := 0
	for i := len(c.Levels) - 1; i >= 0; i-- {
		if xp >= c.Levels[i].XPRequired {
			idx = i
			break
		}
	}

	cur := c.Levels[idx]
	d := LevelDescriptor{
		Level:            cur.Level,
		Title:            cur.Title,
		XPInCurrentLevel: xp - cur.XPRequired,
		Progress:         100,
	}

	if idx+1 < len(c.Levels) {
		next := c.Levels[idx+1]
		d.XPForNextLevel = next.XPRequired - cur.XPRequired
		d.Progress = 100 * float64(d.XPInCurrentLevel) / float64(d.XPForNextLevel)
	}
	return d
}

// XPToNextLevel returns how much more XP reaches the next level, or 0 at max level.
func (d LevelDescriptor) XPToNextLevel() int {
	if d.IsMaxLevel() {
		return 0
	}
	return d.XPForNextLevel - d.XPInCurrentLevel
}
