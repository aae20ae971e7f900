package gamification

import "testing"

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		xp           int
		wantLevel    int
		wantTitle    string
		wantInLevel  int
		wantForNext  int
		wantProgress float64
	}{
		{0, 1, "会计新手", 0, 50, 0},
		{25, 1, "会计新手", 25, 50, 50},
		{49, 1, "会计新手", 49, 50, 98},
		{50, 2, "记账学徒", 0, 100, 0},
		{149, 2, "记账学徒", 99, 100, 99},
		{150, 3, "初级会计", 0, 150, 0},
		{3000, 10, "注册会计师", 0, 1000, 0},
		{14999, 14, "财会大师", 4999, 5000, 99.98},
		{15000, 15, "财会传奇", 0, 0, 100},
		{20000, 15, "财会传奇", 5000, 0, 100},
	}

	for _, tt := range tests {
		got := CalculateLevel(tt.xp)
		if got.Level != tt.wantLevel {
			t.Errorf("CalculateLevel(%d).Level = %d, want %d", tt.xp, got.Level, tt.wantLevel)
		}
		if got.Title != tt.wantTitle {
			t.Errorf("CalculateLevel(%d).Title = %q, want %q", tt.xp, got.Title, tt.wantTitle)
		}
		if got.XPInCurrentLevel != tt.wantInLevel {
			t.Errorf("CalculateLevel(%d).XPInCurrentLevel = %d, want %d", tt.xp, got.XPInCurrentLevel, tt.wantInLevel)
		}
		if got.XPForNextLevel != tt.wantForNext {
			t.Errorf("CalculateLevel(%d).XPForNextLevel = %d, want %d", tt.xp, got.XPForNextLevel, tt.wantForNext)
		}
		if diff := got.Progress - tt.wantProgress; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("CalculateLevel(%d).Progress = %v, want %v", tt.xp, got.Progress, tt.wantProgress)
		}
	}
}

func TestCalculateLevel_NegativeClampsToZero(t *testing.T) {
	got := CalculateLevel(-40)
	want := CalculateLevel(0)
	if got != want {
		t.Errorf("CalculateLevel(-40) = %+v, want %+v", got, want)
	}
}

func TestCalculateLevel_Boundaries(t *testing.T) {
	for _, th := range DefaultCatalog().Levels {
		if got := CalculateLevel(th.XPRequired).Level; got != th.Level {
			t.Errorf("CalculateLevel(%d).Level = %d, want %d", th.XPRequired, got, th.Level)
		}
		if th.XPRequired > 0 {
			if got := CalculateLevel(th.XPRequired - 1).Level; got != th.Level-1 {
				t.Errorf("CalculateLevel(%d).Level = %d, want %d", th.XPRequired-1, got, th.Level-1)
			}
		}
	}
}

func TestCalculateLevel_Monotonic(t *testing.T) {
	prev := CalculateLevel(0)
	for xp := 1; xp <= 16000; xp++ {
		cur := CalculateLevel(xp)
		if cur.Level < prev.Level {
			t.Fatalf("level decreased at xp=%d: %d -> %d", xp, prev.Level, cur.Level)
		}
		if cur.Progress < 0 || cur.Progress > 100 {
			t.Fatalf("progress out of range at xp=%d: %v", xp, cur.Progress)
		}
		prev = cur
	}
}

func TestLevelDescriptor_XPToNextLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 50},
		{49, 1},
		{120, 30},
		{15000, 0},
	}

	for _, tt := range tests {
		d := CalculateLevel(tt.xp)
		if got := d.XPToNextLevel(); got != tt.want {
			t.Errorf("CalculateLevel(%d).XPToNextLevel() = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestCalculateLevel_Idempotent(t *testing.T) {
	if CalculateLevel(777) != CalculateLevel(777) {
		t.Error("CalculateLevel is not deterministic")
	}
}
