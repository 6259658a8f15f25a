package ranking

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestHotScore_ZeroTallies(t *testing.T) {
	cfg := DefaultConfig().Hot
	if got := HotScore(cfg, 0, 0, testNow, testNow); got != 0 {
		t.Errorf("hot = %f, want 0", got)
	}
}

func TestHotScore_FirstVoteAndComment(t *testing.T) {
	cfg := DefaultConfig().Hot

	// one support vote of weight 2, one comment, brand new
	got := HotScore(cfg, 2, 1, testNow, testNow)
	want := (2 + 0.5) * 1.5 / math.Pow(2, 1.8)
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("hot = %f, want %f", got, want)
	}
	if !almostEqual(got, 1.077, 1e-3) {
		t.Errorf("hot = %f, want ≈1.077", got)
	}
}

func TestHotScore_FreshBoostWindow(t *testing.T) {
	cfg := DefaultConfig().Hot

	inside := HotScore(cfg, 10, 0, testNow.Add(-6*time.Hour), testNow)
	wantInside := 10 * 1.5 / math.Pow(8, 1.8)
	if !almostEqual(inside, wantInside, 1e-9) {
		t.Errorf("hot at 6h = %f, want %f (boundary is inclusive)", inside, wantInside)
	}

	outside := HotScore(cfg, 10, 0, testNow.Add(-7*time.Hour), testNow)
	wantOutside := 10 / math.Pow(9, 1.8)
	if !almostEqual(outside, wantOutside, 1e-9) {
		t.Errorf("hot at 7h = %f, want %f", outside, wantOutside)
	}
}

func TestHotScore_DecaysWithAge(t *testing.T) {
	cfg := DefaultConfig().Hot

	younger := HotScore(cfg, 10, 4, testNow.Add(-10*time.Hour), testNow)
	older := HotScore(cfg, 10, 4, testNow.Add(-20*time.Hour), testNow)
	if older >= younger {
		t.Errorf("older = %f should be below younger = %f", older, younger)
	}

	// same item, the clock moves on
	it := Item{ID: 1, Support: 10, Comments: 4, CreatedAt: testNow.Add(-10 * time.Hour)}
	if later := cfg.Rescore(it, testNow.Add(5*time.Hour)); later >= younger {
		t.Errorf("rescored later = %f should be below %f", later, younger)
	}
}

func TestHotScore_NegativeNet(t *testing.T) {
	cfg := DefaultConfig().Hot
	if got := HotScore(cfg, -3, 0, testNow.Add(-time.Hour), testNow); got >= 0 {
		t.Errorf("hot = %f, want negative", got)
	}
}

func TestHotScore_FutureCreatedAtClamps(t *testing.T) {
	cfg := DefaultConfig().Hot
	now := HotScore(cfg, 4, 0, testNow, testNow)
	future := HotScore(cfg, 4, 0, testNow.Add(time.Hour), testNow)
	if !almostEqual(now, future, 1e-12) {
		t.Errorf("future created_at hot = %f, want %f", future, now)
	}
}

func TestItemSignals(t *testing.T) {
	it := Item{Support: 8, Oppose: 2, Comments: 3, CreatedAt: testNow.Add(-90 * time.Minute)}
	if it.Net() != 6 {
		t.Errorf("net = %d, want 6", it.Net())
	}
	if it.Total() != 10 {
		t.Errorf("total = %d, want 10", it.Total())
	}
	if !almostEqual(it.SupportRatio(), 0.8, 1e-12) {
		t.Errorf("ratio = %f, want 0.8", it.SupportRatio())
	}
	if it.Engagement() != 13 {
		t.Errorf("engagement = %d, want 13", it.Engagement())
	}
	if !almostEqual(it.AgeHours(testNow), 1.5, 1e-12) {
		t.Errorf("age = %f, want 1.5", it.AgeHours(testNow))
	}

	var empty Item
	if empty.SupportRatio() != 0 {
		t.Errorf("empty ratio = %f, want 0", empty.SupportRatio())
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero gravity", func(c *Config) { c.Hot.Gravity = 0 }},
		{"zero offset", func(c *Config) { c.Hot.AgeOffset = 0 }},
		{"shrinking fresh boost", func(c *Config) { c.Hot.FreshBoostMultiplier = 0.5 }},
		{"ratio above one", func(c *Config) { c.Validation.MinSupportRatio = 1.2 }},
		{"zero window", func(c *Config) { c.Trending.WindowHours = 0 }},
		{"zero rising age", func(c *Config) { c.Rising.MaxAgeHours = 0 }},
		{"diversity above one", func(c *Config) { c.ForYou.DiversityFactor = 2 }},
		{"max below default", func(c *Config) { c.Feed.MaxLimit = 5 }},
		{"pool below max", func(c *Config) { c.Feed.CandidatePool = 10 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestClampLimit(t *testing.T) {
	fc := DefaultConfig().Feed
	tests := []struct {
		in, want int
	}{
		{0, 20},
		{-4, 20},
		{7, 7},
		{100, 100},
		{500, 100},
	}
	for _, tt := range tests {
		if got := fc.ClampLimit(tt.in); got != tt.want {
			t.Errorf("ClampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
