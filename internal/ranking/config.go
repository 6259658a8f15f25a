// Package ranking holds the deterministic scoring formulas behind idea ordering:
// the time-decayed hot score, the validation thresholds, and the feed views
// (hot, new, top, trending, rising, for-you, similar, discovery).
//
// Everything here is pure. Callers load candidates from storage, pass them in
// as Item values together with a Config, and get back ordered Scored slices.
// Ties always break on ID descending so repeated reads return the same order.
package ranking

import "fmt"

// HotConfig tunes the hot score:
//
//	hot = (net + comments×CommentWeight) × fresh / (hoursAge + AgeOffset)^Gravity
type HotConfig struct {
	Gravity              float64 `yaml:"gravity"`
	AgeOffset            float64 `yaml:"age_offset"`
	CommentWeight        float64 `yaml:"comment_weight"`
	FreshBoostHours      float64 `yaml:"fresh_boost_hours"`
	FreshBoostMultiplier float64 `yaml:"fresh_boost_multiplier"`
}

// ValidationConfig holds the four thresholds that must all hold at once
// before an open idea becomes validated.
type ValidationConfig struct {
	MinNetSupport   int64   `yaml:"min_net_support"`
	MinTotalVoters  int64   `yaml:"min_total_voters"`
	MinSupportRatio float64 `yaml:"min_support_ratio"`
	MinComments     int64   `yaml:"min_comments"`
}

type TrendingConfig struct {
	WindowHours       float64 `yaml:"window_hours"`
	VelocityThreshold float64 `yaml:"velocity_threshold"` // votes per hour, inclusive
	Boost             float64 `yaml:"boost"`              // discovery multiplier
}

type RisingConfig struct {
	MaxAgeHours   float64 `yaml:"max_age_hours"`
	StarThreshold float64 `yaml:"star_threshold"`
	Boost         float64 `yaml:"boost"` // discovery multiplier
}

type ForYouConfig struct {
	DiversityFactor     float64 `yaml:"diversity_factor"`
	FavoriteAuthorBoost float64 `yaml:"favorite_author_boost"`
	MinEngagement       int64   `yaml:"min_engagement"`
}

type SimilarConfig struct {
	MinEngagement int64 `yaml:"min_engagement"`
}

type FeedConfig struct {
	DefaultLimit  int `yaml:"default_limit"`
	MaxLimit      int `yaml:"max_limit"`
	CandidatePool int `yaml:"candidate_pool"`
}

// Config is passed by value into services at construction time and never
// mutated afterwards.
type Config struct {
	Hot        HotConfig        `yaml:"hot"`
	Validation ValidationConfig `yaml:"validation"`
	Trending   TrendingConfig   `yaml:"trending"`
	Rising     RisingConfig     `yaml:"rising"`
	ForYou     ForYouConfig     `yaml:"for_you"`
	Similar    SimilarConfig    `yaml:"similar"`
	Feed       FeedConfig       `yaml:"feed"`
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		Hot: HotConfig{
			Gravity:              1.8,
			AgeOffset:            2,
			CommentWeight:        0.5,
			FreshBoostHours:      6,
			FreshBoostMultiplier: 1.5,
		},
		Validation: ValidationConfig{
			MinNetSupport:   20,
			MinTotalVoters:  10,
			MinSupportRatio: 0.6,
			MinComments:     5,
		},
		Trending: TrendingConfig{
			WindowHours:       24,
			VelocityThreshold: 0.5,
			Boost:             1.3,
		},
		Rising: RisingConfig{
			MaxAgeHours:   48,
			StarThreshold: 2.0,
			Boost:         1.2,
		},
		ForYou: ForYouConfig{
			DiversityFactor:     0.3,
			FavoriteAuthorBoost: 1.5,
			MinEngagement:       3,
		},
		Similar: SimilarConfig{
			MinEngagement: 3,
		},
		Feed: FeedConfig{
			DefaultLimit:  20,
			MaxLimit:      100,
			CandidatePool: 500,
		},
	}
}

// Validate rejects tunings that would make the formulas meaningless.
func (c Config) Validate() error {
	switch {
	case c.Hot.Gravity <= 0:
		return fmt.Errorf("ranking: gravity must be > 0, got %v", c.Hot.Gravity)
	case c.Hot.AgeOffset <= 0:
		return fmt.Errorf("ranking: age offset must be > 0, got %v", c.Hot.AgeOffset)
	case c.Hot.FreshBoostMultiplier < 1:
		return fmt.Errorf("ranking: fresh boost multiplier must be >= 1, got %v", c.Hot.FreshBoostMultiplier)
	case c.Validation.MinSupportRatio < 0 || c.Validation.MinSupportRatio > 1:
		return fmt.Errorf("ranking: min support ratio must be in [0,1], got %v", c.Validation.MinSupportRatio)
	case c.Trending.WindowHours <= 0:
		return fmt.Errorf("ranking: trending window must be > 0, got %v", c.Trending.WindowHours)
	case c.Rising.MaxAgeHours <= 0:
		return fmt.Errorf("ranking: rising max age must be > 0, got %v", c.Rising.MaxAgeHours)
	case c.ForYou.DiversityFactor < 0 || c.ForYou.DiversityFactor > 1:
		return fmt.Errorf("ranking: diversity factor must be in [0,1], got %v", c.ForYou.DiversityFactor)
	case c.Feed.DefaultLimit <= 0 || c.Feed.MaxLimit < c.Feed.DefaultLimit:
		return fmt.Errorf("ranking: feed limits invalid (default %d, max %d)", c.Feed.DefaultLimit, c.Feed.MaxLimit)
	case c.Feed.CandidatePool < c.Feed.MaxLimit:
		return fmt.Errorf("ranking: candidate pool %d smaller than max limit %d", c.Feed.CandidatePool, c.Feed.MaxLimit)
	}
	return nil
}

// ClampLimit applies the default and maximum page sizes.
func (c FeedConfig) ClampLimit(limit int) int {
	if limit <= 0 {
		return c.DefaultLimit
	}
	if limit > c.MaxLimit {
		return c.MaxLimit
	}
	return limit
}
