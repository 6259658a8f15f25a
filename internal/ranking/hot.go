package ranking

import (
	"math"
	"time"
)

// Item is the ranking view of an idea. It carries only the signals the
// formulas need.
type Item struct {
	ID        uint64
	AuthorID  uint64
	Support   int64
	Oppose    int64
	Comments  int64
	HotScore  float64
	CreatedAt time.Time
}

// Net is support minus oppose (weighted).
func (it Item) Net() int64 { return it.Support - it.Oppose }

// Total is support plus oppose (weighted).
func (it Item) Total() int64 { return it.Support + it.Oppose }

// SupportRatio is support / max(1, total).
func (it Item) SupportRatio() float64 {
	return float64(it.Support) / math.Max(1, float64(it.Total()))
}

// Engagement counts weighted votes plus comments.
func (it Item) Engagement() int64 { return it.Total() + it.Comments }

// AgeHours is the age at now, never negative.
func (it Item) AgeHours(now time.Time) float64 {
	return hoursSince(it.CreatedAt, now)
}

// Scored pairs an item with the score of the view that produced it.
type Scored struct {
	Item
	Score float64
}

// HotScore computes the time-decayed popularity of an idea.
//
//	hot = (net + comments×CommentWeight) × fresh / (hoursAge + AgeOffset)^Gravity
//	fresh = FreshBoostMultiplier while hoursAge ≤ FreshBoostHours, else 1
//
// The offset keeps brand new items from dividing by ~0; gravity > 1 decays
// faster than linear.
func HotScore(cfg HotConfig, net, comments int64, createdAt, now time.Time) float64 {
	base := float64(net) + float64(comments)*cfg.CommentWeight
	if base == 0 {
		return 0
	}

	hours := hoursSince(createdAt, now)
	fresh := 1.0
	if hours <= cfg.FreshBoostHours {
		fresh = cfg.FreshBoostMultiplier
	}

	return base * fresh / math.Pow(hours+cfg.AgeOffset, cfg.Gravity)
}

// Rescore returns the item's hot score recomputed at now.
func (cfg HotConfig) Rescore(it Item, now time.Time) float64 {
	return HotScore(cfg, it.Net(), it.Comments, it.CreatedAt, now)
}

func hoursSince(t, now time.Time) float64 {
	h := now.Sub(t).Hours()
	if h < 0 {
		return 0
	}
	return h
}
