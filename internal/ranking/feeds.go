package ranking

import (
	"math"
	"sort"
	"time"
)

// 上升榜参与度系数
const (
	risingCommentWeight = 0.5
	risingOpposePenalty = 0.3
)

// sortScored 按分数降序, 同分按 ID 降序
func sortScored(s []Scored) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Score != s[j].Score {
			return s[i].Score > s[j].Score
		}
		return s[i].ID > s[j].ID
	})
}

func scoreAll(items []Item, score func(Item) float64) []Scored {
	out := make([]Scored, 0, len(items))
	for _, it := range items {
		out = append(out, Scored{Item: it, Score: score(it)})
	}
	sortScored(out)
	return out
}

func truncate(s []Scored, limit int) []Scored {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

// Hot orders by persisted hot score.
func Hot(items []Item, limit int) []Scored {
	return truncate(scoreAll(items, func(it Item) float64 { return it.HotScore }), limit)
}

// Top orders by net support.
func Top(items []Item, limit int) []Scored {
	return truncate(scoreAll(items, func(it Item) float64 { return float64(it.Net()) }), limit)
}

// New orders by creation time, newest first. Score is the unix timestamp.
func New(items []Item, limit int) []Scored {
	out := make([]Scored, 0, len(items))
	for _, it := range items {
		out = append(out, Scored{Item: it, Score: float64(it.CreatedAt.Unix())})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return truncate(out, limit)
}

// Velocity is votes per hour inside the trailing window.
func Velocity(votesInWindow int64, windowHours float64) float64 {
	if windowHours <= 0 {
		return 0
	}
	return float64(votesInWindow) / windowHours
}

// MinWindowVotes is the smallest vote count inside the window that reaches
// the velocity threshold. Never below 1: an item without votes in the window
// cannot be found from vote records.
func MinWindowVotes(windowHours float64, cfg TrendingConfig) int64 {
	n := int64(math.Ceil(cfg.VelocityThreshold*windowHours - 1e-9))
	if n < 1 {
		return 1
	}
	return n
}

// Trending keeps items whose velocity reaches the threshold (inclusive) and
// orders them by velocity. Absolute score plays no part, so a new item with a
// burst of votes beats an old item with a large stagnant total.
func Trending(items []Item, votesInWindow map[uint64]int64, windowHours float64, cfg TrendingConfig, limit int) []Scored {
	out := make([]Scored, 0)
	for _, it := range items {
		v := Velocity(votesInWindow[it.ID], windowHours)
		if v >= cfg.VelocityThreshold {
			out = append(out, Scored{Item: it, Score: v})
		}
	}
	sortScored(out)
	return truncate(out, limit)
}

// RisingRatio is engagement per hour of age:
//
//	engagement = support + comments×0.5 − oppose×0.3
//	ratio      = engagement / max(1, ageHours)
func RisingRatio(it Item, now time.Time) float64 {
	engagement := float64(it.Support) + float64(it.Comments)*risingCommentWeight - float64(it.Oppose)*risingOpposePenalty
	return engagement / math.Max(1, it.AgeHours(now))
}

// IsRising reports whether the item is young enough and engaged enough.
func IsRising(it Item, now time.Time, maxAgeHours float64, cfg RisingConfig) bool {
	return it.AgeHours(now) <= maxAgeHours && RisingRatio(it, now) >= cfg.StarThreshold
}

// Rising keeps young items with a strong engagement ratio.
func Rising(items []Item, now time.Time, maxAgeHours float64, cfg RisingConfig, limit int) []Scored {
	out := make([]Scored, 0)
	for _, it := range items {
		if IsRising(it, now, maxAgeHours, cfg) {
			out = append(out, Scored{Item: it, Score: RisingRatio(it, now)})
		}
	}
	sortScored(out)
	return truncate(out, limit)
}

// Viewer is what personalization knows about the caller.
type Viewer struct {
	ID              uint64
	Voted           map[uint64]struct{} // idea IDs the viewer voted on, either direction
	FavoriteAuthors map[uint64]struct{} // authors of ideas the viewer support-voted
}

// ForYou fills limit slots in three passes:
//
//  1. personalizedCount = limit − diversityCount slots from favorite authors
//  2. diversityCount = round(limit×DiversityFactor) slots from other authors
//     whose engagement reaches MinEngagement
//  3. backfill from the whole score-ordered pool, skipping duplicates
//
// Ideas the viewer voted on or wrote are never candidates. Favorite-author
// ideas score hot×FavoriteAuthorBoost, everything else scores hot.
func ForYou(pool []Item, viewer Viewer, limit int, cfg ForYouConfig) []Scored {
	if limit <= 0 {
		return []Scored{}
	}

	isFavorite := func(it Item) bool {
		_, ok := viewer.FavoriteAuthors[it.AuthorID]
		return ok
	}

	candidates := make([]Item, 0, len(pool))
	for _, it := range pool {
		if it.AuthorID == viewer.ID {
			continue
		}
		if _, voted := viewer.Voted[it.ID]; voted {
			continue
		}
		candidates = append(candidates, it)
	}

	ranked := scoreAll(candidates, func(it Item) float64 {
		if isFavorite(it) {
			return it.HotScore * cfg.FavoriteAuthorBoost
		}
		return it.HotScore
	})

	diversityCount := int(math.Round(float64(limit) * cfg.DiversityFactor))
	personalizedCount := limit - diversityCount

	picked := make(map[uint64]struct{}, limit)
	personalized := make([]Scored, 0, personalizedCount)
	for _, s := range ranked {
		if len(personalized) >= personalizedCount {
			break
		}
		if isFavorite(s.Item) {
			personalized = append(personalized, s)
			picked[s.ID] = struct{}{}
		}
	}

	diverse := make([]Scored, 0, diversityCount)
	for _, s := range ranked {
		if len(diverse) >= diversityCount {
			break
		}
		if !isFavorite(s.Item) && s.Engagement() >= cfg.MinEngagement {
			diverse = append(diverse, s)
			picked[s.ID] = struct{}{}
		}
	}

	out := make([]Scored, 0, limit)
	out = append(out, personalized...)
	out = append(out, diverse...)

	for _, s := range ranked {
		if len(out) >= limit {
			break
		}
		if _, dup := picked[s.ID]; dup {
			continue
		}
		out = append(out, s)
		picked[s.ID] = struct{}{}
	}
	return out
}

// Similar prefers the reference author's other ideas by hot score, then fills
// with other authors' ideas whose support ratio is closest to the reference.
// Same-author entries score their hot score, the rest score 1 − |Δratio|.
func Similar(ref Item, pool []Item, limit int, cfg SimilarConfig) []Scored {
	if limit <= 0 {
		return []Scored{}
	}

	sameAuthor := make([]Item, 0)
	others := make([]Item, 0)
	for _, it := range pool {
		if it.ID == ref.ID {
			continue
		}
		if it.AuthorID == ref.AuthorID {
			sameAuthor = append(sameAuthor, it)
		} else if it.Engagement() >= cfg.MinEngagement {
			others = append(others, it)
		}
	}

	out := truncate(scoreAll(sameAuthor, func(it Item) float64 { return it.HotScore }), limit)
	if len(out) >= limit {
		return out
	}

	refRatio := ref.SupportRatio()
	sort.Slice(others, func(i, j int) bool {
		di := math.Abs(others[i].SupportRatio() - refRatio)
		dj := math.Abs(others[j].SupportRatio() - refRatio)
		if di != dj {
			return di < dj
		}
		if others[i].HotScore != others[j].HotScore {
			return others[i].HotScore > others[j].HotScore
		}
		return others[i].ID > others[j].ID
	})

	for _, it := range others {
		if len(out) >= limit {
			break
		}
		out = append(out, Scored{Item: it, Score: 1 - math.Abs(it.SupportRatio()-refRatio)})
	}
	return out
}

// DiscoveryScore blends the hot score with the trending and rising flags and
// a stable per-ID jitter:
//
//	hot × TrendingBoost^{trending} × RisingBoost^{rising} × Jitter(id)
func DiscoveryScore(it Item, trending, rising bool, cfg Config) float64 {
	score := it.HotScore
	if trending {
		score *= cfg.Trending.Boost
	}
	if rising {
		score *= cfg.Rising.Boost
	}
	return score * Jitter(it.ID)
}

// Discovery is the blended feed.
func Discovery(pool []Item, votesInWindow map[uint64]int64, now time.Time, cfg Config, limit int) []Scored {
	return truncate(scoreAll(pool, func(it Item) float64 {
		trending := Velocity(votesInWindow[it.ID], cfg.Trending.WindowHours) >= cfg.Trending.VelocityThreshold
		rising := IsRising(it, now, cfg.Rising.MaxAgeHours, cfg.Rising)
		return DiscoveryScore(it, trending, rising, cfg)
	}), limit)
}
