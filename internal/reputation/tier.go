package reputation

import (
	"strings"
	"unicode/utf8"
)

// 各信号在 tier score 中的权重
const (
	shippingWeight = 1.5
	karmaWeight    = 1.0
	trustWeight    = 0.5
)

// TierScore = shipping×1.5 + karma×1.0 + trust×0.5
func TierScore(shippingPoints, communityKarma, trustScore int64) float64 {
	return float64(shippingPoints)*shippingWeight +
		float64(communityKarma)*karmaWeight +
		float64(trustScore)*trustWeight
}

// TierFor scans the table from the top and returns the highest tier whose
// minimum is ≤ score. tiers must be sorted ascending.
func TierFor(tiers []Tier, score float64) Tier {
	for i := len(tiers) - 1; i >= 0; i-- {
		if score >= tiers[i].MinScore {
			return tiers[i]
		}
	}
	if len(tiers) > 0 {
		return tiers[0]
	}
	return Tier{}
}

// VoteWeight is max(1, tier).
func VoteWeight(tier int) int {
	if tier < 1 {
		return 1
	}
	return tier
}

// ForVote returns the reward for a vote. A reason counts once it reaches
// ReasonMinRunes after trimming.
func (r Rewards) ForVote(reason string) int64 {
	if utf8.RuneCountInString(strings.TrimSpace(reason)) >= r.ReasonMinRunes && r.ReasonMinRunes > 0 {
		return r.VoteWithReason
	}
	return r.Vote
}
