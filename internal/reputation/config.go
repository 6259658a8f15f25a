// Package reputation turns a member's raw reputation signals into the derived
// values the rest of the system reads: tier score, tier, vote weight and the
// promotion boost earned by helping other members' communities.
package reputation

import (
	"fmt"
	"sort"
)

// Tier is one row of the tier table.
type Tier struct {
	Level    int     `yaml:"level"`
	Name     string  `yaml:"name"`
	MinScore float64 `yaml:"min_score"`
}

// DefaultTiers is ordered by ascending MinScore.
func DefaultTiers() []Tier {
	return []Tier{
		{Level: 0, Name: "newcomer", MinScore: 0},
		{Level: 1, Name: "contributor", MinScore: 25},
		{Level: 2, Name: "builder", MinScore: 100},
		{Level: 3, Name: "maker", MinScore: 300},
		{Level: 4, Name: "shipper", MinScore: 750},
		{Level: 5, Name: "luminary", MinScore: 2000},
	}
}

// Rewards are the points handed out per action.
type Rewards struct {
	Vote            int64 `yaml:"vote"`
	VoteWithReason  int64 `yaml:"vote_with_reason"`
	ReasonMinRunes  int   `yaml:"reason_min_runes"`
	Comment         int64 `yaml:"comment"`
	ValidationBonus int64 `yaml:"validation_bonus"`
	LaunchBonus     int64 `yaml:"launch_bonus"`
	LinkTrust       int64 `yaml:"link_trust"`
}

type Config struct {
	Tiers       []Tier  `yaml:"tiers"`
	Rewards     Rewards `yaml:"rewards"`
	MinVoteTier int     `yaml:"min_vote_tier"`
}

func DefaultConfig() Config {
	return Config{
		Tiers: DefaultTiers(),
		Rewards: Rewards{
			Vote:            1,
			VoteWithReason:  3,
			ReasonMinRunes:  20,
			Comment:         1,
			ValidationBonus: 10,
			LaunchBonus:     25,
			LinkTrust:       5,
		},
		MinVoteTier: 0,
	}
}

// Validate sorts the tier table and rejects tables without a floor tier.
func (c *Config) Validate() error {
	if len(c.Tiers) == 0 {
		return fmt.Errorf("reputation: tier table is empty")
	}
	sort.SliceStable(c.Tiers, func(i, j int) bool { return c.Tiers[i].MinScore < c.Tiers[j].MinScore })
	if c.Tiers[0].MinScore > 0 {
		return fmt.Errorf("reputation: lowest tier must start at 0, got %v", c.Tiers[0].MinScore)
	}
	for i := 1; i < len(c.Tiers); i++ {
		if c.Tiers[i].Level <= c.Tiers[i-1].Level {
			return fmt.Errorf("reputation: tier levels must grow with min score (%s)", c.Tiers[i].Name)
		}
	}
	if c.Rewards.Vote < 0 || c.Rewards.VoteWithReason < c.Rewards.Vote {
		return fmt.Errorf("reputation: vote rewards invalid (%d, %d)", c.Rewards.Vote, c.Rewards.VoteWithReason)
	}
	return nil
}
