package ranking

import "math"

// Progress reports each validation threshold separately so clients can show
// what an idea still lacks.
type Progress struct {
	NetSupport   int64   `json:"net_support"`
	TotalVotes   int64   `json:"total_votes"`
	SupportRatio float64 `json:"support_ratio"`
	Comments     int64   `json:"comments"`

	NetSupportMet   bool `json:"net_support_met"`
	TotalVotesMet   bool `json:"total_votes_met"`
	SupportRatioMet bool `json:"support_ratio_met"`
	CommentsMet     bool `json:"comments_met"`
}

// Met is true only when all four thresholds hold.
func (p Progress) Met() bool {
	return p.NetSupportMet && p.TotalVotesMet && p.SupportRatioMet && p.CommentsMet
}

// Evaluate checks the thresholds against the current tallies. No single
// dimension can force validation on its own.
func (c ValidationConfig) Evaluate(support, oppose, comments int64) Progress {
	total := support + oppose
	ratio := float64(support) / math.Max(1, float64(total))

	return Progress{
		NetSupport:   support - oppose,
		TotalVotes:   total,
		SupportRatio: ratio,
		Comments:     comments,

		NetSupportMet:   support-oppose >= c.MinNetSupport,
		TotalVotesMet:   total >= c.MinTotalVoters,
		SupportRatioMet: ratio >= c.MinSupportRatio,
		CommentsMet:     comments >= c.MinComments,
	}
}

// Passes is shorthand for Evaluate(...).Met().
func (c ValidationConfig) Passes(support, oppose, comments int64) bool {
	return c.Evaluate(support, oppose, comments).Met()
}
