package types

type CastVoteRequest struct {
	VoterID  uint64 `json:"voter_id"`
	VoteType string `json:"vote_type"` // support / oppose
	Reason   string `json:"reason"`
}

type RemoveVoteRequest struct {
	VoterID uint64 `json:"voter_id"`
}

// VoteResult 投票结果
type VoteResult struct {
	Accepted bool   `json:"accepted"`
	Weight   int    `json:"weight"`
	Changed  bool   `json:"changed"` // 改票
	Status   string `json:"status"`  // 投票后的创意状态
}
