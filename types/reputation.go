package types

// 记账结果
const (
	CreditCredited   = "credited"
	CreditOwnContent = "own_content"
	CreditNoLedger   = "no_ledger"
	CreditDuplicate  = "duplicate" // 一次性奖励已发放过
)

// CreditResult 声望记账结果, 非 credited 不视为错误
type CreditResult struct {
	Result string `json:"result"`
}

func (r CreditResult) Credited() bool {
	return r.Result == CreditCredited
}

// Reputation 成员声望概览
type Reputation struct {
	MemberID                uint64  `json:"member_id"`
	Tier                    int     `json:"tier"`
	TierName                string  `json:"tier_name"`
	TierScore               float64 `json:"tier_score"`
	ShippingPoints          int64   `json:"shipping_points"`
	CommunityKarma          int64   `json:"community_karma"`
	TrustScore              int64   `json:"trust_score"`
	ExternalKarma           int64   `json:"external_karma"`
	PromotionBoost          float64 `json:"promotion_boost"`
	UniqueCommunitiesHelped int     `json:"unique_communities_helped"`
	VoteWeight              int     `json:"vote_weight"`
}

type LinkMemberRequest struct {
	MemberID uint64 `json:"member_id"`
}
