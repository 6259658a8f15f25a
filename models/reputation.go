package models

import "time"

// MemberReputation 成员声望账本, 每个成员一行, 只增不删
type MemberReputation struct {
	MemberID                uint64     `gorm:"column:member_id;primaryKey;autoIncrement:false" json:"member_id"`
	ShippingPoints          int64      `gorm:"column:shipping_points;not null;default:0" json:"shipping_points"`
	CommunityKarma          int64      `gorm:"column:community_karma;not null;default:0" json:"community_karma"`
	TrustScore              int64      `gorm:"column:trust_score;not null;default:0" json:"trust_score"`
	TierScore               float64    `gorm:"column:tier_score;not null;default:0;index:idx_tier_score" json:"tier_score"`
	Tier                    int        `gorm:"column:tier;not null;default:0" json:"tier"`
	ExternalKarma           int64      `gorm:"column:external_karma;not null;default:0" json:"external_karma"`
	UniqueCommunitiesHelped int        `gorm:"column:unique_communities_helped;not null;default:0" json:"unique_communities_helped"`
	PromotionBoost          float64    `gorm:"column:promotion_boost;not null;default:1" json:"promotion_boost"`
	LinkedAt                *time.Time `gorm:"column:linked_at" json:"linked_at,omitempty"`
	CreatedAt               time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt               time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (MemberReputation) TableName() string {
	return "member_reputations"
}

// CommunityParticipation 成员在他人社区 (owner 的全部创意) 获得的声望
type CommunityParticipation struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MemberID        uint64    `gorm:"column:member_id;not null;uniqueIndex:uk_member_owner,priority:1" json:"member_id"`
	OwnerID         uint64    `gorm:"column:owner_id;not null;uniqueIndex:uk_member_owner,priority:2" json:"owner_id"`
	KarmaEarnedHere int64     `gorm:"column:karma_earned_here;not null;default:0" json:"karma_earned_here"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (CommunityParticipation) TableName() string {
	return "community_participations"
}

// 声望变动类型
const (
	KarmaKindCommunity = "community"
	KarmaKindExternal  = "external"
	KarmaKindShipping  = "shipping"
	KarmaKindTrust     = "trust"
)

// KarmaLog 声望流水
// 一次性奖励 (验证奖励 / 上线奖励) 依赖 member_id + kind + source_id 去重
type KarmaLog struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	MemberID  uint64    `gorm:"column:member_id;not null;index:idx_member_kind_source,priority:1"`
	Kind      string    `gorm:"column:kind;type:varchar(16);not null;index:idx_member_kind_source,priority:2"`
	Points    int64     `gorm:"column:points;not null"`
	SourceID  string    `gorm:"column:source_id;size:64;index:idx_member_kind_source,priority:3"`
	Remark    string    `gorm:"column:remark;size:255"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (KarmaLog) TableName() string {
	return "karma_logs"
}

// All 需要迁移的表
func All() []any {
	return []any{
		&Idea{},
		&Vote{},
		&Comment{},
		&MemberReputation{},
		&CommunityParticipation{},
		&KarmaLog{},
	}
}
