package models

import "time"

const (
	VoteSupport = "support"
	VoteOppose  = "oppose"
)

// Vote 投票记录
// 唯一键: idea_id + voter_id
// weight 为投票时的快照, 之后等级变化不回算
type Vote struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IdeaID    uint64    `gorm:"column:idea_id;not null;uniqueIndex:uk_idea_voter,priority:1;index:idx_idea_created,priority:1" json:"idea_id"`
	VoterID   uint64    `gorm:"column:voter_id;not null;uniqueIndex:uk_idea_voter,priority:2;index:idx_voter_id" json:"voter_id"`
	VoteType  string    `gorm:"column:vote_type;type:varchar(16);not null" json:"vote_type"`
	Reason    string    `gorm:"column:reason;type:varchar(1000);not null;default:''" json:"reason"`
	Weight    int       `gorm:"column:weight;not null;default:1" json:"weight"`
	CreatedAt time.Time `gorm:"column:created_at;index:idx_idea_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Vote) TableName() string {
	return "votes"
}

func ValidVoteType(t string) bool {
	return t == VoteSupport || t == VoteOppose
}
