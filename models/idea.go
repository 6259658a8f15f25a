package models

import (
	"time"

	"gorm.io/datatypes"
)

// 创意状态, 只能向前流转: open -> validated -> launched, open|validated -> closed
const (
	IdeaStatusOpen      = "open"
	IdeaStatusValidated = "validated"
	IdeaStatusLaunched  = "launched"
	IdeaStatusClosed    = "closed"
)

// Idea 创意
// support_votes / oppose_votes 为加权票数之和, 不是人数
// version 用于乐观锁 (compare-and-swap)
type Idea struct {
	ID           uint64                      `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	AuthorID     uint64                      `gorm:"column:author_id;not null;index:idx_author_id" json:"author_id"`
	Title        string                      `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Body         string                      `gorm:"column:body;type:text" json:"body"`
	Tags         datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	SupportVotes int64                       `gorm:"column:support_votes;not null;default:0" json:"support_votes"`
	OpposeVotes  int64                       `gorm:"column:oppose_votes;not null;default:0" json:"oppose_votes"`
	CommentCount int64                       `gorm:"column:comment_count;not null;default:0" json:"comment_count"`
	HotScore     float64                     `gorm:"column:hot_score;not null;default:0;index:idx_status_hot,priority:2" json:"hot_score"`
	Status       string                      `gorm:"column:status;type:varchar(16);not null;default:'open';index:idx_status_hot,priority:1" json:"status"`
	ValidatedAt  *time.Time                  `gorm:"column:validated_at" json:"validated_at,omitempty"`
	LaunchedAt   *time.Time                  `gorm:"column:launched_at" json:"launched_at,omitempty"`
	ClosedAt     *time.Time                  `gorm:"column:closed_at" json:"closed_at,omitempty"`
	Version      int64                       `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt    time.Time                   `gorm:"column:created_at;index:idx_created_at" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"column:updated_at" json:"updated_at"`
}

func (Idea) TableName() string {
	return "ideas"
}

// Active 仍参与排序与推荐
func (i *Idea) Active() bool {
	return i.Status == IdeaStatusOpen || i.Status == IdeaStatusValidated
}

// Closed 不再接受投票和评论
func (i *Idea) Closed() bool {
	return i.Status == IdeaStatusClosed || i.Status == IdeaStatusLaunched
}
