package models

import "time"

// Comment 创意下的评论, 平铺不分楼层
type Comment struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement:false" json:"id"`
	IdeaID    uint64    `gorm:"column:idea_id;not null;index:idx_comment_idea" json:"idea_id"`
	AuthorID  uint64    `gorm:"column:author_id;not null;index:idx_comment_author" json:"author_id"`
	Content   string    `gorm:"column:content;type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}
