package dao

import (
	"Ideabox/models"
	"context"

	"gorm.io/gorm"
)

type CommentDAO struct {
	Repo[models.Comment]
}

func NewCommentDAO(db *gorm.DB) *CommentDAO {
	return &CommentDAO{Repo: NewRepo[models.Comment](db)}
}

// ListByIdea 按时间倒序分页, cursor 为上一页最后一条的 id, 0 表示第一页
func (d *CommentDAO) ListByIdea(ctx context.Context, ideaID, cursor uint64, limit int) ([]*models.Comment, error) {
	items := make([]*models.Comment, 0, limit)
	q := d.DB(ctx).Where("idea_id = ?", ideaID)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	err := q.Order("id DESC").Limit(limit).Find(&items).Error
	return items, err
}
