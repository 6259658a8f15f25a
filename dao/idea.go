package dao

import (
	"Ideabox/models"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// 候选集排序方式
const (
	OrderHot = "hot_score DESC, id DESC"
	OrderNew = "created_at DESC, id DESC"
	OrderTop = "(support_votes - oppose_votes) DESC, id DESC"
)

var activeStatuses = []string{models.IdeaStatusOpen, models.IdeaStatusValidated}

type IdeaDAO struct {
	Repo[models.Idea]
}

func NewIdeaDAO(db *gorm.DB) *IdeaDAO {
	return &IdeaDAO{Repo: NewRepo[models.Idea](db)}
}

// GetByID 不存在返回 nil, nil
func (d *IdeaDAO) GetByID(ctx context.Context, id uint64) (*models.Idea, error) {
	var item models.Idea
	err := d.DB(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CompareAndSwap 按读取时的版本号整行写回, 版本号 +1
// 返回 false 表示期间有其他写入, 调用方需要重读重试
func (d *IdeaDAO) CompareAndSwap(ctx context.Context, idea *models.Idea) (bool, error) {
	expect := idea.Version
	now := time.Now()
	res := d.Model(ctx).
		Where("id = ? AND version = ?", idea.ID, expect).
		Updates(map[string]any{
			"title":         idea.Title,
			"body":          idea.Body,
			"tags":          idea.Tags,
			"support_votes": idea.SupportVotes,
			"oppose_votes":  idea.OpposeVotes,
			"comment_count": idea.CommentCount,
			"hot_score":     idea.HotScore,
			"status":        idea.Status,
			"validated_at":  idea.ValidatedAt,
			"launched_at":   idea.LaunchedAt,
			"closed_at":     idea.ClosedAt,
			"version":       expect + 1,
			"updated_at":    now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	idea.Version = expect + 1
	idea.UpdatedAt = now
	return true, nil
}

// RefreshHotScore 定时任务专用: 只在版本未变且仍活跃时写热度, 不改版本号
// 与投票并发时投票优先, 本次跳过
func (d *IdeaDAO) RefreshHotScore(ctx context.Context, id uint64, version int64, score float64) (bool, error) {
	res := d.Model(ctx).
		Where("id = ? AND version = ? AND status IN ?", id, version, activeStatuses).
		UpdateColumn("hot_score", score)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListActive 活跃创意候选集
func (d *IdeaDAO) ListActive(ctx context.Context, order string, limit int) ([]*models.Idea, error) {
	items := make([]*models.Idea, 0)
	err := d.DB(ctx).
		Where("status IN ?", activeStatuses).
		Order(order).
		Limit(limit).
		Find(&items).Error
	return items, err
}

// ListActiveSince 指定时间之后创建的活跃创意
func (d *IdeaDAO) ListActiveSince(ctx context.Context, since time.Time, limit int) ([]*models.Idea, error) {
	items := make([]*models.Idea, 0)
	err := d.DB(ctx).
		Where("status IN ? AND created_at >= ?", activeStatuses, since).
		Order(OrderNew).
		Limit(limit).
		Find(&items).Error
	return items, err
}

// ListActiveByIDs 按 id 取活跃创意, 顺序不保证
func (d *IdeaDAO) ListActiveByIDs(ctx context.Context, ids []uint64) ([]*models.Idea, error) {
	items := make([]*models.Idea, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	err := d.DB(ctx).Where("id IN ? AND status IN ?", ids, activeStatuses).Find(&items).Error
	return items, err
}

func (d *IdeaDAO) ListActiveByAuthor(ctx context.Context, authorID uint64, limit int) ([]*models.Idea, error) {
	items := make([]*models.Idea, 0)
	err := d.DB(ctx).
		Where("author_id = ? AND status IN ?", authorID, activeStatuses).
		Order(OrderHot).
		Limit(limit).
		Find(&items).Error
	return items, err
}

// ScanActive 按 id 游标分批扫描, afterID 为上一批最大 id
func (d *IdeaDAO) ScanActive(ctx context.Context, afterID uint64, batch int) ([]*models.Idea, error) {
	items := make([]*models.Idea, 0, batch)
	err := d.DB(ctx).
		Select("id", "support_votes", "oppose_votes", "comment_count", "hot_score", "version", "created_at").
		Where("id > ? AND status IN ?", afterID, activeStatuses).
		Order("id ASC").
		Limit(batch).
		Find(&items).Error
	return items, err
}
