package dao

import (
	"Ideabox/models"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type VoteDAO struct {
	Repo[models.Vote]
}

func NewVoteDAO(db *gorm.DB) *VoteDAO {
	return &VoteDAO{Repo: NewRepo[models.Vote](db)}
}

// GetByIdeaVoter 查询成员对创意的投票, 不存在返回 nil, nil
func (d *VoteDAO) GetByIdeaVoter(ctx context.Context, ideaID, voterID uint64) (*models.Vote, error) {
	var item models.Vote
	err := d.DB(ctx).Where("idea_id = ? AND voter_id = ?", ideaID, voterID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SwitchDirection 改票: 只改方向和时间, 权重保持投票时的快照
func (d *VoteDAO) SwitchDirection(ctx context.Context, v *models.Vote, voteType string, at time.Time) error {
	err := d.Model(ctx).Where("id = ?", v.ID).Updates(map[string]any{
		"vote_type":  voteType,
		"created_at": at,
		"updated_at": at,
	}).Error
	if err != nil {
		return err
	}
	v.VoteType = voteType
	v.CreatedAt = at
	v.UpdatedAt = at
	return nil
}

func (d *VoteDAO) DeleteByID(ctx context.Context, id uint64) (int64, error) {
	return d.Delete(ctx, "id = ?", id)
}

// CountSince 统计每个创意在 since 之后的投票数
func (d *VoteDAO) CountSince(ctx context.Context, ideaIDs []uint64, since time.Time) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(ideaIDs))
	if len(ideaIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		IdeaID uint64
		Cnt    int64
	}
	err := d.Model(ctx).
		Select("idea_id, COUNT(*) AS cnt").
		Where("idea_id IN ? AND created_at >= ?", ideaIDs, since).
		Group("idea_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.IdeaID] = r.Cnt
	}
	return out, nil
}

// VotedIdeaIDs 成员投过票的全部创意, 不区分方向
func (d *VoteDAO) VotedIdeaIDs(ctx context.Context, voterID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := d.Model(ctx).Where("voter_id = ?", voterID).Pluck("idea_id", &ids).Error
	return ids, err
}

// SupportedAuthorIDs 成员投过支持票的创意作者, 即偏好作者
func (d *VoteDAO) SupportedAuthorIDs(ctx context.Context, voterID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := d.DB(ctx).
		Table(models.Vote{}.TableName()+" AS v").
		Joins("JOIN "+models.Idea{}.TableName()+" AS i ON i.id = v.idea_id").
		Where("v.voter_id = ? AND v.vote_type = ?", voterID, models.VoteSupport).
		Distinct().
		Pluck("i.author_id", &ids).Error
	return ids, err
}

// SumWeights 按方向汇总投票记录的权重, 应与创意上的 support_votes / oppose_votes 一致
func (d *VoteDAO) SumWeights(ctx context.Context, ideaID uint64) (support, oppose int64, err error) {
	var rows []struct {
		VoteType string
		Total    int64
	}
	err = d.Model(ctx).
		Select("vote_type, COALESCE(SUM(weight), 0) AS total").
		Where("idea_id = ?", ideaID).
		Group("vote_type").
		Scan(&rows).Error
	if err != nil {
		return 0, 0, err
	}
	for _, r := range rows {
		switch r.VoteType {
		case models.VoteSupport:
			support = r.Total
		case models.VoteOppose:
			oppose = r.Total
		}
	}
	return support, oppose, nil
}

// TrendingIdeaIDs 窗口内投票数不少于 minVotes 的活跃创意, 票数多的在前
// 直接从投票表聚合, 不受热度候选集大小限制
func (d *VoteDAO) TrendingIdeaIDs(ctx context.Context, since time.Time, minVotes int64, limit int) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := d.DB(ctx).
		Table(models.Vote{}.TableName()+" AS v").
		Joins("JOIN "+models.Idea{}.TableName()+" AS i ON i.id = v.idea_id").
		Where("v.created_at >= ? AND i.status IN ?", since, activeStatuses).
		Group("v.idea_id").
		Having("COUNT(*) >= ?", minVotes).
		Order("COUNT(*) DESC, v.idea_id DESC").
		Limit(limit).
		Pluck("v.idea_id", &ids).Error
	return ids, err
}
