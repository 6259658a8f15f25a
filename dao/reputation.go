package dao

import (
	"Ideabox/models"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReputationDAO struct {
	Repo[models.MemberReputation]
}

func NewReputationDAO(db *gorm.DB) *ReputationDAO {
	return &ReputationDAO{Repo: NewRepo[models.MemberReputation](db)}
}

// Get 不存在返回 nil, nil
func (d *ReputationDAO) Get(ctx context.Context, memberID uint64) (*models.MemberReputation, error) {
	return d.get(d.DB(ctx), memberID)
}

// GetForUpdate 需在事务内调用, 锁住账本行
func (d *ReputationDAO) GetForUpdate(ctx context.Context, memberID uint64) (*models.MemberReputation, error) {
	return d.get(d.DB(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), memberID)
}

func (d *ReputationDAO) get(db *gorm.DB, memberID uint64) (*models.MemberReputation, error) {
	var item models.MemberReputation
	err := db.Where("member_id = ?", memberID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateIfAbsent 账本已存在时不做任何修改
func (d *ReputationDAO) CreateIfAbsent(ctx context.Context, rep *models.MemberReputation) error {
	return d.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(rep).Error
}

// Save 写回派生后的账本
func (d *ReputationDAO) Save(ctx context.Context, rep *models.MemberReputation) error {
	rep.UpdatedAt = time.Now()
	return d.Model(ctx).Where("member_id = ?", rep.MemberID).Updates(map[string]any{
		"shipping_points":           rep.ShippingPoints,
		"community_karma":           rep.CommunityKarma,
		"trust_score":               rep.TrustScore,
		"tier_score":                rep.TierScore,
		"tier":                      rep.Tier,
		"external_karma":            rep.ExternalKarma,
		"unique_communities_helped": rep.UniqueCommunitiesHelped,
		"promotion_boost":           rep.PromotionBoost,
		"linked_at":                 rep.LinkedAt,
		"updated_at":                rep.UpdatedAt,
	}).Error
}

// AddParticipation 累加成员在 owner 社区获得的声望, 没有记录则插入
func (d *ReputationDAO) AddParticipation(ctx context.Context, memberID, ownerID uint64, points int64) error {
	row := &models.CommunityParticipation{
		MemberID:        memberID,
		OwnerID:         ownerID,
		KarmaEarnedHere: points,
	}
	return d.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "member_id"}, {Name: "owner_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"karma_earned_here": gorm.Expr("karma_earned_here + ?", points),
			"updated_at":        time.Now(),
		}),
	}).Create(row).Error
}

// CountCommunitiesHelped 重新扫描参与记录: 声望为正且不是自己的社区
func (d *ReputationDAO) CountCommunitiesHelped(ctx context.Context, memberID uint64) (int64, error) {
	var count int64
	err := d.DB(ctx).Model(&models.CommunityParticipation{}).
		Where("member_id = ? AND owner_id <> ? AND karma_earned_here > 0", memberID, memberID).
		Count(&count).Error
	return count, err
}

func (d *ReputationDAO) LogExists(ctx context.Context, memberID uint64, kind, sourceID string) (bool, error) {
	var count int64
	err := d.DB(ctx).Model(&models.KarmaLog{}).
		Where("member_id = ? AND kind = ? AND source_id = ?", memberID, kind, sourceID).
		Count(&count).Error
	return count > 0, err
}

func (d *ReputationDAO) CreateLog(ctx context.Context, log *models.KarmaLog) error {
	return d.DB(ctx).Create(log).Error
}

// Top 按 tier score 排行
func (d *ReputationDAO) Top(ctx context.Context, limit int) ([]*models.MemberReputation, error) {
	items := make([]*models.MemberReputation, 0, limit)
	err := d.DB(ctx).Order("tier_score DESC, member_id DESC").Limit(limit).Find(&items).Error
	return items, err
}

// GetMany 批量取账本, 用于信息流展示作者等级
func (d *ReputationDAO) GetMany(ctx context.Context, memberIDs []uint64) (map[uint64]*models.MemberReputation, error) {
	out := make(map[uint64]*models.MemberReputation, len(memberIDs))
	if len(memberIDs) == 0 {
		return out, nil
	}
	items := make([]*models.MemberReputation, 0, len(memberIDs))
	if err := d.DB(ctx).Where("member_id IN ?", memberIDs).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.MemberID] = it
	}
	return out, nil
}
