package service

import (
	"Ideabox/dao"
	"Ideabox/internal/ranking"
	"Ideabox/internal/reputation"
	"Ideabox/models"
	"Ideabox/pkg/log"
	"Ideabox/types"
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 一次性奖励的来源标识
const (
	sourceLink = "link"
)

func validationSource(ideaID uint64) string { return fmt.Sprintf("validate:%d", ideaID) }
func launchSource(ideaID uint64) string     { return fmt.Sprintf("launch:%d", ideaID) }

var _ IReputationService = (*ReputationService)(nil)

type IReputationService interface {
	// EnsureLedger 账本不存在时创建
	EnsureLedger(ctx context.Context, memberID uint64) error
	// Link 身份关联: 建账本并发放一次信任分
	Link(ctx context.Context, memberID uint64) (*types.Reputation, error)

	CreditKarma(ctx context.Context, memberID uint64, points int64, sourceID string) (types.CreditResult, error)
	CreditExternalKarma(ctx context.Context, memberID uint64, points int64, ownerID uint64, sourceID string) (types.CreditResult, error)
	CreditShipping(ctx context.Context, memberID uint64, points int64, sourceID string) (types.CreditResult, error)
	CreditTrust(ctx context.Context, memberID uint64, points int64, sourceID string) (types.CreditResult, error)
	// CreditOnce 同一 kind + sourceID 只发放一次
	CreditOnce(ctx context.Context, memberID uint64, kind string, points int64, sourceID string) (types.CreditResult, error)

	GetReputation(ctx context.Context, memberID uint64) (*types.Reputation, error)
	TierOf(ctx context.Context, memberID uint64) (int, error)
	TopMembers(ctx context.Context, limit int) ([]*types.Reputation, error)
}

type ReputationService struct {
	DB            *gorm.DB
	ReputationDAO *dao.ReputationDAO
	Config        reputation.Config
	Ranking       ranking.Config
}

type credit struct {
	memberID uint64
	kind     string
	points   int64
	ownerID  uint64 // 仅 external
	sourceID string
	once     bool
	remark   string
}

func (s *ReputationService) EnsureLedger(ctx context.Context, memberID uint64) error {
	if memberID == 0 {
		return ErrInvalidMemberID
	}
	return s.ReputationDAO.CreateIfAbsent(ctx, &models.MemberReputation{
		MemberID:       memberID,
		PromotionBoost: 1,
	})
}

func (s *ReputationService) Link(ctx context.Context, memberID uint64) (*types.Reputation, error) {
	if memberID == 0 {
		return nil, ErrInvalidMemberID
	}

	err := dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		if err := s.EnsureLedger(ctx, memberID); err != nil {
			return err
		}
		rep, err := s.ReputationDAO.GetForUpdate(ctx, memberID)
		if err != nil {
			return err
		}
		if rep.LinkedAt != nil {
			return nil
		}
		now := time.Now()
		rep.LinkedAt = &now
		if err := s.ReputationDAO.Save(ctx, rep); err != nil {
			return err
		}
		_, err = s.CreditOnce(ctx, memberID, models.KarmaKindTrust, s.Config.Rewards.LinkTrust, sourceLink)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.GetReputation(ctx, memberID)
}

func (s *ReputationService) CreditKarma(ctx context.Context, memberID uint64, points int64, sourceID string) (types.CreditResult, error) {
	return s.apply(ctx, credit{memberID: memberID, kind: models.KarmaKindCommunity, points: points, sourceID: sourceID})
}

// CreditExternalKarma 帮助他人社区: 同时记社区声望和外部声望, 自己的内容不记
func (s *ReputationService) CreditExternalKarma(ctx context.Context, memberID uint64, points int64, ownerID uint64, sourceID string) (types.CreditResult, error) {
	if ownerID == memberID {
		return types.CreditResult{Result: types.CreditOwnContent}, nil
	}
	return s.apply(ctx, credit{memberID: memberID, kind: models.KarmaKindExternal, points: points, ownerID: ownerID, sourceID: sourceID})
}

func (s *ReputationService) CreditShipping(ctx context.Context, memberID uint64, points int64, sourceID string) (types.CreditResult, error) {
	return s.apply(ctx, credit{memberID: memberID, kind: models.KarmaKindShipping, points: points, sourceID: sourceID})
}

func (s *ReputationService) CreditTrust(ctx context.Context, memberID uint64, points int64, sourceID string) (types.CreditResult, error) {
	return s.apply(ctx, credit{memberID: memberID, kind: models.KarmaKindTrust, points: points, sourceID: sourceID})
}

func (s *ReputationService) CreditOnce(ctx context.Context, memberID uint64, kind string, points int64, sourceID string) (types.CreditResult, error) {
	if kind == models.KarmaKindExternal {
		return types.CreditResult{}, fmt.Errorf("external karma needs an owner")
	}
	return s.apply(ctx, credit{memberID: memberID, kind: kind, points: points, sourceID: sourceID, once: true})
}

// apply 锁住账本行, 记账并重新计算派生字段
func (s *ReputationService) apply(ctx context.Context, c credit) (types.CreditResult, error) {
	if c.points <= 0 {
		return types.CreditResult{}, fmt.Errorf("credit points must be > 0, got %d", c.points)
	}

	var result types.CreditResult
	err := dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		rep, err := s.ReputationDAO.GetForUpdate(ctx, c.memberID)
		if err != nil {
			return err
		}
		if rep == nil {
			result.Result = types.CreditNoLedger
			return nil
		}

		if c.once {
			exists, err := s.ReputationDAO.LogExists(ctx, c.memberID, c.kind, c.sourceID)
			if err != nil {
				return err
			}
			if exists {
				result.Result = types.CreditDuplicate
				return nil
			}
		}

		switch c.kind {
		case models.KarmaKindCommunity:
			rep.CommunityKarma += c.points
		case models.KarmaKindExternal:
			rep.CommunityKarma += c.points
			rep.ExternalKarma += c.points
			if err := s.ReputationDAO.AddParticipation(ctx, c.memberID, c.ownerID, c.points); err != nil {
				return err
			}
			helped, err := s.ReputationDAO.CountCommunitiesHelped(ctx, c.memberID)
			if err != nil {
				return err
			}
			rep.UniqueCommunitiesHelped = int(helped)
		case models.KarmaKindShipping:
			rep.ShippingPoints += c.points
		case models.KarmaKindTrust:
			rep.TrustScore += c.points
		default:
			return fmt.Errorf("unknown karma kind %q", c.kind)
		}
		s.derive(rep)

		if err := s.ReputationDAO.Save(ctx, rep); err != nil {
			return err
		}
		if err := s.ReputationDAO.CreateLog(ctx, &models.KarmaLog{
			MemberID: c.memberID,
			Kind:     c.kind,
			Points:   c.points,
			SourceID: c.sourceID,
			Remark:   c.remark,
		}); err != nil {
			return err
		}
		result.Result = types.CreditCredited
		return nil
	})
	if err != nil {
		return types.CreditResult{}, err
	}

	karmaCredits.WithLabelValues(c.kind, result.Result).Inc()
	return result, nil
}

// derive 重新计算 tier score / tier / promotion boost
func (s *ReputationService) derive(rep *models.MemberReputation) {
	rep.TierScore = reputation.TierScore(rep.ShippingPoints, rep.CommunityKarma, rep.TrustScore)
	rep.Tier = reputation.TierFor(s.Config.Tiers, rep.TierScore).Level
	rep.PromotionBoost = reputation.PromotionBoost(rep.ExternalKarma)
}

func (s *ReputationService) GetReputation(ctx context.Context, memberID uint64) (*types.Reputation, error) {
	rep, err := s.ReputationDAO.Get(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if rep == nil {
		return nil, ErrLedgerNotFound
	}
	return s.toReputation(rep), nil
}

// TierOf 没有账本的成员视为最低等级
func (s *ReputationService) TierOf(ctx context.Context, memberID uint64) (int, error) {
	rep, err := s.ReputationDAO.Get(ctx, memberID)
	if err != nil {
		return 0, err
	}
	if rep == nil {
		return 0, nil
	}
	return rep.Tier, nil
}

func (s *ReputationService) TopMembers(ctx context.Context, limit int) ([]*types.Reputation, error) {
	items, err := s.ReputationDAO.Top(ctx, s.Ranking.Feed.ClampLimit(limit))
	if err != nil {
		return nil, err
	}
	out := make([]*types.Reputation, 0, len(items))
	for _, it := range items {
		out = append(out, s.toReputation(it))
	}
	return out, nil
}

func (s *ReputationService) toReputation(rep *models.MemberReputation) *types.Reputation {
	return &types.Reputation{
		MemberID:                rep.MemberID,
		Tier:                    rep.Tier,
		TierName:                reputation.TierFor(s.Config.Tiers, rep.TierScore).Name,
		TierScore:               rep.TierScore,
		ShippingPoints:          rep.ShippingPoints,
		CommunityKarma:          rep.CommunityKarma,
		TrustScore:              rep.TrustScore,
		ExternalKarma:           rep.ExternalKarma,
		PromotionBoost:          rep.PromotionBoost,
		UniqueCommunitiesHelped: rep.UniqueCommunitiesHelped,
		VoteWeight:              reputation.VoteWeight(rep.Tier),
	}
}

// creditBestEffort 记账是主流程的附带动作, 失败只记日志
func creditBestEffort(op string, memberID uint64, fn func() (types.CreditResult, error)) {
	res, err := fn()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.L.Error("credit karma failed", zap.String("op", op), zap.Uint64("member_id", memberID), zap.Error(err))
		return
	}
	if err == nil && !res.Credited() {
		log.L.Debug("credit karma skipped", zap.String("op", op), zap.Uint64("member_id", memberID), zap.String("result", res.Result))
	}
}
