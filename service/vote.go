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
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var _ IVoteService = (*VoteService)(nil)

type IVoteService interface {
	// Cast 投票或改票, 同一成员对同一创意只有一条记录
	Cast(ctx context.Context, ideaID, voterID uint64, voteType, reason string) (*types.VoteResult, error)
	// Remove 撤票, 按投票时的权重扣减
	Remove(ctx context.Context, ideaID, voterID uint64) error
}

type VoteService struct {
	DB            *gorm.DB
	IdeaDAO       *dao.IdeaDAO
	VoteDAO       *dao.VoteDAO
	Reputation    IReputationService
	Events        EventPublisher
	Ranking       ranking.Config
	ReputationCfg reputation.Config
}

type voteOutcome struct {
	idea      *models.Idea
	weight    int
	changed   bool
	validated bool
}

func (s *VoteService) effects() validatedEffects {
	return validatedEffects{Reputation: s.Reputation, Events: s.Events, Bonus: s.ReputationCfg.Rewards.ValidationBonus}
}

func (s *VoteService) Cast(ctx context.Context, ideaID, voterID uint64, voteType, reason string) (*types.VoteResult, error) {
	if !models.ValidVoteType(voteType) {
		return nil, ErrInvalidVoteType
	}
	reason = strings.TrimSpace(reason)

	tier, err := s.Reputation.TierOf(ctx, voterID)
	if err != nil {
		return nil, fmt.Errorf("load voter tier: %w", err)
	}

	out, err := writeIdea(ctx, s.DB, func(ctx context.Context) (*voteOutcome, error) {
		idea, err := s.IdeaDAO.GetByID(ctx, ideaID)
		if err != nil {
			return nil, err
		}
		if idea == nil {
			return nil, ErrIdeaNotFound
		}
		if idea.Closed() {
			return nil, ErrIdeaClosed
		}
		if idea.AuthorID == voterID {
			return nil, ErrSelfVote
		}

		now := time.Now()
		out := &voteOutcome{idea: idea}

		existing, err := s.VoteDAO.GetByIdeaVoter(ctx, ideaID, voterID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.VoteType == voteType {
				return nil, ErrDuplicateDirection
			}
			// 改票沿用原权重, 不重新发奖励
			moveTally(idea, existing.VoteType, voteType, int64(existing.Weight))
			if err := s.VoteDAO.SwitchDirection(ctx, existing, voteType, now); err != nil {
				return nil, err
			}
			out.weight = existing.Weight
			out.changed = true
		} else {
			if tier < s.ReputationCfg.MinVoteTier {
				return nil, ErrInsufficientTier
			}
			v := &models.Vote{
				IdeaID:    ideaID,
				VoterID:   voterID,
				VoteType:  voteType,
				Reason:    reason,
				Weight:    reputation.VoteWeight(tier),
				CreatedAt: now,
				UpdatedAt: now,
			}
			// 并发重复插入会命中唯一键, 由外层重试转为改票语义
			if err := s.VoteDAO.Create(ctx, v); err != nil {
				return nil, err
			}
			addTally(idea, voteType, int64(v.Weight))
			out.weight = v.Weight
		}

		out.validated = settle(idea, s.Ranking, now)
		ok, err := s.IdeaDAO.CompareAndSwap(ctx, idea)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errStale
		}
		return out, nil
	})
	if err != nil {
		voteOps.WithLabelValues("cast", resultLabel(err)).Inc()
		return nil, err
	}

	op := "cast"
	if out.changed {
		op = "change"
	}
	voteOps.WithLabelValues(op, "ok").Inc()
	log.L.Info("vote accepted",
		zap.Uint64("idea_id", ideaID),
		zap.Uint64("voter_id", voterID),
		zap.String("vote_type", voteType),
		zap.Int("weight", out.weight),
		zap.Bool("changed", out.changed),
	)

	if !out.changed {
		points := s.ReputationCfg.Rewards.ForVote(reason)
		creditBestEffort("vote", voterID, func() (types.CreditResult, error) {
			return s.Reputation.CreditExternalKarma(ctx, voterID, points, out.idea.AuthorID, fmt.Sprintf("vote:%d", ideaID))
		})
	}
	if out.validated {
		s.effects().apply(ctx, out.idea)
	}
	s.Events.Publish(ctx, NewEvent(EventVoteCast, ideaID, voterID, map[string]any{
		"vote_type": voteType,
		"weight":    out.weight,
		"changed":   out.changed,
	}))

	return &types.VoteResult{
		Accepted: true,
		Weight:   out.weight,
		Changed:  out.changed,
		Status:   out.idea.Status,
	}, nil
}

func (s *VoteService) Remove(ctx context.Context, ideaID, voterID uint64) error {
	removed, err := writeIdea(ctx, s.DB, func(ctx context.Context) (*models.Vote, error) {
		idea, err := s.IdeaDAO.GetByID(ctx, ideaID)
		if err != nil {
			return nil, err
		}
		if idea == nil {
			return nil, ErrIdeaNotFound
		}
		if idea.Closed() {
			return nil, ErrIdeaClosed
		}

		v, err := s.VoteDAO.GetByIdeaVoter(ctx, ideaID, voterID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, ErrVoteNotFound
		}
		if _, err := s.VoteDAO.DeleteByID(ctx, v.ID); err != nil {
			return nil, err
		}

		// 验证状态不回退, settle 只处理 open
		removeTally(idea, v.VoteType, int64(v.Weight))
		settle(idea, s.Ranking, time.Now())
		ok, err := s.IdeaDAO.CompareAndSwap(ctx, idea)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errStale
		}
		return v, nil
	})
	if err != nil {
		voteOps.WithLabelValues("remove", resultLabel(err)).Inc()
		return err
	}

	voteOps.WithLabelValues("remove", "ok").Inc()
	s.Events.Publish(ctx, NewEvent(EventVoteRemoved, ideaID, voterID, map[string]any{
		"vote_type": removed.VoteType,
		"weight":    removed.Weight,
	}))
	return nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrDuplicateDirection):
		return "duplicate"
	case errors.Is(err, ErrIdeaClosed):
		return "closed"
	case errors.Is(err, ErrIdeaNotFound), errors.Is(err, ErrVoteNotFound):
		return "not_found"
	case errors.Is(err, ErrSelfVote), errors.Is(err, ErrInsufficientTier):
		return "forbidden"
	case errors.Is(err, ErrWriteConflict):
		return "conflict"
	}
	return "error"
}
