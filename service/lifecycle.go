package service

import (
	"Ideabox/internal/ranking"
	"Ideabox/models"
	"Ideabox/types"
	"context"
	"time"
)

// settle 计数变化后重算热度, 并检查 open -> validated
// 返回 true 表示本次写入触发了验证
func settle(idea *models.Idea, cfg ranking.Config, now time.Time) bool {
	idea.HotScore = ranking.HotScore(cfg.Hot, idea.SupportVotes-idea.OpposeVotes, idea.CommentCount, idea.CreatedAt, now)

	if idea.Status != models.IdeaStatusOpen {
		return false
	}
	if !cfg.Validation.Passes(idea.SupportVotes, idea.OpposeVotes, idea.CommentCount) {
		return false
	}
	idea.Status = models.IdeaStatusValidated
	idea.ValidatedAt = &now
	return true
}

// subtractClamped 撤票时扣减, 不低于 0
func subtractClamped(v, w int64) int64 {
	if v-w < 0 {
		return 0
	}
	return v - w
}

// addTally / moveTally 按方向调整加权票数
func addTally(idea *models.Idea, voteType string, weight int64) {
	if voteType == models.VoteSupport {
		idea.SupportVotes += weight
	} else {
		idea.OpposeVotes += weight
	}
}

func removeTally(idea *models.Idea, voteType string, weight int64) {
	if voteType == models.VoteSupport {
		idea.SupportVotes = subtractClamped(idea.SupportVotes, weight)
	} else {
		idea.OpposeVotes = subtractClamped(idea.OpposeVotes, weight)
	}
}

func moveTally(idea *models.Idea, from, to string, weight int64) {
	removeTally(idea, from, weight)
	addTally(idea, to, weight)
}

// validatedEffects 验证通过后的附带动作: 作者奖励一次, 发事件
type validatedEffects struct {
	Reputation IReputationService
	Events     EventPublisher
	Bonus      int64
}

func (v validatedEffects) apply(ctx context.Context, idea *models.Idea) {
	ideaTransitions.WithLabelValues(models.IdeaStatusValidated).Inc()
	creditBestEffort("validation_bonus", idea.AuthorID, func() (types.CreditResult, error) {
		return v.Reputation.CreditOnce(ctx, idea.AuthorID, models.KarmaKindCommunity, v.Bonus, validationSource(idea.ID))
	})
	v.Events.Publish(ctx, NewEvent(EventIdeaValidated, idea.ID, idea.AuthorID, map[string]any{
		"support_votes": idea.SupportVotes,
		"oppose_votes":  idea.OpposeVotes,
		"comment_count": idea.CommentCount,
	}))
}
