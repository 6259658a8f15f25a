package service

import (
	"Ideabox/config"
	"Ideabox/dao"
	"Ideabox/internal/ranking"
	"Ideabox/internal/reputation"
	"Ideabox/models"
	"Ideabox/pkg/log"
	"Ideabox/pkg/snowflake"
	"Ideabox/pkg/utils"
	"Ideabox/types"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var _ IIdeaService = (*IdeaService)(nil)

type IIdeaService interface {
	Submit(ctx context.Context, authorID uint64, req *types.SubmitIdeaRequest) (uint64, error)
	Get(ctx context.Context, ideaID uint64) (*types.IdeaDetail, error)
	// GetByShareCode 分享码还原后查询
	GetByShareCode(ctx context.Context, code string) (*types.IdeaDetail, error)
	Edit(ctx context.Context, ideaID, actorID uint64, req *types.EditIdeaRequest) (*types.IdeaDetail, error)
	Launch(ctx context.Context, ideaID, actorID uint64) (*types.TransitionResult, error)
	Close(ctx context.Context, ideaID, actorID uint64) (*types.TransitionResult, error)

	AddComment(ctx context.Context, ideaID, authorID uint64, content string) (*types.CommentItem, error)
	ListComments(ctx context.Context, ideaID, cursor uint64, limit int) (*types.ListCommentsResponse, error)
}

type IdeaService struct {
	Config        *config.Config
	DB            *gorm.DB
	IdeaDAO       *dao.IdeaDAO
	CommentDAO    *dao.CommentDAO
	Reputation    IReputationService
	Events        EventPublisher
	Ranking       ranking.Config
	ReputationCfg reputation.Config
}

func (s *IdeaService) salt() string {
	if s.Config != nil && s.Config.App != nil {
		return s.Config.App.HashSalt
	}
	return ""
}

func (s *IdeaService) effects() validatedEffects {
	return validatedEffects{Reputation: s.Reputation, Events: s.Events, Bonus: s.ReputationCfg.Rewards.ValidationBonus}
}

func normalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) > types.TagMaxCount {
		return nil, ErrTooManyTags
	}
	return out, nil
}

func checkTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleEmpty
	}
	if utf8.RuneCountInString(title) > types.TitleMaxRunes {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func checkBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) > types.BodyMaxRunes {
		return "", ErrBodyTooLong
	}
	return body, nil
}

func (s *IdeaService) Submit(ctx context.Context, authorID uint64, req *types.SubmitIdeaRequest) (uint64, error) {
	if authorID == 0 {
		return 0, ErrInvalidMemberID
	}
	title, err := checkTitle(req.Title)
	if err != nil {
		return 0, err
	}
	body, err := checkBody(req.Body)
	if err != nil {
		return 0, err
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	idea := &models.Idea{
		ID:        uint64(snowflake.GenID()),
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		Tags:      datatypes.JSONSlice[string](tags),
		Status:    models.IdeaStatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	idea.HotScore = ranking.HotScore(s.Ranking.Hot, 0, 0, idea.CreatedAt, now)

	err = dao.Transaction(ctx, s.DB, func(ctx context.Context) error {
		// 首次提交即建账本
		if err := s.Reputation.EnsureLedger(ctx, authorID); err != nil {
			return err
		}
		return s.IdeaDAO.Create(ctx, idea)
	})
	if err != nil {
		return 0, fmt.Errorf("submit idea: %w", err)
	}

	log.L.Info("idea submitted", zap.Uint64("idea_id", idea.ID), zap.Uint64("author_id", authorID))
	s.Events.Publish(ctx, NewEvent(EventIdeaSubmitted, idea.ID, authorID, nil))
	return idea.ID, nil
}

func (s *IdeaService) Get(ctx context.Context, ideaID uint64) (*types.IdeaDetail, error) {
	idea, err := s.IdeaDAO.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea == nil {
		return nil, ErrIdeaNotFound
	}
	d := s.detail(idea)
	s.fillAuthorTier(ctx, d)
	return d, nil
}

// fillAuthorTier 作者没有账本时按最低等级展示, 读取失败只记日志
func (s *IdeaService) fillAuthorTier(ctx context.Context, d *types.IdeaDetail) {
	rep, err := s.Reputation.GetReputation(ctx, d.AuthorID)
	switch {
	case errors.Is(err, ErrLedgerNotFound):
		lowest := reputation.TierFor(s.ReputationCfg.Tiers, 0)
		d.AuthorTier, d.AuthorTierName = lowest.Level, lowest.Name
	case err != nil:
		log.L.Warn("load author tier failed", zap.Uint64("idea_id", d.ID), zap.Error(err))
	default:
		d.AuthorTier, d.AuthorTierName = rep.Tier, rep.TierName
	}
}

func (s *IdeaService) GetByShareCode(ctx context.Context, code string) (*types.IdeaDetail, error) {
	id, err := utils.DecodeHashID(s.salt(), code)
	if err != nil {
		return nil, ErrInvalidShareCode
	}
	return s.Get(ctx, id)
}

func (s *IdeaService) detail(idea *models.Idea) *types.IdeaDetail {
	return &types.IdeaDetail{
		IdeaSummary: *toSummary(idea, s.salt(), idea.HotScore),
		Body:        idea.Body,
		ValidatedAt: idea.ValidatedAt,
		LaunchedAt:  idea.LaunchedAt,
		ClosedAt:    idea.ClosedAt,
		Validation:  s.Ranking.Validation.Evaluate(idea.SupportVotes, idea.OpposeVotes, idea.CommentCount),
	}
}

// loadOwned 读取创意并校验作者身份
func (s *IdeaService) loadOwned(ctx context.Context, ideaID, actorID uint64) (*models.Idea, error) {
	idea, err := s.IdeaDAO.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea == nil {
		return nil, ErrIdeaNotFound
	}
	if idea.AuthorID != actorID {
		return nil, ErrNotAuthor
	}
	return idea, nil
}

func (s *IdeaService) cas(ctx context.Context, idea *models.Idea) error {
	ok, err := s.IdeaDAO.CompareAndSwap(ctx, idea)
	if err != nil {
		return err
	}
	if !ok {
		return errStale
	}
	return nil
}

func (s *IdeaService) Edit(ctx context.Context, ideaID, actorID uint64, req *types.EditIdeaRequest) (*types.IdeaDetail, error) {
	if req.Title == nil && req.Body == nil && req.Tags == nil {
		return nil, ErrNothingToEdit
	}

	idea, err := writeIdea(ctx, s.DB, func(ctx context.Context) (*models.Idea, error) {
		idea, err := s.loadOwned(ctx, ideaID, actorID)
		if err != nil {
			return nil, err
		}
		if idea.Status == models.IdeaStatusClosed {
			return nil, ErrIdeaClosed
		}
		if req.Title != nil {
			if idea.Title, err = checkTitle(*req.Title); err != nil {
				return nil, err
			}
		}
		if req.Body != nil {
			if idea.Body, err = checkBody(*req.Body); err != nil {
				return nil, err
			}
		}
		if req.Tags != nil {
			tags, err := normalizeTags(req.Tags)
			if err != nil {
				return nil, err
			}
			idea.Tags = tags
		}
		return idea, s.cas(ctx, idea)
	})
	if err != nil {
		return nil, err
	}
	d := s.detail(idea)
	s.fillAuthorTier(ctx, d)
	return d, nil
}

// Launch validated -> launched, 作者获得一次上线奖励
func (s *IdeaService) Launch(ctx context.Context, ideaID, actorID uint64) (*types.TransitionResult, error) {
	idea, err := writeIdea(ctx, s.DB, func(ctx context.Context) (*models.Idea, error) {
		idea, err := s.loadOwned(ctx, ideaID, actorID)
		if err != nil {
			return nil, err
		}
		switch idea.Status {
		case models.IdeaStatusValidated:
		case models.IdeaStatusClosed:
			return nil, ErrIdeaClosed
		default:
			return nil, ErrInvalidTransition
		}
		now := time.Now()
		idea.Status = models.IdeaStatusLaunched
		idea.LaunchedAt = &now
		return idea, s.cas(ctx, idea)
	})
	if err != nil {
		return nil, err
	}

	ideaTransitions.WithLabelValues(models.IdeaStatusLaunched).Inc()
	creditBestEffort("launch_bonus", idea.AuthorID, func() (types.CreditResult, error) {
		return s.Reputation.CreditOnce(ctx, idea.AuthorID, models.KarmaKindShipping, s.ReputationCfg.Rewards.LaunchBonus, launchSource(idea.ID))
	})
	s.Events.Publish(ctx, NewEvent(EventIdeaLaunched, idea.ID, actorID, nil))
	return &types.TransitionResult{ID: idea.ID, Status: idea.Status}, nil
}

// Close open|validated -> closed, 终态
func (s *IdeaService) Close(ctx context.Context, ideaID, actorID uint64) (*types.TransitionResult, error) {
	idea, err := writeIdea(ctx, s.DB, func(ctx context.Context) (*models.Idea, error) {
		idea, err := s.loadOwned(ctx, ideaID, actorID)
		if err != nil {
			return nil, err
		}
		switch idea.Status {
		case models.IdeaStatusOpen, models.IdeaStatusValidated:
		case models.IdeaStatusClosed:
			return nil, ErrIdeaClosed
		default:
			return nil, ErrInvalidTransition
		}
		now := time.Now()
		idea.Status = models.IdeaStatusClosed
		idea.ClosedAt = &now
		return idea, s.cas(ctx, idea)
	})
	if err != nil {
		return nil, err
	}

	ideaTransitions.WithLabelValues(models.IdeaStatusClosed).Inc()
	s.Events.Publish(ctx, NewEvent(EventIdeaClosed, idea.ID, actorID, nil))
	return &types.TransitionResult{ID: idea.ID, Status: idea.Status}, nil
}

type commentOutcome struct {
	idea      *models.Idea
	comment   *models.Comment
	validated bool
}

// AddComment 评论计入热度和验证条件, 评论者获得声望
func (s *IdeaService) AddComment(ctx context.Context, ideaID, authorID uint64, content string) (*types.CommentItem, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}
	if utf8.RuneCountInString(content) > types.CommentMaxRunes {
		return nil, ErrCommentTooLong
	}

	out, err := writeIdea(ctx, s.DB, func(ctx context.Context) (*commentOutcome, error) {
		idea, err := s.IdeaDAO.GetByID(ctx, ideaID)
		if err != nil {
			return nil, err
		}
		if idea == nil {
			return nil, ErrIdeaNotFound
		}
		if idea.Status == models.IdeaStatusClosed {
			return nil, ErrIdeaClosed
		}

		now := time.Now()
		c := &models.Comment{
			ID:        uint64(snowflake.GenID()),
			IdeaID:    ideaID,
			AuthorID:  authorID,
			Content:   content,
			CreatedAt: now,
		}
		if err := s.CommentDAO.Create(ctx, c); err != nil {
			return nil, err
		}

		idea.CommentCount++
		validated := settle(idea, s.Ranking, now)
		if err := s.cas(ctx, idea); err != nil {
			return nil, err
		}
		return &commentOutcome{idea: idea, comment: c, validated: validated}, nil
	})
	if err != nil {
		return nil, err
	}

	points := s.ReputationCfg.Rewards.Comment
	source := fmt.Sprintf("comment:%d", out.comment.ID)
	creditBestEffort("comment", authorID, func() (types.CreditResult, error) {
		if out.idea.AuthorID == authorID {
			return s.Reputation.CreditKarma(ctx, authorID, points, source)
		}
		return s.Reputation.CreditExternalKarma(ctx, authorID, points, out.idea.AuthorID, source)
	})
	if out.validated {
		s.effects().apply(ctx, out.idea)
	}
	s.Events.Publish(ctx, NewEvent(EventCommentAdded, ideaID, authorID, map[string]any{"comment_id": out.comment.ID}))
	return toComment(out.comment), nil
}

func (s *IdeaService) ListComments(ctx context.Context, ideaID, cursor uint64, limit int) (*types.ListCommentsResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	exist, err := s.IdeaDAO.IsExist(ctx, "id = ?", ideaID)
	if err != nil {
		return nil, err
	}
	if !exist {
		return nil, ErrIdeaNotFound
	}

	// 多取一条判断是否还有下一页
	items, err := s.CommentDAO.ListByIdea(ctx, ideaID, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	resp := &types.ListCommentsResponse{Items: make([]*types.CommentItem, 0, limit)}
	if len(items) > limit {
		resp.HasMore = true
		items = items[:limit]
	}
	for _, c := range items {
		resp.Items = append(resp.Items, toComment(c))
	}
	if len(items) > 0 {
		resp.NextCursor = items[len(items)-1].ID
	}
	return resp, nil
}
