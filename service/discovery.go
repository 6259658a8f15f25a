package service

import (
	"Ideabox/config"
	"Ideabox/dao"
	"Ideabox/internal/ranking"
	"Ideabox/internal/reputation"
	"Ideabox/models"
	"Ideabox/pkg/log"
	"Ideabox/types"
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var _ IDiscoveryService = (*DiscoveryService)(nil)

// IDiscoveryService 只读, 不加锁, 允许读到略旧的计数
type IDiscoveryService interface {
	Feed(ctx context.Context, params types.FeedParams) ([]*types.IdeaSummary, error)
	Similar(ctx context.Context, ideaID uint64, limit int) ([]*types.IdeaSummary, error)
}

type DiscoveryService struct {
	Config        *config.Config
	IdeaDAO       *dao.IdeaDAO
	VoteDAO       *dao.VoteDAO
	ReputationDAO *dao.ReputationDAO
	Ranking       ranking.Config
	Reputation    reputation.Config
}

func (s *DiscoveryService) salt() string {
	if s.Config != nil && s.Config.App != nil {
		return s.Config.App.HashSalt
	}
	return ""
}

func (s *DiscoveryService) Feed(ctx context.Context, p types.FeedParams) ([]*types.IdeaSummary, error) {
	items, err := s.feed(ctx, p)
	if err != nil {
		return nil, err
	}
	s.fillAuthorTiers(ctx, items)
	return items, nil
}

func (s *DiscoveryService) feed(ctx context.Context, p types.FeedParams) ([]*types.IdeaSummary, error) {
	if !types.ValidFeedKind(p.Kind) {
		return nil, ErrInvalidFeedKind
	}
	if p.Kind == types.FeedForYou && p.ViewerID == 0 {
		return nil, ErrViewerRequired
	}

	limit := s.Ranking.Feed.ClampLimit(p.Limit)
	windowHours := p.WindowHours
	if windowHours <= 0 {
		windowHours = s.Ranking.Trending.WindowHours
	}
	maxAgeHours := p.MaxAgeHours
	if maxAgeHours <= 0 {
		maxAgeHours = s.Ranking.Rising.MaxAgeHours
	}
	now := time.Now()

	switch p.Kind {
	case types.FeedHot:
		return s.ordered(ctx, dao.OrderHot, limit, ranking.Hot)
	case types.FeedNew:
		return s.ordered(ctx, dao.OrderNew, limit, ranking.New)
	case types.FeedTop:
		return s.ordered(ctx, dao.OrderTop, limit, ranking.Top)

	case types.FeedTrending:
		pool, votes, err := s.trendingPool(ctx, now, windowHours)
		if err != nil {
			return nil, err
		}
		scored := ranking.Trending(toItems(pool), votes, windowHours, s.Ranking.Trending, limit)
		return toSummaries(scored, byID(pool), s.salt()), nil

	case types.FeedRising:
		pool, err := s.IdeaDAO.ListActiveSince(ctx, now.Add(-hours(maxAgeHours)), s.Ranking.Feed.CandidatePool)
		if err != nil {
			return nil, err
		}
		scored := ranking.Rising(toItems(pool), now, maxAgeHours, s.Ranking.Rising, limit)
		return toSummaries(scored, byID(pool), s.salt()), nil

	case types.FeedForYou:
		return s.forYou(ctx, p.ViewerID, limit)

	case types.FeedDiscovery:
		pool, votes, err := s.trendingPool(ctx, now, windowHours)
		if err != nil {
			return nil, err
		}
		cfg := s.Ranking
		cfg.Trending.WindowHours = windowHours
		cfg.Rising.MaxAgeHours = maxAgeHours
		scored := ranking.Discovery(toItems(pool), votes, now, cfg, limit)
		return toSummaries(scored, byID(pool), s.salt()), nil
	}
	return nil, ErrInvalidFeedKind
}

// ordered 数据库已按相同规则排序, 这里只补齐分数和稳定的并列顺序
func (s *DiscoveryService) ordered(ctx context.Context, order string, limit int, view func([]ranking.Item, int) []ranking.Scored) ([]*types.IdeaSummary, error) {
	ideas, err := s.IdeaDAO.ListActive(ctx, order, limit)
	if err != nil {
		return nil, err
	}
	return toSummaries(view(toItems(ideas), limit), byID(ideas), s.salt()), nil
}

// candidatePool 最热与最新两路候选合并去重, 新创意即使热度不高也能进入趋势计算
func (s *DiscoveryService) candidatePool(ctx context.Context) ([]*models.Idea, error) {
	var hot, fresh []*models.Idea
	size := s.Ranking.Feed.CandidatePool

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		hot, err = s.IdeaDAO.ListActive(ctx, dao.OrderHot, size)
		return err
	})
	eg.Go(func() error {
		var err error
		fresh, err = s.IdeaDAO.ListActive(ctx, dao.OrderNew, size)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return mergeIdeas(hot, fresh), nil
}

// trendingPool 热度/最新候选集加上窗口内投票达标的创意, 并返回窗口内票数
// 热度已衰减的老创意只要近期票多也会被纳入
func (s *DiscoveryService) trendingPool(ctx context.Context, now time.Time, windowHours float64) ([]*models.Idea, map[uint64]int64, error) {
	since := now.Add(-hours(windowHours))
	minVotes := ranking.MinWindowVotes(windowHours, s.Ranking.Trending)

	var (
		pool     []*models.Idea
		bursting []*models.Idea
	)
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		pool, err = s.candidatePool(gctx)
		return err
	})
	eg.Go(func() error {
		ids, err := s.VoteDAO.TrendingIdeaIDs(gctx, since, minVotes, s.Ranking.Feed.CandidatePool)
		if err != nil {
			return err
		}
		bursting, err = s.IdeaDAO.ListActiveByIDs(gctx, ids)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	all := mergeIdeas(bursting, pool)
	votes, err := s.VoteDAO.CountSince(ctx, ideaIDs(all), since)
	if err != nil {
		return nil, nil, err
	}
	return all, votes, nil
}

func (s *DiscoveryService) forYou(ctx context.Context, viewerID uint64, limit int) ([]*types.IdeaSummary, error) {
	var (
		pool    []*models.Idea
		voted   []uint64
		authors []uint64
	)

	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		pool, err = s.candidatePool(gctx)
		return err
	})
	eg.Go(func() error {
		var err error
		voted, err = s.VoteDAO.VotedIdeaIDs(gctx, viewerID)
		return err
	})
	eg.Go(func() error {
		var err error
		authors, err = s.VoteDAO.SupportedAuthorIDs(gctx, viewerID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	viewer := ranking.Viewer{
		ID:              viewerID,
		Voted:           toSet(voted),
		FavoriteAuthors: toSet(authors),
	}
	scored := ranking.ForYou(toItems(pool), viewer, limit, s.Ranking.ForYou)
	return toSummaries(scored, byID(pool), s.salt()), nil
}

func (s *DiscoveryService) Similar(ctx context.Context, ideaID uint64, limit int) ([]*types.IdeaSummary, error) {
	limit = s.Ranking.Feed.ClampLimit(limit)

	ref, err := s.IdeaDAO.GetByID(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, ErrIdeaNotFound
	}

	var sameAuthor, pool []*models.Idea
	eg, gctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		sameAuthor, err = s.IdeaDAO.ListActiveByAuthor(gctx, ref.AuthorID, limit+1)
		return err
	})
	eg.Go(func() error {
		var err error
		pool, err = s.IdeaDAO.ListActive(gctx, dao.OrderHot, s.Ranking.Feed.CandidatePool)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	all := mergeIdeas(sameAuthor, pool)
	scored := ranking.Similar(toItem(ref), toItems(all), limit, s.Ranking.Similar)
	items := toSummaries(scored, byID(all), s.salt())
	s.fillAuthorTiers(ctx, items)
	return items, nil
}

// fillAuthorTiers 批量补作者等级, 失败只记日志, 不影响信息流
func (s *DiscoveryService) fillAuthorTiers(ctx context.Context, items []*types.IdeaSummary) {
	if s.ReputationDAO == nil || len(items) == 0 {
		return
	}
	authors := make([]uint64, 0, len(items))
	seen := make(map[uint64]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.AuthorID]; ok {
			continue
		}
		seen[it.AuthorID] = struct{}{}
		authors = append(authors, it.AuthorID)
	}

	ledgers, err := s.ReputationDAO.GetMany(ctx, authors)
	if err != nil {
		log.L.Warn("load author tiers failed", zap.Int("authors", len(authors)), zap.Error(err))
		return
	}
	for _, it := range items {
		var score float64
		if rep, ok := ledgers[it.AuthorID]; ok {
			score = rep.TierScore
		}
		tier := reputation.TierFor(s.Reputation.Tiers, score)
		it.AuthorTier = tier.Level
		it.AuthorTierName = tier.Name
	}
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}

func ideaIDs(ideas []*models.Idea) []uint64 {
	out := make([]uint64, 0, len(ideas))
	for _, it := range ideas {
		out = append(out, it.ID)
	}
	return out
}

func byID(ideas []*models.Idea) map[uint64]*models.Idea {
	out := make(map[uint64]*models.Idea, len(ideas))
	for _, it := range ideas {
		out[it.ID] = it
	}
	return out
}

func mergeIdeas(lists ...[]*models.Idea) []*models.Idea {
	seen := make(map[uint64]struct{})
	out := make([]*models.Idea, 0)
	for _, l := range lists {
		for _, it := range l {
			if _, ok := seen[it.ID]; ok {
				continue
			}
			seen[it.ID] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}

func toSet(ids []uint64) map[uint64]struct{} {
	out := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
