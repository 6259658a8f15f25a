package service

import (
	"Ideabox/internal/ranking"
	"Ideabox/internal/reputation"
	"Ideabox/models"
	"Ideabox/types"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summaryIDs(items []*types.IdeaSummary) []uint64 {
	out := make([]uint64, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func (e *testEnv) seedVote(t *testing.T, ideaID, voterID uint64, voteType string, at time.Time) {
	t.Helper()
	require.NoError(t, e.voteDAO.Create(context.Background(), &models.Vote{
		IdeaID:    ideaID,
		VoterID:   voterID,
		VoteType:  voteType,
		Weight:    1,
		CreatedAt: at,
		UpdatedAt: at,
	}))
}

func TestDiscovery_OrderedFeeds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	env.seedIdea(t, &models.Idea{ID: 1, AuthorID: 10, Title: "a", HotScore: 3, SupportVotes: 1, CreatedAt: now.Add(-3 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 2, AuthorID: 10, Title: "b", HotScore: 1, SupportVotes: 9, CreatedAt: now.Add(-1 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 3, AuthorID: 11, Title: "c", HotScore: 2, SupportVotes: 5, OpposeVotes: 1, CreatedAt: now.Add(-2 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 4, AuthorID: 11, Title: "closed", HotScore: 99, Status: models.IdeaStatusClosed, CreatedAt: now})
	env.seedIdea(t, &models.Idea{ID: 5, AuthorID: 11, Title: "launched", HotScore: 98, Status: models.IdeaStatusLaunched, CreatedAt: now})

	tests := []struct {
		kind string
		want []uint64
	}{
		{kind: types.FeedHot, want: []uint64{1, 3, 2}},
		{kind: types.FeedNew, want: []uint64{2, 3, 1}},
		{kind: types.FeedTop, want: []uint64{2, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			items, err := env.discovery.Feed(ctx, types.FeedParams{Kind: tt.kind})
			require.NoError(t, err)
			assert.Equal(t, tt.want, summaryIDs(items))
		})
	}

	items, err := env.discovery.Feed(ctx, types.FeedParams{Kind: types.FeedHot, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.NotEmpty(t, items[0].ShareCode)
}

func TestDiscovery_BadParams(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.discovery.Feed(ctx, types.FeedParams{Kind: "random"})
	assert.ErrorIs(t, err, ErrInvalidFeedKind)

	_, err = env.discovery.Feed(ctx, types.FeedParams{Kind: types.FeedForYou})
	assert.ErrorIs(t, err, ErrViewerRequired)

	_, err = env.discovery.Similar(ctx, 404, 5)
	assert.ErrorIs(t, err, ErrIdeaNotFound)
}

func TestDiscovery_Trending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	// 老创意总票数高但窗口内没有新票
	env.seedIdea(t, &models.Idea{ID: 1, AuthorID: 10, Title: "old", HotScore: 5, SupportVotes: 50, CreatedAt: now.Add(-200 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 2, AuthorID: 11, Title: "burst", HotScore: 1, SupportVotes: 3, CreatedAt: now.Add(-2 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 3, AuthorID: 12, Title: "slow", HotScore: 1, SupportVotes: 1, CreatedAt: now.Add(-2 * time.Hour)})

	env.seedVote(t, 1, 100, models.VoteSupport, now.Add(-100*time.Hour))
	for i := 0; i < 3; i++ {
		env.seedVote(t, 2, uint64(200+i), models.VoteSupport, now.Add(-30*time.Minute))
	}
	env.seedVote(t, 3, 300, models.VoteSupport, now.Add(-30*time.Minute))

	// 窗口 2 小时: burst 1.5/h, slow 0.5/h 恰好达到阈值
	items, err := env.discovery.Feed(ctx, types.FeedParams{Kind: types.FeedTrending, WindowHours: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, summaryIDs(items))
	assert.InDelta(t, 1.5, items[0].Score, 1e-9)
}

// 候选集很小时, 热度早已衰减的老创意只要近期票多仍能进入趋势
func TestDiscovery_TrendingBeyondCandidatePool(t *testing.T) {
	cfg := ranking.DefaultConfig()
	cfg.Feed = ranking.FeedConfig{DefaultLimit: 2, MaxLimit: 2, CandidatePool: 2}
	env := newTestEnvWith(t, cfg, reputation.DefaultConfig())
	ctx := context.Background()
	now := time.Now()

	env.seedIdea(t, &models.Idea{ID: 1, AuthorID: 10, Title: "old burst", HotScore: 0.01, SupportVotes: 10, CreatedAt: now.Add(-300 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 2, AuthorID: 11, Title: "new a", HotScore: 5, CreatedAt: now.Add(-3 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 3, AuthorID: 11, Title: "new b", HotScore: 5, CreatedAt: now.Add(-2 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 4, AuthorID: 11, Title: "new c", HotScore: 5, CreatedAt: now.Add(-1 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 5, AuthorID: 12, Title: "closed burst", Status: models.IdeaStatusClosed, CreatedAt: now.Add(-300 * time.Hour)})
	for i := 0; i < 10; i++ {
		env.seedVote(t, 1, uint64(100+i), models.VoteSupport, now.Add(-10*time.Minute))
		env.seedVote(t, 5, uint64(100+i), models.VoteSupport, now.Add(-10*time.Minute))
	}

	items, err := env.discovery.Feed(ctx, types.FeedParams{Kind: types.FeedTrending, WindowHours: 2})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, summaryIDs(items))
	assert.InDelta(t, 5.0, items[0].Score, 1e-9)

	ids, err := env.voteDAO.TrendingIdeaIDs(ctx, now.Add(-2*time.Hour), 11, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestDiscovery_AuthorTiers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	env.ledger(t, 11, 300)
	env.seedIdea(t, &models.Idea{ID: 1, AuthorID: 10, Title: "no ledger", HotScore: 2, CreatedAt: now})
	env.seedIdea(t, &models.Idea{ID: 2, AuthorID: 11, Title: "maker", HotScore: 1, CreatedAt: now})

	items, err := env.discovery.Feed(ctx, types.FeedParams{Kind: types.FeedHot})
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 2}, summaryIDs(items))
	assert.Equal(t, 0, items[0].AuthorTier)
	assert.Equal(t, "newcomer", items[0].AuthorTierName)
	assert.Equal(t, 3, items[1].AuthorTier)
	assert.Equal(t, "maker", items[1].AuthorTierName)

	similar, err := env.discovery.Similar(ctx, 2, 5)
	require.NoError(t, err)
	for _, it := range similar {
		assert.NotEmpty(t, it.AuthorTierName)
	}
}

func TestDiscovery_Rising(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	env.seedIdea(t, &models.Idea{ID: 1, AuthorID: 10, Title: "young hot", SupportVotes: 10, CreatedAt: now.Add(-2 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 2, AuthorID: 10, Title: "young cold", SupportVotes: 1, CreatedAt: now.Add(-2 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 3, AuthorID: 10, Title: "too old", SupportVotes: 500, CreatedAt: now.Add(-72 * time.Hour)})

	items, err := env.discovery.Feed(ctx, types.FeedParams{Kind: types.FeedRising})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, summaryIDs(items))
}

func TestDiscovery_ForYou(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()
	const viewer = 99

	env.seedIdea(t, &models.Idea{ID: 1, AuthorID: 10, Title: "liked", HotScore: 1, CreatedAt: now})
	env.seedIdea(t, &models.Idea{ID: 2, AuthorID: 10, Title: "fav author", HotScore: 1, CreatedAt: now})
	env.seedIdea(t, &models.Idea{ID: 3, AuthorID: 11, Title: "other", HotScore: 5, SupportVotes: 5, CreatedAt: now})
	env.seedIdea(t, &models.Idea{ID: 4, AuthorID: viewer, Title: "mine", HotScore: 50, CreatedAt: now})
	env.seedIdea(t, &models.Idea{ID: 5, AuthorID: 12, Title: "opposed", HotScore: 9, CreatedAt: now})

	env.seedVote(t, 1, viewer, models.VoteSupport, now)
	env.seedVote(t, 5, viewer, models.VoteOppose, now)

	items, err := env.discovery.Feed(ctx, types.FeedParams{Kind: types.FeedForYou, ViewerID: viewer, Limit: 10})
	require.NoError(t, err)
	// 已投票和自己的创意不出现, 喜欢的作者优先
	assert.Equal(t, []uint64{2, 3}, summaryIDs(items))
}

func TestDiscovery_Blend(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	env.seedIdea(t, &models.Idea{ID: 1, AuthorID: 10, Title: "a", HotScore: 2, CreatedAt: now.Add(-100 * time.Hour)})
	env.seedIdea(t, &models.Idea{ID: 2, AuthorID: 11, Title: "b", HotScore: 1.9, SupportVotes: 10, CreatedAt: now.Add(-time.Hour)})
	for i := 0; i < 30; i++ {
		env.seedVote(t, 2, uint64(100+i), models.VoteSupport, now.Add(-10*time.Minute))
	}

	first, err := env.discovery.Feed(ctx, types.FeedParams{Kind: types.FeedDiscovery})
	require.NoError(t, err)
	second, err := env.discovery.Feed(ctx, types.FeedParams{Kind: types.FeedDiscovery})
	require.NoError(t, err)

	// 趋势和上升加成把 b 推到前面, 抖动按 ID 固定
	assert.Equal(t, []uint64{2, 1}, summaryIDs(first))
	assert.Equal(t, summaryIDs(first), summaryIDs(second))
}

func TestDiscovery_Similar(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := time.Now()

	env.seedIdea(t, &models.Idea{ID: 1, AuthorID: 10, Title: "ref", SupportVotes: 8, OpposeVotes: 2, CreatedAt: now})
	env.seedIdea(t, &models.Idea{ID: 2, AuthorID: 10, Title: "sibling", HotScore: 1, CreatedAt: now})
	env.seedIdea(t, &models.Idea{ID: 3, AuthorID: 11, Title: "close ratio", SupportVotes: 4, OpposeVotes: 1, CreatedAt: now})
	env.seedIdea(t, &models.Idea{ID: 4, AuthorID: 12, Title: "far ratio", SupportVotes: 1, OpposeVotes: 4, CreatedAt: now})
	env.seedIdea(t, &models.Idea{ID: 5, AuthorID: 13, Title: "quiet", CreatedAt: now})

	items, err := env.discovery.Similar(ctx, 1, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3, 4}, summaryIDs(items))
}
