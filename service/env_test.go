package service

import (
	"Ideabox/config"
	"Ideabox/dao"
	"Ideabox/dao/cache"
	"Ideabox/internal/ranking"
	"Ideabox/internal/reputation"
	"Ideabox/models"
	"Ideabox/pkg/database"
	"Ideabox/types"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingPublisher) Publish(_ context.Context, e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingPublisher) count(typ string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

type testEnv struct {
	db        *gorm.DB
	ideaDAO   *dao.IdeaDAO
	voteDAO   *dao.VoteDAO
	repDAO    *dao.ReputationDAO
	events    *recordingPublisher
	rep       *ReputationService
	ideas     *IdeaService
	votes     *VoteService
	discovery *DiscoveryService
	sweep     *SweepService
	redis     *miniredis.Miniredis
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库绑定在单个连接上
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, ranking.DefaultConfig(), reputation.DefaultConfig())
}

func newTestEnvWith(t *testing.T, rankCfg ranking.Config, repCfg reputation.Config) *testEnv {
	t.Helper()
	db := newTestDB(t)

	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })

	conf := &config.Config{
		App:        &config.App{Env: "test", HashSalt: "test-salt"},
		Sweep:      &config.Sweep{BatchSize: 3, Concurrency: 2, LeaseTTL: 60},
		Ranking:    rankCfg,
		Reputation: repCfg,
	}

	env := &testEnv{
		db:      db,
		ideaDAO: dao.NewIdeaDAO(db),
		voteDAO: dao.NewVoteDAO(db),
		repDAO:  dao.NewReputationDAO(db),
		events:  &recordingPublisher{},
		redis:   mr,
	}
	env.rep = &ReputationService{DB: db, ReputationDAO: env.repDAO, Config: repCfg, Ranking: rankCfg}
	env.ideas = &IdeaService{
		Config:        conf,
		DB:            db,
		IdeaDAO:       env.ideaDAO,
		CommentDAO:    dao.NewCommentDAO(db),
		Reputation:    env.rep,
		Events:        env.events,
		Ranking:       rankCfg,
		ReputationCfg: repCfg,
	}
	env.votes = &VoteService{
		DB:            db,
		IdeaDAO:       env.ideaDAO,
		VoteDAO:       env.voteDAO,
		Reputation:    env.rep,
		Events:        env.events,
		Ranking:       rankCfg,
		ReputationCfg: repCfg,
	}
	env.discovery = &DiscoveryService{
		Config:        conf,
		IdeaDAO:       env.ideaDAO,
		VoteDAO:       env.voteDAO,
		ReputationDAO: env.repDAO,
		Ranking:       rankCfg,
		Reputation:    repCfg,
	}
	env.sweep = &SweepService{
		IdeaDAO: env.ideaDAO,
		Lease:   cache.NewLeaseStorage(rds),
		Sweep:   conf.Sweep,
		Ranking: rankCfg,
	}
	return env
}

func (e *testEnv) submit(t *testing.T, authorID uint64, title string) uint64 {
	t.Helper()
	id, err := e.ideas.Submit(context.Background(), authorID, &types.SubmitIdeaRequest{AuthorID: authorID, Title: title})
	require.NoError(t, err)
	return id
}

// ledger 建账本并记入社区声望, 用来控制等级
func (e *testEnv) ledger(t *testing.T, memberID uint64, karma int64) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.rep.EnsureLedger(ctx, memberID))
	if karma > 0 {
		res, err := e.rep.CreditKarma(ctx, memberID, karma, "seed")
		require.NoError(t, err)
		require.True(t, res.Credited())
	}
}

func (e *testEnv) idea(t *testing.T, id uint64) *models.Idea {
	t.Helper()
	idea, err := e.ideaDAO.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, idea)
	return idea
}

// seedIdea 直接写库, 用于控制创建时间和计数
func (e *testEnv) seedIdea(t *testing.T, idea *models.Idea) *models.Idea {
	t.Helper()
	if idea.Status == "" {
		idea.Status = models.IdeaStatusOpen
	}
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = time.Now()
	}
	require.NoError(t, e.ideaDAO.Create(context.Background(), idea))
	return idea
}
