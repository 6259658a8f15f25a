package service

import (
	"Ideabox/models"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fastRetry 缩短退避间隔, 重试次数保持不变
func fastRetry(t *testing.T) {
	t.Helper()
	initial, maxIv := initialInterval, maxInterval
	initialInterval, maxInterval = time.Millisecond, 2*time.Millisecond
	t.Cleanup(func() { initialInterval, maxInterval = initial, maxIv })
}

func TestWriteIdea_RetriesRetryableErrors(t *testing.T) {
	fastRetry(t)
	env := newTestEnv(t)

	tests := []struct {
		name  string
		first error
	}{
		{name: "stale version", first: errStale},
		{name: "duplicate key", first: gorm.ErrDuplicatedKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			got, err := writeIdea(context.Background(), env.db, func(ctx context.Context) (string, error) {
				attempts++
				if attempts == 1 {
					return "", tt.first
				}
				return "ok", nil
			})
			require.NoError(t, err)
			assert.Equal(t, "ok", got)
			assert.Equal(t, 2, attempts)
		})
	}
}

func TestWriteIdea_ExhaustedRetriesMapToConflict(t *testing.T) {
	fastRetry(t)
	env := newTestEnv(t)

	attempts := 0
	got, err := writeIdea(context.Background(), env.db, func(ctx context.Context) (int, error) {
		attempts++
		return 7, errStale
	})
	assert.ErrorIs(t, err, ErrWriteConflict)
	assert.Zero(t, got)
	assert.EqualValues(t, maxRetries+1, attempts)
}

func TestWriteIdea_PermanentErrorNotRetried(t *testing.T) {
	fastRetry(t)
	env := newTestEnv(t)
	boom := errors.New("boom")

	attempts := 0
	_, err := writeIdea(context.Background(), env.db, func(ctx context.Context) (int, error) {
		attempts++
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
}

// 版本冲突时整个事务回滚, 重试从数据库重新读取
func TestWriteIdea_StaleCASRollsBackAndRereads(t *testing.T) {
	fastRetry(t)
	env := newTestEnv(t)
	env.seedIdea(t, &models.Idea{ID: 1, AuthorID: 10, Title: "x"})

	attempts := 0
	got, err := writeIdea(context.Background(), env.db, func(ctx context.Context) (*models.Idea, error) {
		attempts++
		idea, err := env.ideaDAO.GetByID(ctx, 1)
		if err != nil {
			return nil, err
		}
		if attempts == 1 {
			// 读取之后有另一笔写入抢先提交了版本号
			bumped := *idea
			ok, err := env.ideaDAO.CompareAndSwap(ctx, &bumped)
			require.NoError(t, err)
			require.True(t, ok)
		}

		idea.SupportVotes++
		ok, err := env.ideaDAO.CompareAndSwap(ctx, idea)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errStale
		}
		return idea, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.EqualValues(t, 1, got.Version)

	stored := env.idea(t, 1)
	assert.EqualValues(t, 1, stored.SupportVotes)
	assert.EqualValues(t, 1, stored.Version)
}
