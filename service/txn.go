package service

import (
	"Ideabox/dao"
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"
)

var (
	initialInterval = 10 * time.Millisecond
	maxInterval     = 200 * time.Millisecond
	maxElapsedTime  = 3 * time.Second
	maxRetries      = uint64(8)
)

// errStale 乐观锁版本不一致
var errStale = errors.New("idea version changed")

func isRetryable(err error) bool {
	return errors.Is(err, errStale) || errors.Is(err, gorm.ErrDuplicatedKey)
}

// writeIdea 在事务内执行 fn, 遇到版本冲突或唯一键冲突整体重读重试
// fn 必须从数据库重新读取状态, 不能依赖上一次尝试的结果
func writeIdea[T any](ctx context.Context, db *gorm.DB, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(initialInterval),
		backoff.WithMaxInterval(maxInterval),
		backoff.WithMaxElapsedTime(maxElapsedTime),
	), maxRetries)

	err := backoff.Retry(func() error {
		err := dao.Transaction(ctx, db, func(ctx context.Context) error {
			var err error
			result, err = fn(ctx)
			return err
		})
		if err == nil {
			return nil
		}
		if isRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(b, ctx))

	if err != nil {
		var zero T
		if isRetryable(err) {
			return zero, ErrWriteConflict
		}
		return zero, err
	}
	return result, nil
}
