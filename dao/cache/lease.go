package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 只有持有者才能释放
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

var ErrLeaseHeld = errors.New("lease held by another worker")

// LeaseStorage 基于 SET NX 的分布式租约, 防止多副本同时跑同一个定时任务
type LeaseStorage struct {
	redis *redis.Client
}

func NewLeaseStorage(rds *redis.Client) *LeaseStorage {
	return &LeaseStorage{rds}
}

// Lease 一次成功的加锁
type Lease struct {
	storage *LeaseStorage
	key     string
	token   string
}

// Acquire 获取租约, 已被占用时返回 ErrLeaseHeld
// @params name  任务名
// @params ttl   租约时长, 持有者崩溃后自动过期
func (l *LeaseStorage) Acquire(ctx context.Context, name string, ttl time.Duration) (*Lease, error) {
	token := uuid.NewString()
	key := l.name(name)

	ok, err := l.redis.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLeaseHeld
	}
	return &Lease{storage: l, key: key, token: token}, nil
}

// Release 释放租约, 租约已过期或被他人持有时不做任何事
func (l *Lease) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.storage.redis, []string{l.key}, l.token).Err()
}

func (l *LeaseStorage) name(name string) string {
	return fmt.Sprintf("ideabox:lease:%s", name)
}
