package client

import (
	"Ideabox/config"
	"Ideabox/pkg/log"
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func NewRedisClient(conf *config.Config) (*redis.Client, func(), error) {
	if conf.Redis == nil {
		return nil, nil, fmt.Errorf("redis config missing")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Redis.Addr(),
		Password: conf.Redis.Password,
		Username: conf.Redis.Username,
		DB:       conf.Redis.Database,
	})
	if _, err := client.Ping(context.TODO()).Result(); err != nil {
		log.L.Error("connect redis error", zap.Error(err))
		return nil, nil, err
	}
	log.L.Info("redis client success")
	return client, func() { _ = client.Close() }, nil
}
