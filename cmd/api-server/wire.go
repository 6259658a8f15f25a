//go:build wireinject
// +build wireinject

package main

import (
	"Ideabox/config"
	"Ideabox/dao"
	"Ideabox/dao/cache"
	"Ideabox/handler"
	"Ideabox/pkg/client"
	"Ideabox/pkg/database"
	"Ideabox/pkg/rocketmq"
	"Ideabox/pkg/scheduler"
	"Ideabox/pkg/server"
	"Ideabox/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) (*server.AppProvider, func(), error) {
	wire.Build(
		database.NewDB,
		client.NewRedisClient,
		config.ProvideRocketMQConfig,
		config.ProvideSweepConfig,
		config.ProvideRankingConfig,
		config.ProvideReputationConfig,
		rocketmq.InitProducer,
		scheduler.New,
		server.NewGinEngine,

		cache.ProviderSet,
		dao.ProviderSet,
		service.ProviderSet,

		wire.Struct(new(handler.Idea), "*"),
		wire.Struct(new(handler.Vote), "*"),
		wire.Struct(new(handler.Feed), "*"),
		wire.Struct(new(handler.Member), "*"),

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),
	)
	return nil, nil, nil
}
