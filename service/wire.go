package service

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(ReputationService), "*"),
	wire.Bind(new(IReputationService), new(*ReputationService)),

	wire.Struct(new(IdeaService), "*"),
	wire.Bind(new(IIdeaService), new(*IdeaService)),

	wire.Struct(new(VoteService), "*"),
	wire.Bind(new(IVoteService), new(*VoteService)),

	wire.Struct(new(DiscoveryService), "*"),
	wire.Bind(new(IDiscoveryService), new(*DiscoveryService)),

	wire.Struct(new(SweepService), "*"),
	wire.Bind(new(ISweepService), new(*SweepService)),

	NewEventPublisher,
)
