package service

import "github.com/prometheus/client_golang/prometheus"

var (
	voteOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabox_vote_operations_total",
			Help: "Vote operations by kind and outcome",
		},
		[]string{"op", "result"},
	)

	karmaCredits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabox_karma_credits_total",
			Help: "Reputation credits by kind and result",
		},
		[]string{"kind", "result"},
	)

	ideaTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabox_idea_transitions_total",
			Help: "Idea lifecycle transitions by target status",
		},
		[]string{"status"},
	)

	sweepItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ideabox_sweep_items_total",
			Help: "Ideas visited by the hot score sweep, by outcome",
		},
		[]string{"outcome"},
	)

	sweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ideabox_sweep_duration_seconds",
			Help:    "Duration of a full hot score sweep",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)
)

func init() {
	prometheus.MustRegister(voteOps, karmaCredits, ideaTransitions, sweepItems, sweepDuration)
}
