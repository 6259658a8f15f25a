package service

import (
	"Ideabox/config"
	"Ideabox/dao"
	"Ideabox/dao/cache"
	"Ideabox/internal/ranking"
	"Ideabox/pkg/log"
	"context"
	"errors"
	"math"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

const sweepLeaseName = "hot_score_sweep"

var _ ISweepService = (*SweepService)(nil)

type ISweepService interface {
	// Run 重算全部活跃创意的热度, 单条失败跳过继续
	Run(ctx context.Context) (*SweepReport, error)
}

// SweepReport 一次扫描的统计
type SweepReport struct {
	Scanned   int64         `json:"scanned"`
	Updated   int64         `json:"updated"`
	Unchanged int64         `json:"unchanged"`
	Skipped   int64         `json:"skipped"` // 与投票并发, 版本已变
	Failed    int64         `json:"failed"`
	LeaseHeld bool          `json:"lease_held"`
	Elapsed   time.Duration `json:"elapsed"`
}

type SweepService struct {
	IdeaDAO *dao.IdeaDAO
	Lease   *cache.LeaseStorage
	Sweep   *config.Sweep
	Ranking ranking.Config
}

func (s *SweepService) Run(ctx context.Context) (*SweepReport, error) {
	start := time.Now()
	report := &SweepReport{}

	if s.Lease != nil {
		lease, err := s.Lease.Acquire(ctx, sweepLeaseName, s.Sweep.Lease())
		if errors.Is(err, cache.ErrLeaseHeld) {
			report.LeaseHeld = true
			log.L.Info("sweep skipped, lease held elsewhere")
			return report, nil
		}
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				log.L.Warn("release sweep lease failed", zap.Error(err))
			}
		}()
	}

	var scanned, updated, unchanged, skipped, failed atomic.Int64
	now := time.Now()
	cursor := uint64(0)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, err := s.IdeaDAO.ScanActive(ctx, cursor, s.Sweep.BatchSize)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		cursor = batch[len(batch)-1].ID

		p := pool.New().WithMaxGoroutines(s.Sweep.Concurrency)
		for _, idea := range batch {
			p.Go(func() {
				scanned.Add(1)
				score := s.Ranking.Hot.Rescore(toItem(idea), now)
				if math.Abs(score-idea.HotScore) < 1e-12 {
					unchanged.Add(1)
					return
				}
				ok, err := s.IdeaDAO.RefreshHotScore(ctx, idea.ID, idea.Version, score)
				if err != nil {
					failed.Add(1)
					log.L.Warn("sweep item failed", zap.Uint64("idea_id", idea.ID), zap.Error(err))
					return
				}
				if !ok {
					skipped.Add(1)
					return
				}
				updated.Add(1)
			})
		}
		p.Wait()

		if len(batch) < s.Sweep.BatchSize {
			break
		}
	}

	report.Scanned = scanned.Load()
	report.Updated = updated.Load()
	report.Unchanged = unchanged.Load()
	report.Skipped = skipped.Load()
	report.Failed = failed.Load()
	report.Elapsed = time.Since(start)

	sweepItems.WithLabelValues("updated").Add(float64(report.Updated))
	sweepItems.WithLabelValues("unchanged").Add(float64(report.Unchanged))
	sweepItems.WithLabelValues("skipped").Add(float64(report.Skipped))
	sweepItems.WithLabelValues("failed").Add(float64(report.Failed))
	sweepDuration.Observe(report.Elapsed.Seconds())

	log.L.Info("sweep finished",
		zap.Int64("scanned", report.Scanned),
		zap.Int64("updated", report.Updated),
		zap.Int64("unchanged", report.Unchanged),
		zap.Int64("skipped", report.Skipped),
		zap.Int64("failed", report.Failed),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}
