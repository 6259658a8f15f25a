package scheduler

import (
	"Ideabox/pkg/log"
	"Ideabox/pkg/utils"
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job 定时任务, ctx 在 Stop 时取消
type Job func(ctx context.Context)

// Scheduler 进程内 cron, 同一任务上一次未结束时跳过本次
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
		)),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add 注册任务, expr 为标准 5 段 cron 表达式
func (s *Scheduler) Add(name, expr string, job Job) error {
	_, err := s.cron.AddFunc(expr, func() {
		defer func() {
			if r := recover(); r != nil {
				log.L.Error("cron job panic",
					zap.String("job", name),
					zap.Any("panic", r),
					zap.String("stack", utils.PanicTrace(r)),
				)
			}
		}()
		job(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("add cron job %s: %w", name, err)
	}
	log.L.Info("cron job registered", zap.String("job", name), zap.String("expr", expr))
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 取消运行中的任务并等待其退出
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
