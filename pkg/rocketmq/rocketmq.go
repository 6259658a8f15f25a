package rocketmq

import (
	"Ideabox/config"
	"Ideabox/pkg/log"

	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
)

func init() {
	rlog.SetLogLevel("error")
}

// InitProducer 未配置 nameserver 时返回 nil, 事件发布退化为空实现
func InitProducer(cfg *config.RocketMQConfig) (rocketmq.Producer, func(), error) {
	if !cfg.Enabled() {
		log.L.Info("rocketmq disabled, domain events will be dropped")
		return nil, func() {}, nil
	}

	retry := cfg.Producer.Retry
	if retry <= 0 {
		retry = 2
	}
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithRetry(retry),
		producer.WithGroupName(cfg.Producer.Group),
	)
	if err != nil {
		return nil, nil, err
	}
	if err = p.Start(); err != nil {
		return nil, nil, err
	}
	log.L.Info("init producer success")

	cleanup := func() {
		_ = p.Shutdown()
	}
	return p, cleanup, nil
}
