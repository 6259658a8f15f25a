package config

import "time"

// Sweep 热度衰减定时任务
type Sweep struct {
	// 为空则 serve 不在进程内调度, 由外部 cron 调用 sweep 子命令
	Cron        string `json:"cron" yaml:"cron"`
	BatchSize   int    `json:"batch_size" yaml:"batch_size"`
	Concurrency int    `json:"concurrency" yaml:"concurrency"`
	// 分布式租约时长, 单位秒
	LeaseTTL int `json:"lease_ttl" yaml:"lease_ttl"`
}

func (s *Sweep) Lease() time.Duration {
	return time.Duration(s.LeaseTTL) * time.Second
}

func ProvideSweepConfig(cfg *Config) *Sweep {
	return cfg.Sweep
}
