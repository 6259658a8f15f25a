package config

import (
	"Ideabox/internal/ranking"
	"Ideabox/internal/reputation"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config 配置信息
type Config struct {
	App        *App              `json:"app" yaml:"app"`
	Redis      *Redis            `json:"redis" yaml:"redis"`
	MySQL      *MySQL            `json:"mysql" yaml:"mysql"`
	Jwt        *Jwt              `json:"jwt" yaml:"jwt"`
	Server     *Server           `json:"server" yaml:"server"`
	RocketMQ   *RocketMQConfig   `json:"rocketmq" yaml:"rocketmq"`
	Sweep      *Sweep            `json:"sweep" yaml:"sweep"`
	Ranking    ranking.Config    `json:"ranking" yaml:"ranking"`
	Reputation reputation.Config `json:"reputation" yaml:"reputation"`
}

type Server struct {
	Http int `json:"http" yaml:"http"`
}

// Load 读取并校验配置, 未填写的 ranking / reputation 参数取默认值
func Load(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(content)
}

func Parse(content []byte) (*Config, error) {
	conf := Config{
		App:        &App{Env: "dev"},
		Server:     &Server{Http: 8080},
		Sweep:      &Sweep{BatchSize: 200, Concurrency: 8, LeaseTTL: 300},
		Ranking:    ranking.DefaultConfig(),
		Reputation: reputation.DefaultConfig(),
	}
	if err := yaml.Unmarshal(content, &conf); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := conf.Ranking.Validate(); err != nil {
		return nil, err
	}
	if err := conf.Reputation.Validate(); err != nil {
		return nil, err
	}
	if conf.Sweep.BatchSize <= 0 || conf.Sweep.Concurrency <= 0 {
		return nil, fmt.Errorf("sweep: batch size and concurrency must be > 0")
	}
	return &conf, nil
}

func New(filename string) *Config {
	conf, err := Load(filename)
	if err != nil {
		panic(fmt.Sprintf("读取配置 %s 错误: %v", filename, err))
	}
	return conf
}

// Debug 调试模式
func (c *Config) Debug() bool {
	return c.App.Debug
}

func ProvideRankingConfig(cfg *Config) ranking.Config {
	return cfg.Ranking
}

func ProvideReputationConfig(cfg *Config) reputation.Config {
	return cfg.Reputation
}
