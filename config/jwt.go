package config

import "time"

type Jwt struct {
	Secret string `json:"secret" yaml:"secret"`
	// 单位秒
	AccessExpire  int64 `json:"access_expire" yaml:"access_expire"`
	RefreshExpire int64 `json:"refresh_expire" yaml:"refresh_expire"`
}

func (j *Jwt) AccessTTL() time.Duration {
	return time.Duration(j.AccessExpire) * time.Second
}

func (j *Jwt) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshExpire) * time.Second
}
