package config

type App struct {
	Env   string `json:"env" yaml:"env"`
	Debug bool   `json:"debug" yaml:"debug"`
	// hashids 盐, 用于生成分享码
	HashSalt string `json:"hash_salt" yaml:"hash_salt"`
	// snowflake 节点号, 多副本部署时需各不相同
	Node int64 `json:"node" yaml:"node"`
}
