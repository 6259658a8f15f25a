package snowflake

import "github.com/bwmarrin/snowflake"

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

// SetNode 多实例部署时按实例编号切换节点, 避免 ID 冲突
func SetNode(n int64) error {
	nd, err := snowflake.NewNode(n)
	if err != nil {
		return err
	}
	node = nd
	return nil
}

func GenID() int64 {
	return node.Generate().Int64()
}
