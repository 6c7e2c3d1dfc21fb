package util

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	idNode *snowflake.Node
	idOnce sync.Once
	idErr  error
)

// ErrIDGeneratorNotInit 未调用 InitIDGenerator
var ErrIDGeneratorNotInit = errors.New("ID 生成器未初始化")

// InitIDGenerator 初始化 ID 生成器，nodeID 范围：0 ~ 1023，重复调用只生效一次
func InitIDGenerator(nodeID int64) error {
	idOnce.Do(func() {
		idNode, idErr = snowflake.NewNode(nodeID)
	})
	return idErr
}

// NextID 返回一个全局唯一的 int64 ID
func NextID() (int64, error) {
	if idNode == nil {
		return 0, ErrIDGeneratorNotInit
	}
	return idNode.Generate().Int64(), nil
}

// MustNextID 同 NextID，未初始化时 panic
func MustNextID() int64 {
	id, err := NextID()
	if err != nil {
		panic("NextID failed: " + err.Error())
	}
	return id
}

// NextIDString 返回字符串形式的 ID，未初始化时返回空串
func NextIDString() string {
	id, err := NextID()
	if err != nil {
		return ""
	}
	return snowflake.ID(id).String()
}
