// Package watch 监听直播流状态直到终态，优先 SSE 推送，不可用时退回轮询
package watch

import (
	"context"
	"fmt"
	"strings"

	"pink-tide/internal/status"
)

// Mode 传输方式
type Mode string

const (
	ModeAuto Mode = "auto"
	ModeSSE  Mode = "sse"
	ModePoll Mode = "poll"
)

// ParseMode 解析配置中的 watch_mode
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeSSE, ModePoll:
		return m, nil
	default:
		return "", fmt.Errorf("未知的监听模式: %q", s)
	}
}

// StateFunc 收到新状态时回调，运行在传输 goroutine 上
type StateFunc func(status.StreamState)

// Transport 一次监听会话的传输实现
//
// Run 阻塞直到会话结束：收到终态或结束事件时返回 nil，ctx 取消时返回 nil，
// 连接类错误返回对应 error。
type Transport interface {
	Mode() Mode
	Run(ctx context.Context, roomID string, onState StateFunc) error
}

// StatusFetcher 单次状态查询，由 status.Client 实现
type StatusFetcher interface {
	FetchStatus(ctx context.Context, roomID string) status.StreamState
}
