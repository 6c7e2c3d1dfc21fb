package watch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"pink-tide/internal/room"
	"pink-tide/internal/status"

	"github.com/rs/zerolog/log"
)

// Options Watcher 配置
type Options struct {
	Mode         Mode
	PollInterval time.Duration
	OnState      StateFunc
}

// Watcher 唯一的会话槽位，同一时刻最多一个活跃传输
type Watcher struct {
	push Transport // 为 nil 表示推送不可用
	poll Transport
	mode Mode

	onState StateFunc

	mu      sync.Mutex // 串行化 Start / Stop
	current atomic.Pointer[Session]
	active  atomic.Int32
}

// New 基于 status.Client 创建 SSE 与轮询两种传输
func New(client *status.Client, opts Options) *Watcher {
	return NewWithTransports(NewSSETransport(client), NewPollTransport(client, opts.PollInterval), opts)
}

// NewWithTransports push 可为 nil
func NewWithTransports(push, poll Transport, opts Options) *Watcher {
	mode := opts.Mode
	if mode == "" {
		mode = ModeAuto
	}
	return &Watcher{
		push:    push,
		poll:    poll,
		mode:    mode,
		onState: opts.OnState,
	}
}

func (w *Watcher) selectTransport() Transport {
	switch w.mode {
	case ModePoll:
		return w.poll
	case ModeSSE:
		if w.push == nil {
			log.Warn().Msg("[watch] 推送不可用，改用轮询")
			return w.poll
		}
		return w.push
	default:
		if w.push != nil {
			return w.push
		}
		return w.poll
	}
}

// Start 先停止并等待上一个会话，再为 roomID 启动新会话
func (w *Watcher) Start(ctx context.Context, roomID string) (*Session, error) {
	if !room.ValidRoomID(roomID) {
		return nil, fmt.Errorf("%w: %q", room.ErrRoomIDNotFound, roomID)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if prev := w.current.Load(); prev != nil {
		prev.Stop()
	}

	transport := w.selectTransport()
	if transport == nil {
		return nil, fmt.Errorf("没有可用的传输方式")
	}
	s := NewSession(roomID, transport, w.onState)
	s.active = &w.active
	if err := s.Start(ctx); err != nil {
		return nil, err
	}
	w.current.Store(s)
	return s, nil
}

// Stop 停止当前会话，任何时候调用任意次都安全
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s := w.current.Load(); s != nil {
		s.Stop()
	}
}

// Current 最近一次启动的会话，可能已结束
func (w *Watcher) Current() *Session {
	return w.current.Load()
}

// Active 当前存活的传输数量 (0 或 1)
func (w *Watcher) Active() int {
	return int(w.active.Load())
}
