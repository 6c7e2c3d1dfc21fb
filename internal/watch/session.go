package watch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"pink-tide/internal/status"
	"pink-tide/pkg/util"

	"github.com/rs/zerolog/log"
)

// Phase 会话阶段
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseWatching
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseWatching:
		return "watching"
	case PhaseTerminated:
		return "terminated"
	}
	return "unknown"
}

var ErrSessionStarted = errors.New("会话已启动")

// Session 一次监听会话，持有且只持有一个传输 goroutine
type Session struct {
	ID     string
	RoomID string

	transport Transport
	onState   StateFunc
	active    *atomic.Int32

	mu      sync.Mutex
	phase   Phase
	cancel  context.CancelFunc
	last    status.StreamState
	hasLast bool
	err     error

	done chan struct{}
}

// NewSession 创建处于 idle 阶段的会话
func NewSession(roomID string, transport Transport, onState StateFunc) *Session {
	return &Session{
		ID:        util.NextIDString(),
		RoomID:    roomID,
		transport: transport,
		onState:   onState,
		done:      make(chan struct{}),
	}
}

// Start 启动传输，只能调用一次
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIdle {
		return ErrSessionStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.phase = PhaseWatching
	if s.active != nil {
		s.active.Add(1)
	}

	log.Info().Str("session", s.ID).Str("room_id", s.RoomID).Str("mode", string(s.transport.Mode())).Msg("[watch] 开始监听")
	go s.run(runCtx)
	return nil
}

func (s *Session) run(ctx context.Context) {
	start := time.Now()
	err := s.transport.Run(ctx, s.RoomID, s.apply)

	s.mu.Lock()
	s.phase = PhaseTerminated
	s.err = err
	s.cancel()
	s.mu.Unlock()

	if s.active != nil {
		s.active.Add(-1)
	}

	event := log.Info()
	if err != nil {
		event = log.Warn().Err(err)
	}
	event.Str("session", s.ID).Str("room_id", s.RoomID).Dur("elapsed", time.Since(start)).Msg("[watch] 监听结束")
	close(s.done)
}

func (s *Session) apply(st status.StreamState) {
	s.mu.Lock()
	s.last = st
	s.hasLast = true
	s.mu.Unlock()

	if s.onState != nil {
		s.onState(st)
	}
}

// Stop 取消传输并等待其释放，可重复调用
//
// 不能在 onState 回调中同步调用，否则会等待自身退出。
func (s *Session) Stop() {
	s.mu.Lock()
	switch s.phase {
	case PhaseIdle:
		s.phase = PhaseTerminated
		close(s.done)
		s.mu.Unlock()
		return
	case PhaseWatching:
		s.cancel()
	}
	s.mu.Unlock()
	<-s.done
}

// Done 会话结束后关闭
func (s *Session) Done() <-chan struct{} { return s.done }

// Wait 等待会话结束，返回传输错误 (被 Stop 或正常结束时为 nil)
func (s *Session) Wait() error {
	<-s.done
	return s.Err()
}

func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Mode() Mode { return s.transport.Mode() }

// Last 最近一次应用的状态
func (s *Session) Last() (status.StreamState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}
