// Package app 串联房间号解析、状态查询、监听与链接生成
package app

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"pink-tide/internal/link"
	"pink-tide/internal/room"
	"pink-tide/internal/status"
	"pink-tide/internal/watch"

	"github.com/rs/zerolog/log"
)

const (
	MsgResolving  = "解析中"
	MsgChecking   = "检查中"
	MsgNoLink     = "没有可复制的链接"
	MsgCopied     = "已复制"
	MsgCopyFailed = "复制失败"
)

var ErrNoLink = errors.New(MsgNoLink)

// Presenter 展示层
type Presenter interface {
	ShowStatus(text string, kind status.Kind)
	ShowLink(link string)
	HideLink()
	ShowInfo(info status.ServiceInfo)
}

// Backend 服务端接口，由 status.Client 实现
type Backend interface {
	FetchStatus(ctx context.Context, roomID string) status.StreamState
	FetchInfo(ctx context.Context) (status.ServiceInfo, error)
}

type Options struct {
	Origin       string // 链接 origin，为空时使用服务端地址
	Mode         watch.Mode
	PollInterval time.Duration
	Clipboard    io.Writer
}

// Outcome 一次生成的结果
type Outcome struct {
	RoomID  string
	State   status.StreamState
	Link    string
	Session *watch.Session // 需要监听时非 nil
}

// Generator 对应页面上的“生成”流程，持有唯一的 Watcher
type Generator struct {
	backend   Backend
	presenter Presenter
	watcher   *watch.Watcher
	origin    string
	clipboard io.Writer

	mu   sync.Mutex
	link string
}

func NewGenerator(client *status.Client, presenter Presenter, opts Options) *Generator {
	if opts.Origin == "" {
		opts.Origin = client.BaseURL()
	}
	return newGenerator(client, presenter, opts,
		watch.NewSSETransport(client), watch.NewPollTransport(client, opts.PollInterval))
}

func newGenerator(backend Backend, presenter Presenter, opts Options, push, poll watch.Transport) *Generator {
	g := &Generator{
		backend:   backend,
		presenter: presenter,
		origin:    opts.Origin,
		clipboard: opts.Clipboard,
	}
	g.watcher = watch.NewWithTransports(push, poll, watch.Options{
		Mode:    opts.Mode,
		OnState: g.applyState,
	})
	return g
}

func (g *Generator) applyState(st status.StreamState) {
	g.presenter.ShowStatus(st.DisplayText(), st.Kind())
}

// Generate 解析输入并检查状态，非终态时启动监听，可展示时生成链接
func (g *Generator) Generate(ctx context.Context, input string) (Outcome, error) {
	// 新的生成请求先结束旧的监听
	g.watcher.Stop()

	g.presenter.ShowStatus(MsgResolving, status.KindNone)
	res := room.Resolve(input)
	if !res.OK() {
		g.presenter.ShowStatus(res.Err.Error(), status.KindError)
		g.hideLink()
		return Outcome{}, res.Err
	}

	g.presenter.ShowStatus(MsgChecking, status.KindNone)
	st := g.backend.FetchStatus(ctx, res.RoomID)
	g.applyState(st)

	out := Outcome{RoomID: res.RoomID, State: st}
	if st.State.NeedsWatch() {
		session, err := g.watcher.Start(ctx, res.RoomID)
		if err != nil {
			log.Err(err).Str("room_id", res.RoomID).Msg("[app] 启动监听失败")
		}
		out.Session = session
	}

	if !st.State.ShowsLink() {
		g.hideLink()
		return out, nil
	}

	playLink, err := link.Build(g.origin, res.RoomID)
	if err != nil {
		log.Err(err).Str("origin", g.origin).Msg("[app] 生成链接失败")
		g.hideLink()
		return out, err
	}
	g.showLink(playLink)
	out.Link = playLink
	return out, nil
}

// LoadInfo 读取一次服务信息，失败忽略
func (g *Generator) LoadInfo(ctx context.Context) {
	info, err := g.backend.FetchInfo(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("[app] 获取服务信息失败")
		return
	}
	g.presenter.ShowInfo(info)
}

// Copy 把链接写入剪贴板
func (g *Generator) Copy(playLink string) error {
	if playLink == "" {
		g.presenter.ShowStatus(MsgNoLink, status.KindError)
		return ErrNoLink
	}
	if g.clipboard == nil {
		g.presenter.ShowStatus(MsgCopyFailed, status.KindError)
		return errors.New(MsgCopyFailed)
	}
	if _, err := io.WriteString(g.clipboard, playLink+"\n"); err != nil {
		g.presenter.ShowStatus(MsgCopyFailed, status.KindError)
		return err
	}
	g.presenter.ShowStatus(MsgCopied, status.KindReady)
	return nil
}

// Link 当前展示的链接
func (g *Generator) Link() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.link
}

// Watcher 内部的会话槽位
func (g *Generator) Watcher() *watch.Watcher { return g.watcher }

// Stop 结束监听
func (g *Generator) Stop() { g.watcher.Stop() }

func (g *Generator) showLink(playLink string) {
	g.mu.Lock()
	g.link = playLink
	g.mu.Unlock()
	g.presenter.ShowLink(playLink)
}

func (g *Generator) hideLink() {
	g.mu.Lock()
	g.link = ""
	g.mu.Unlock()
	g.presenter.HideLink()
}
