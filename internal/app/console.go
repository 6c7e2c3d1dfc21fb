package app

import (
	"fmt"
	"io"
	"sync"

	"pink-tide/internal/status"
)

// ConsolePresenter 把状态逐行输出到终端
type ConsolePresenter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsolePresenter(out io.Writer) *ConsolePresenter {
	return &ConsolePresenter{out: out}
}

func (p *ConsolePresenter) ShowStatus(text string, kind status.Kind) {
	if text == "" {
		text = status.MsgWaiting
	}
	badge := "·"
	switch kind {
	case status.KindReady:
		badge = "✔"
	case status.KindError:
		badge = "✘"
	}
	p.printf("%s %s\n", badge, text)
}

func (p *ConsolePresenter) ShowLink(link string) {
	p.printf("链接: %s\n", link)
}

func (p *ConsolePresenter) HideLink() {}

func (p *ConsolePresenter) ShowInfo(info status.ServiceInfo) {
	p.printf("%s %s (%s) %s\n", orDash(info.Name), orDash(info.Version), orDash(info.Author), orDash(info.Repo))
}

func (p *ConsolePresenter) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
