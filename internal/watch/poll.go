package watch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPollInterval 轮询间隔
const DefaultPollInterval = 2 * time.Second

// PollTransport 定时调用 FetchStatus，直到服务端给出终态
//
// 本地合成的失败状态 (网络错误等) 不结束轮询，也没有次数上限。
type PollTransport struct {
	fetcher  StatusFetcher
	interval time.Duration
}

func NewPollTransport(fetcher StatusFetcher, interval time.Duration) *PollTransport {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &PollTransport{fetcher: fetcher, interval: interval}
}

func (t *PollTransport) Mode() Mode { return ModePoll }

func (t *PollTransport) Interval() time.Duration { return t.interval }

func (t *PollTransport) Run(ctx context.Context, roomID string, onState StateFunc) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		st := t.fetcher.FetchStatus(ctx, roomID)
		if ctx.Err() != nil {
			// 已被取消，丢弃结果
			return nil
		}
		onState(st)

		if st.Synthetic {
			log.Debug().Str("room_id", roomID).Str("message", st.Message).Msg("[watch] 轮询请求失败，继续轮询")
			continue
		}
		if st.State.IsTerminal() {
			return nil
		}
	}
}
