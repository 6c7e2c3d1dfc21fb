package watch

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pink-tide/internal/status"
	"pink-tide/pkg/fetcher"

	"github.com/gin-contrib/sse"
	"github.com/rs/zerolog/log"
)

// 服务端推送的事件名
const (
	EventStatus = "status"
	EventReady  = "ready"
	EventStop   = "stop"
)

// ErrStreamClosed 服务端在结束事件之前关闭了连接
var ErrStreamClosed = errors.New("推送连接已断开")

// SSETransport 通过 /api/watch 接收推送
type SSETransport struct {
	client     *status.Client
	httpClient *http.Client
}

// NewSSETransport 推送连接是长连接，不设置整体超时
func NewSSETransport(client *status.Client) *SSETransport {
	return &SSETransport{
		client:     client,
		httpClient: &http.Client{Transport: fetcher.GlobalClient.Transport},
	}
}

func (t *SSETransport) Mode() Mode { return ModeSSE }

func (t *SSETransport) Run(ctx context.Context, roomID string, onState StateFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.client.URL(status.WatchPath, roomID), nil)
	if err != nil {
		return fmt.Errorf("创建推送请求失败: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("推送连接失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("推送连接失败: %w", &fetcher.StatusError{Code: resp.StatusCode})
	}

	reader := bufio.NewReader(resp.Body)
	for {
		event, err := readEvent(reader)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return ErrStreamClosed
			}
			return fmt.Errorf("读取推送失败: %w", err)
		}
		if event == nil {
			continue
		}

		switch event.Event {
		case EventStatus:
			data, _ := event.Data.(string)
			st, parseErr := status.Parse([]byte(data))
			if parseErr != nil {
				// 单条坏消息不结束会话
				log.Warn().Err(parseErr).Str("room_id", roomID).Msg("[watch] 推送状态解析失败")
				onState(status.Failure(roomID, status.MsgParseFailed))
				continue
			}
			onState(st)
			if st.State.IsTerminal() {
				return nil
			}
		case EventReady, EventStop:
			log.Debug().Str("room_id", roomID).Str("event", event.Event).Msg("[watch] 收到结束事件")
			return nil
		default:
			log.Debug().Str("room_id", roomID).Str("event", event.Event).Msg("[watch] 忽略未知事件")
		}
	}
}

// readEvent 读取一个以空行结尾的事件块，仅含注释的块返回 nil
func readEvent(reader *bufio.Reader) (*sse.Event, error) {
	var block strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" && block.Len() == 0 {
				return nil, io.EOF
			}
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if block.Len() == 0 {
				continue
			}
			break
		}
		block.WriteString(line)
		block.WriteByte('\n')
	}

	events, err := sse.Decode(strings.NewReader(block.String()))
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}
