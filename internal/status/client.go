package status

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pink-tide/internal/room"
	"pink-tide/pkg/fetcher"

	"github.com/rs/zerolog/log"
)

const (
	StatusPath = "/api/status"
	WatchPath  = "/api/watch"
	InfoPath   = "/api"
)

// ServiceInfo /api 返回的服务信息
type ServiceInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Author  string `json:"author"`
	Repo    string `json:"repo"`
}

// Client 单次请求的状态查询客户端，自身不做任何监听决策
type Client struct {
	baseURL string
	timeout time.Duration
}

// NewClient baseURL 形如 http://host:port
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("服务端地址格式不正确: %q", baseURL)
	}
	return &Client{
		baseURL: u.Scheme + "://" + u.Host,
		timeout: timeout,
	}, nil
}

// BaseURL scheme://host
func (c *Client) BaseURL() string { return c.baseURL }

// URL 拼接接口地址
func (c *Client) URL(path, roomID string) string {
	if roomID == "" {
		return c.baseURL + path
	}
	return c.baseURL + path + "?room_id=" + url.QueryEscape(roomID)
}

// FetchStatus 查询一次当前状态，任何传输失败都合成为 error 状态，不返回错误
func (c *Client) FetchStatus(ctx context.Context, roomID string) StreamState {
	if !room.ValidRoomID(roomID) {
		return Failure(roomID, room.ErrRoomIDNotFound.Error())
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	header := make(http.Header)
	header.Set("Accept", "application/json")
	resp, err := fetcher.Fetch(ctx, http.MethodGet, c.URL(StatusPath, roomID), nil, header)
	if err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("[status] 请求失败")
		return Failure(roomID, MsgFetchFailed)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("[status] 读取响应失败")
		return Failure(roomID, MsgFetchFailed)
	}

	// 4xx/5xx 也可能携带合法的状态 JSON (locked / offline 等)
	st, err := Parse(body)
	if err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Int("code", resp.StatusCode).Msg("[status] 响应解析失败")
		msg := MsgFetchFailed
		if resp.StatusCode >= 300 {
			if text := http.StatusText(resp.StatusCode); text != "" {
				msg = text
			}
		}
		return Failure(roomID, msg)
	}
	if st.RoomID == "" {
		st.RoomID = roomID
	}
	log.Debug().Str("room_id", roomID).Int("code", resp.StatusCode).Str("state", string(st.State)).Msg("[status] 查询完成")
	return st
}

// FetchInfo 读取服务信息
func (c *Client) FetchInfo(ctx context.Context) (ServiceInfo, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := fetcher.FetchBody(ctx, c.URL(InfoPath, ""), nil, nil)
	if err != nil {
		return ServiceInfo{}, fmt.Errorf("获取服务信息失败: %w", err)
	}
	var info ServiceInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return ServiceInfo{}, fmt.Errorf("服务信息解析失败: %w", err)
	}
	return info, nil
}
