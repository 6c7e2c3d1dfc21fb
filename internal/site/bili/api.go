package bili

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pink-tide/pkg/config"
	"pink-tide/pkg/fetcher"

	"github.com/avast/retry-go/v5"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultAPIBase B站直播 API
	DefaultAPIBase = "https://api.live.bilibili.com"
	// 默认分辨率 原画
	defaultQn = 10000
	// 模拟手机浏览器 (H5/App 接口通常比 Web 接口稳定)
	userAgent = "Mozilla/5.0 (iPod; CPU iPhone OS 14_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) CriOS/87.0.4280.163 Mobile/15E148 Safari/604.1"
	referer   = "https://live.bilibili.com"
)

var ErrPlayURLNotFound = errors.New("play url not found")

// APIError B站接口返回非 0 code
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bili API 错误 (%d): %s", e.Code, e.Msg)
}

// Client B站直播接口客户端
type Client struct {
	apiBase string
	header  http.Header
	retry   fetcher.RetryOptions
}

type ClientOption func(*Client)

// WithAPIBase 替换接口地址，用于测试
func WithAPIBase(base string) ClientOption {
	return func(c *Client) {
		c.apiBase = strings.TrimRight(base, "/")
	}
}

func NewClient(cfg config.BiliConfig, opts ...ClientOption) *Client {
	c := &Client{
		apiBase: DefaultAPIBase,
		header:  make(http.Header),
		retry: fetcher.RetryOptions{
			Attempts: uint(max(cfg.RetryAttempts, 1)),
			Delay:    cfg.RetryDelay,
			Tag:      "bili",
		},
	}
	c.header.Set("User-Agent", userAgent)
	c.header.Set("Referer", referer)
	if cookie := strings.TrimSpace(cfg.Cookie); cookie != "" {
		c.header.Set("Cookie", cookie)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRoomInit 获取房间页初始化信息
func (c *Client) FetchRoomInit(ctx context.Context, roomID string) (*RoomInitData, error) {
	params := url.Values{}
	params.Set("id", roomID)

	response, err := c.fetch(ctx, "/room/v1/Room/room_init", params)
	if err != nil {
		return nil, err
	}

	var data RoomInitData
	if err := json.Unmarshal(response.Data, &data); err != nil {
		log.Err(err).Msgf("room_init Data 解析失败, response.Data: %s", response.Data)
		return nil, fmt.Errorf("room_init Data 解析失败: %w", err)
	}
	return &data, nil
}

// FetchPlayURL 获取 HLS 播放地址
func (c *Client) FetchPlayURL(ctx context.Context, roomID string) (string, error) {
	params := url.Values{}
	params.Set("room_id", roomID)
	params.Set("protocol", "0,1") // 0：http_stream; 1：http_hls
	params.Set("format", "0,1,2") // 0：flv; 1：ts; 2：fmp4
	params.Set("codec", "0,1")    // 0：AVC; 1：HEVC
	params.Set("qn", strconv.Itoa(defaultQn))
	params.Set("platform", "html5")
	params.Set("ptype", "8")
	params.Set("dolby", "5")

	response, err := c.fetch(ctx, "/xlive/web-room/v2/index/getRoomPlayInfo", params)
	if err != nil {
		return "", err
	}

	var data PlayInfoData
	if err := json.Unmarshal(response.Data, &data); err != nil {
		return "", fmt.Errorf("PlayInfoData 解析失败: %w", err)
	}
	playURL := data.FirstURL()
	if playURL == "" {
		return "", ErrPlayURLNotFound
	}
	return playURL, nil
}

// FetchPlaylist 拉取一次播放列表，只用于判断是否可播放
func (c *Client) FetchPlaylist(ctx context.Context, playURL string) ([]byte, error) {
	return fetcher.FetchBody(ctx, playURL, nil, c.header)
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) (*ApiResponse, error) {
	return fetcher.FetchWithRetry(ctx, c.retry, func(ctx context.Context) (*ApiResponse, error) {
		body, err := fetcher.FetchBody(ctx, c.apiBase+path, params, c.header)
		if err != nil {
			return nil, fmt.Errorf("执行请求失败: %w", err)
		}

		var response ApiResponse
		if err := json.Unmarshal(body, &response); err != nil {
			log.Err(err).Msg("API 响应 JSON 解析失败")
			return nil, retry.Unrecoverable(fmt.Errorf("JSON 解析失败: %w", err))
		}
		if response.Code != 0 {
			return nil, retry.Unrecoverable(&APIError{Code: response.Code, Msg: response.message()})
		}
		return &response, nil
	})
}

func (r *ApiResponse) message() string {
	if msg := strings.TrimSpace(r.Message); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(r.Msg); msg != "" {
		return msg
	}
	return "api error"
}
