package bili

import "encoding/json"

// ApiResponse API 顶层的 JSON 结构 (通用结构)
type ApiResponse struct {
	Code    int             `json:"code"` // 0 表示成功
	Msg     string          `json:"msg"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"` // 延迟解析
}

// RoomInitData room_init 接口的数据部分
//
//	{
//	   "room_id": 22109408,
//	   "short_id": 0,
//	   "uid": 110854973,
//	   "is_hidden": false,
//	   "is_locked": false,
//	   "live_status": 1,
//	   "live_time": 1759667492
//	}
type RoomInitData struct {
	RoomId     int   `json:"room_id"`     // 真实房间号 (Long ID)
	ShortId    int   `json:"short_id"`    // 短号，没有时为 0
	Uid        int64 `json:"uid"`         // 主播 uid
	LiveStatus int   `json:"live_status"` // 0: 未开播, 1: 直播中, 2: 轮播中
	IsHidden   bool  `json:"is_hidden"`
	IsLocked   bool  `json:"is_locked"`
	LiveTime   int64 `json:"live_time"`
}

// 直播状态
const (
	LiveStatusOffline = 0
	LiveStatusLive    = 1
	LiveStatusLoop    = 2
)

// PlayInfoData getRoomPlayInfo 接口的数据部分
type PlayInfoData struct {
	RoomId      int         `json:"room_id"`
	LiveStatus  int         `json:"live_status"`
	PlayURLInfo PlayURLInfo `json:"playurl_info"`
}

type PlayURLInfo struct {
	PlayURL PlayURL `json:"playurl"`
}

type PlayURL struct {
	Stream []StreamData `json:"stream"`
}

// StreamData 一种协议下的流
type StreamData struct {
	ProtocolName string         `json:"protocol_name"` // http_stream / http_hls
	Format       []StreamFormat `json:"format"`
}

type StreamFormat struct {
	FormatName string        `json:"format_name"` // ts flv fmp4
	Codec      []StreamCodec `json:"codec"`
}

type StreamCodec struct {
	CodecName string    `json:"codec_name"` // avc hevc
	CurrentQn int       `json:"current_qn"`
	AcceptQn  []int     `json:"accept_qn"`
	BaseURL   string    `json:"base_url"`
	URLInfo   []URLInfo `json:"url_info"`
}

type URLInfo struct {
	Host      string `json:"host"`
	Extra     string `json:"extra"`
	StreamTtl int    `json:"stream_ttl"`
}

// FirstURL 优先 http_hls，返回第一条完整的 host + base_url + extra
func (d *PlayInfoData) FirstURL() string {
	var fallback string
	for _, stream := range d.PlayURLInfo.PlayURL.Stream {
		for _, format := range stream.Format {
			for _, codec := range format.Codec {
				if codec.BaseURL == "" || len(codec.URLInfo) == 0 {
					continue
				}
				u := codec.URLInfo[0].Host + codec.BaseURL + codec.URLInfo[0].Extra
				if stream.ProtocolName == "http_hls" {
					return u
				}
				if fallback == "" {
					fallback = u
				}
			}
		}
	}
	return fallback
}
