// Package inspect 检查直播间当前能否播放
package inspect

import (
	"context"
	"net/http"
	"time"

	"pink-tide/internal/cache"
	"pink-tide/internal/domain/model"
	"pink-tide/internal/site/bili"
	"pink-tide/internal/status"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	MsgFetchFailed = "获取直播状态失败"
	MsgLocked      = "直播间已封禁"
	MsgHidden      = "直播间不可访问"
	MsgOffline     = "直播间未开播"
	MsgLoop        = "直播间轮播中"
	MsgWaiting     = "等待加载"
	MsgLoading     = "加载中"
	MsgReady       = "直播中"
)

// 单次检查的上限，与调用方是否断开无关
const inspectTimeout = 15 * time.Second

// RoomAPI 由 bili.Client 实现
type RoomAPI interface {
	FetchRoomInit(ctx context.Context, roomID string) (*bili.RoomInitData, error)
	FetchPlayURL(ctx context.Context, roomID string) (string, error)
	FetchPlaylist(ctx context.Context, playURL string) ([]byte, error)
}

// Recorder 由 service.RoomService 实现
type Recorder interface {
	Record(ctx context.Context, room *model.Room) error
}

// Result 检查结果，Code 为对应的 HTTP 状态码
type Result struct {
	State   status.StreamState
	Code    int
	PlayURL string // 仅 ready 时非空
}

type Inspector struct {
	api      RoomAPI
	cache    cache.Cache
	recorder Recorder
	group    singleflight.Group
}

// New recorder 可为 nil
func New(api RoomAPI, c cache.Cache, recorder Recorder) *Inspector {
	if c == nil {
		c = cache.NoOp{}
	}
	return &Inspector{api: api, cache: c, recorder: recorder}
}

// Inspect 同一房间的并发检查共用一次上游请求
func (i *Inspector) Inspect(ctx context.Context, roomID string) Result {
	v, _, shared := i.group.Do(roomID, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), inspectTimeout)
		defer cancel()
		return i.inspect(ctx, roomID), nil
	})
	if shared {
		log.Debug().Str("room_id", roomID).Msg("[inspect] 复用进行中的检查")
	}
	return v.(Result)
}

func (i *Inspector) inspect(ctx context.Context, roomID string) Result {
	info, err := i.api.FetchRoomInit(ctx, roomID)
	if err != nil {
		log.Err(err).Str("room_id", roomID).Msg("[inspect] 获取房间信息失败")
		res := Result{
			State: status.StreamState{RoomID: roomID, State: status.StateError, Message: MsgFetchFailed},
			Code:  http.StatusBadGateway,
		}
		i.record(ctx, res, nil)
		return res
	}

	res := i.inspectRoom(ctx, roomID, info)
	log.Debug().Str("room_id", roomID).Str("state", string(res.State.State)).Int("code", res.Code).Msg("[inspect] 检查完成")
	i.record(ctx, res, info)
	return res
}

func (i *Inspector) inspectRoom(ctx context.Context, roomID string, info *bili.RoomInitData) Result {
	state := status.StreamState{RoomID: roomID, LiveStatus: info.LiveStatus}
	result := func(s status.State, msg string, code int) Result {
		state.State = s
		state.Message = msg
		return Result{State: state, Code: code}
	}

	switch {
	case info.IsLocked:
		return result(status.StateLocked, MsgLocked, http.StatusLocked)
	case info.IsHidden:
		return result(status.StateHidden, MsgHidden, http.StatusForbidden)
	case info.LiveStatus == bili.LiveStatusOffline:
		return result(status.StateOffline, MsgOffline, http.StatusConflict)
	case info.LiveStatus == bili.LiveStatusLoop:
		return result(status.StateLoop, MsgLoop, http.StatusConflict)
	}

	playURL := i.playURL(ctx, roomID)
	if playURL == "" {
		return result(status.StateWaiting, MsgWaiting, http.StatusAccepted)
	}

	body, err := i.api.FetchPlaylist(ctx, playURL)
	if err != nil || len(body) == 0 {
		log.Warn().Err(err).Str("room_id", roomID).Msg("[inspect] 播放列表不可用")
		// 地址可能已过期，下次重新获取
		if delErr := i.cache.Delete(ctx, roomID); delErr != nil {
			log.Warn().Err(delErr).Str("room_id", roomID).Msg("[inspect] 清理缓存失败")
		}
		return result(status.StateLoading, MsgLoading, http.StatusAccepted)
	}

	res := result(status.StateReady, MsgReady, http.StatusOK)
	res.PlayURL = playURL
	return res
}

func (i *Inspector) playURL(ctx context.Context, roomID string) string {
	if cached, ok, err := i.cache.Get(ctx, roomID); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("[inspect] 读取缓存失败")
	} else if ok {
		return cached
	}

	playURL, err := i.api.FetchPlayURL(ctx, roomID)
	if err != nil || playURL == "" {
		log.Warn().Err(err).Str("room_id", roomID).Msg("[inspect] 获取播放地址失败")
		return ""
	}
	if err := i.cache.Set(ctx, roomID, playURL); err != nil {
		log.Warn().Err(err).Str("room_id", roomID).Msg("[inspect] 写入缓存失败")
	}
	return playURL
}

func (i *Inspector) record(ctx context.Context, res Result, info *bili.RoomInitData) {
	if i.recorder == nil {
		return
	}
	room := &model.Room{
		RoomID:     res.State.RoomID,
		LiveStatus: res.State.LiveStatus,
		State:      string(res.State.State),
		Message:    res.State.Message,
	}
	if info != nil {
		room.RealID = info.RoomId
		room.ShortID = info.ShortId
		room.Uid = info.Uid
	}
	_ = i.recorder.Record(ctx, room)
}
