package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"pink-tide/internal/status"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SSE 事件名
const (
	EventStatus = "status"
	EventReady  = "ready"
	EventStop   = "stop"
)

const defaultWatchInterval = 2 * time.Second

// StreamHandler 状态查询、状态推送与播放入口
type StreamHandler struct {
	inspector     Inspector
	defaultRoomID string
	watchInterval time.Duration
}

// Status GET /api/status?room_id=
func (h *StreamHandler) Status(c *gin.Context) {
	roomID, err := bindRoomID(c, h.defaultRoomID)
	if err != nil {
		c.JSON(http.StatusBadRequest, status.StreamState{State: status.StateError, Message: err.Error()})
		return
	}

	res := h.inspector.Inspect(c.Request.Context(), roomID)
	c.JSON(res.Code, res.State)
}

// Watch GET /api/watch?room_id=，定时推送状态直到可播放、出错或客户端断开
func (h *StreamHandler) Watch(c *gin.Context) {
	roomID, err := bindRoomID(c, h.defaultRoomID)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	interval := h.watchInterval
	if interval <= 0 {
		interval = defaultWatchInterval
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	ctx := c.Request.Context()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Debug().Str("room_id", roomID).Msg("[watch] 开始推送")
	for {
		res := h.inspector.Inspect(ctx, roomID)
		payload, err := json.Marshal(res.State)
		if err != nil {
			log.Err(err).Str("room_id", roomID).Msg("[watch] 序列化状态失败")
			return
		}

		c.SSEvent(EventStatus, string(payload))
		switch {
		case res.State.State == status.StateReady:
			c.SSEvent(EventReady, string(payload))
			c.Writer.Flush()
			return
		case res.Code >= http.StatusBadRequest:
			c.SSEvent(EventStop, string(payload))
			c.Writer.Flush()
			return
		}
		c.Writer.Flush()

		select {
		case <-ctx.Done():
			log.Debug().Str("room_id", roomID).Msg("[watch] 客户端断开")
			return
		case <-ticker.C:
		}
	}
}

// Live GET /live.m3u8?room_id=，可播放时重定向到上游播放列表
func (h *StreamHandler) Live(c *gin.Context) {
	roomID, err := bindRoomID(c, h.defaultRoomID)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	res := h.inspector.Inspect(c.Request.Context(), roomID)
	if res.Code != http.StatusOK || res.PlayURL == "" {
		c.String(res.Code, res.State.Message)
		return
	}
	c.Redirect(http.StatusFound, res.PlayURL)
}
