package handler

import (
	"context"
	"errors"
	"time"

	"pink-tide/internal/domain/model"
	"pink-tide/internal/inspect"
	"pink-tide/internal/room"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Inspector 由 inspect.Inspector 实现
type Inspector interface {
	Inspect(ctx context.Context, roomID string) inspect.Result
}

// RoomLister 由 service.RoomService 实现
type RoomLister interface {
	ListRecent(ctx context.Context, limit int) ([]model.Room, error)
}

// Handler 聚合所有的子 handler
type Handler struct {
	Info   *InfoHandler
	Stream *StreamHandler
	Room   *RoomHandler
}

// Options 构造 Handler 所需的依赖，Rooms 可为 nil
type Options struct {
	Inspector     Inspector
	Rooms         RoomLister
	DefaultRoomID string
	WatchInterval time.Duration
}

func NewHandler(opts Options) *Handler {
	return &Handler{
		Info: &InfoHandler{},
		Stream: &StreamHandler{
			inspector:     opts.Inspector,
			defaultRoomID: opts.DefaultRoomID,
			watchInterval: opts.WatchInterval,
		},
		Room: &RoomHandler{rooms: opts.Rooms},
	}
}

var (
	errMissingRoomID = errors.New("缺少 room_id")
	errInvalidRoomID = errors.New("room_id 格式不正确")
)

type roomQuery struct {
	RoomID string `form:"room_id" binding:"omitempty,number,max=20"`
}

// bindRoomID 读取 room_id，缺省时使用默认房间
func bindRoomID(c *gin.Context, defaultRoomID string) (string, error) {
	var q roomQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return "", errInvalidRoomID
		}
		return "", err
	}
	roomID := q.RoomID
	if roomID == "" {
		roomID = defaultRoomID
	}
	if roomID == "" {
		return "", errMissingRoomID
	}
	if !room.ValidRoomID(roomID) {
		return "", errInvalidRoomID
	}
	return roomID, nil
}
