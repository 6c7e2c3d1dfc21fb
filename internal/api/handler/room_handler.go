package handler

import (
	"errors"

	"pink-tide/internal/api/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const defaultListLimit = 20

// RoomHandler 房间检查历史
type RoomHandler struct {
	rooms RoomLister
}

// List GET /api/rooms?limit=
func (h *RoomHandler) List(c *gin.Context) {
	if h.rooms == nil {
		response.Error(c, "未启用房间历史")
		return
	}

	var req struct {
		Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			response.BadRequest(c, "limit 取值范围为 1-200")
			return
		}
		response.BadRequest(c, "参数错误")
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultListLimit
	}

	rooms, err := h.rooms.ListRecent(c.Request.Context(), req.Limit)
	if err != nil {
		log.Err(err).Msg("[api] 查询房间历史失败")
		response.Error(c, "查询房间历史失败")
		return
	}
	response.OkWithList(c, rooms, int64(len(rooms)), req.Limit)
}
