package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 是通用的 API 响应结构体
type Response struct {
	Code    int         `json:"code"` // 业务状态码，0 代表成功
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// PagingData 列表数据
type PagingData struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Limit int         `json:"limit"`
}

// CodeSuccess 通用成功响应的业务状态码
const CodeSuccess = 0

func Success(c *gin.Context, data interface{}, msg string) {
	if msg == "" {
		msg = "操作成功"
	}
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: msg,
		Data:    data,
	})
}

func Fail(c *gin.Context, code int, msg string) {
	if code == CodeSuccess {
		code = 500 // 避免业务错误码和成功码冲突
	}
	if msg == "" {
		msg = "failed"
	}
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: msg,
		Data:    nil,
	})
}

// OkWithList 列表响应
func OkWithList(c *gin.Context, list interface{}, total int64, limit int) {
	Success(c, PagingData{
		List:  list,
		Total: total,
		Limit: limit,
	}, "success")
}

// Error 快捷失败响应
func Error(c *gin.Context, msg string) {
	Fail(c, 500, msg)
}

// BadRequest 参数错误
func BadRequest(c *gin.Context, msg string) {
	Fail(c, http.StatusBadRequest, msg)
}
