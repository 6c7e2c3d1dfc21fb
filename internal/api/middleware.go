package api

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const headerRequestID = "X-Request-ID"

// RequestLogger 为每个请求生成 request id 并记录访问日志，skipPatterns 匹配的路径不打印
func RequestLogger(skipPatterns []string) gin.HandlerFunc {
	// 预编译所有正则表达式，避免每次请求都重新编译
	var regexList []*regexp.Regexp
	for _, pattern := range skipPatterns {
		regexList = append(regexList, regexp.MustCompile(pattern))
	}

	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Header(headerRequestID, reqID)
		c.Set("request_id", reqID)

		c.Next()

		path := c.Request.URL.Path
		for _, re := range regexList {
			if re.MatchString(path) {
				return
			}
		}

		evt := log.Info()
		if c.Writer.Status() >= 500 {
			evt = log.Warn()
		}
		evt.Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", c.Request.URL.RawQuery).
			Str("client_ip", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("[api] 请求完成")
	}
}
