package api

import (
	"time"

	"pink-tide/internal/api/handler"
	"pink-tide/internal/link"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewEngine 创建配置好中间件与路由的 gin 引擎，ginMode 为空时使用 release
func NewEngine(h *handler.Handler, ginMode string) *gin.Engine {
	if ginMode == "" {
		ginMode = gin.ReleaseMode
	}
	gin.SetMode(ginMode)
	r := gin.New()

	r.Use(gin.Recovery())
	// 健康检查不打印访问日志
	r.Use(RequestLogger([]string{`^/health$`}))
	// 跨域
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Cache-Control", "Last-Event-ID"},
		ExposeHeaders: []string{"Content-Length", headerRequestID},
		MaxAge:        12 * time.Hour,
	}))

	setupRoutes(r, h)
	return r
}

func setupRoutes(r *gin.Engine, h *handler.Handler) {
	apiGroup := r.Group("/api")
	{
		apiGroup.GET("", h.Info.Info)
		apiGroup.GET("/status", h.Stream.Status)
		apiGroup.GET("/watch", h.Stream.Watch)
		apiGroup.GET("/rooms", h.Room.List)
	}

	// 对外的播放入口
	r.GET(link.PlaylistPath, h.Stream.Live)
	r.GET("/health", h.Info.Health)
}
