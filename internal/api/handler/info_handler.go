package handler

import (
	"net/http"

	"pink-tide/internal/status"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName   = "PinkTide"
	ServiceAuthor = "WavesMan"
	ServiceRepo   = "https://github.com/WavesMan/PinkTide"
)

// Version 构建时通过 -ldflags "-X pink-tide/internal/api/handler.Version=x.y.z" 注入
var Version = "dev"

type InfoHandler struct{}

// Info GET /api
func (h *InfoHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, status.ServiceInfo{
		Name:    ServiceName,
		Version: Version,
		Author:  ServiceAuthor,
		Repo:    ServiceRepo,
	})
}

// Health GET /health
func (h *InfoHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
