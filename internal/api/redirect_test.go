package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRedirectURL(t *testing.T) {
	tests := []struct {
		name   string
		host   string
		target string
		port   int
		want   string
	}{
		{"保留路径与参数", "pt.example.com:8080", "/live.m3u8?room_id=6", 8443, "https://pt.example.com:8443/live.m3u8?room_id=6"},
		{"443 省略端口", "pt.example.com", "/api/status?room_id=6", 443, "https://pt.example.com/api/status?room_id=6"},
		{"IPv6", "[::1]:8080", "/api", 8443, "https://[::1]:8443/api"},
		{"IPv6 443", "[::1]:8080", "/api", 443, "https://[::1]/api"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			req.Host = tt.host
			assert.Equal(t, tt.want, RedirectURL(req, tt.port))
		})
	}
}

func TestRedirectEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := NewRedirectEngine(8443)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "http://pt.example.com:8080/api/watch?room_id=6", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPermanentRedirect, w.Code)
	assert.Equal(t, "https://pt.example.com:8443/api/watch?room_id=6", w.Header().Get("Location"))
}
