package api

import (
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// NewRedirectEngine 把所有 HTTP 请求 308 跳转到 httpsPort 上的 HTTPS 服务
func NewRedirectEngine(httpsPort int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusPermanentRedirect, RedirectURL(c.Request, httpsPort))
	})
	return r
}

// RedirectURL 保留请求的主机名、路径与查询参数，443 端口省略
func RedirectURL(r *http.Request, httpsPort int) string {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if httpsPort > 0 && httpsPort != 443 {
		host = net.JoinHostPort(host, strconv.Itoa(httpsPort))
	} else if ip := net.ParseIP(host); ip != nil && ip.To4() == nil {
		host = "[" + host + "]"
	}
	return "https://" + host + r.URL.RequestURI()
}
