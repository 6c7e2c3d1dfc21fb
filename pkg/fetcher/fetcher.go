package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"pink-tide/pkg/config"

	"github.com/avast/retry-go/v5"
	"github.com/rs/zerolog/log"
)

// GlobalClient 是一个通用的 HTTP 客户端实例，Init 之前使用无代理的默认配置
var GlobalClient = &http.Client{Timeout: 15 * time.Second}

// StatusError 上游返回了非 200 的状态码
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API 返回错误状态码: %d", e.Code)
}

// RetryOptions 重试参数
type RetryOptions struct {
	Attempts uint
	Delay    time.Duration
	Tag      string // 日志前缀
}

// Init 根据代理配置初始化 GlobalClient
func Init(proxy config.ProxyConfig) {
	GlobalClient = &http.Client{
		Timeout:   15 * time.Second,
		Transport: NewTransport(proxy),
	}
}

// NewTransport 按代理配置构建 Transport
func NewTransport(proxy config.ProxyConfig) *http.Transport {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil

	if proxy.Protocol == "" {
		proxy.Protocol = "http"
	}

	switch {
	case proxy.Enabled && proxy.SystemProxy:
		transport.Proxy = http.ProxyFromEnvironment
		log.Info().Msg("使用系统代理")
	case proxy.Enabled && proxy.Host != "" && proxy.Port >= 1024 && proxy.Port <= 65535:
		proxyURL := &url.URL{
			Scheme: proxy.Protocol,
			Host:   fmt.Sprintf("%s:%d", proxy.Host, proxy.Port),
		}
		if proxy.Username != "" && proxy.Password != "" {
			proxyURL.User = url.UserPassword(proxy.Username, proxy.Password)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
		log.Info().Msgf("使用代理: %s", proxyURL.Redacted())
	default:
		log.Info().Msg("未启用代理")
	}
	return transport
}

// Fetch 通用请求方法，params 合并到 baseURL 已有的查询参数中
func Fetch(ctx context.Context, method string, baseURL string, params url.Values, header http.Header) (*http.Response, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("解析 baseURL 失败: %w", err))
	}

	if len(params) > 0 {
		query := parsedURL.Query()
		for key, values := range params {
			for _, value := range values {
				query.Add(key, value)
			}
		}
		parsedURL.RawQuery = query.Encode()
	}

	request, err := http.NewRequestWithContext(ctx, method, parsedURL.String(), nil)
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("创建请求失败: %w", err))
	}

	if header != nil {
		request.Header = header.Clone()
	}
	// 特殊处理 host
	if host := request.Header.Get("Host"); host != "" {
		request.Host = host
		request.Header.Del("Host")
	}

	return GlobalClient.Do(request)
}

// FetchBody 发送 GET 请求并读取 responseBody，非 200/304 返回 *StatusError
func FetchBody(ctx context.Context, baseURL string, params url.Values, header http.Header) ([]byte, error) {
	response, err := Fetch(ctx, http.MethodGet, baseURL, params, header)
	if err != nil {
		return nil, fmt.Errorf("执行请求失败: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusNotModified {
		return nil, &StatusError{Code: response.StatusCode}
	}

	bodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}
	return bodyBytes, nil
}

// FetchWithRetry 按 opts 重试 fn，4xx 与 retry.Unrecoverable 包装的错误不重试
func FetchWithRetry[T any](ctx context.Context, opts RetryOptions, fn func(ctx context.Context) (T, error)) (T, error) {
	if opts.Attempts == 0 {
		opts.Attempts = 1
	}
	tag := opts.Tag
	if tag == "" {
		tag = "FetchWithRetry"
	}

	return retry.NewWithData[T](
		retry.Attempts(opts.Attempts),
		retry.Delay(opts.Delay),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Msgf("[%s] 第%d次重试", tag, n+1)
		}),
		retry.RetryIf(func(err error) bool {
			if !retry.IsRecoverable(err) {
				return false
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.Code >= 400 && statusErr.Code < 500 {
				return false
			}
			return !errors.Is(err, context.Canceled)
		}),
		retry.Context(ctx),
	).Do(func() (T, error) {
		return fn(ctx)
	})
}
