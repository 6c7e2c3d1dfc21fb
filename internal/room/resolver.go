// Package room 把用户输入的直播间链接或房间号规整为房间号
package room

import (
	"errors"
	"net/url"
	"strings"
)

const (
	shortLinkHost = "b23.tv"
	platformHost  = "bilibili.com"
)

// 输入错误，Error() 即展示给用户的文案
var (
	ErrEmptyInput      = errors.New("请输入直播间链接或房间号")
	ErrMalformedLink   = errors.New("链接格式不正确")
	ErrShortLink       = errors.New("暂不支持短链，请使用完整直播间链接")
	ErrUnsupportedHost = errors.New("仅支持B站直播间URL或房间号")
	ErrRoomIDNotFound  = errors.New("无法解析房间号")
)

// InputError 输入校验失败，Input 为去除空白后的原始输入
type InputError struct {
	Input string
	Err   error
}

func (e *InputError) Error() string { return e.Err.Error() }

func (e *InputError) Unwrap() error { return e.Err }

// Result 解析结果，RoomID 与 Err 有且仅有一个非零
type Result struct {
	RoomID string
	Err    *InputError
}

// OK 是否解析成功
func (r Result) OK() bool { return r.Err == nil }

// Error 返回 error 形式的失败原因，成功时为 nil
func (r Result) Error() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}

func fail(input string, err error) Result {
	return Result{Err: &InputError{Input: input, Err: err}}
}

// Resolve 解析纯数字房间号或 B站直播间 URL
func Resolve(raw string) Result {
	value := strings.TrimSpace(raw)
	if value == "" {
		return fail(value, ErrEmptyInput)
	}
	if ValidRoomID(value) {
		return Result{RoomID: value}
	}

	u, err := url.Parse(withScheme(value))
	if err != nil || u.Host == "" {
		return fail(value, ErrMalformedLink)
	}

	host := strings.ToLower(u.Hostname())
	if host == shortLinkHost {
		return fail(value, ErrShortLink)
	}
	if !strings.HasSuffix(host, platformHost) {
		return fail(value, ErrUnsupportedHost)
	}

	for _, segment := range strings.Split(u.Path, "/") {
		if ValidRoomID(segment) {
			return Result{RoomID: segment}
		}
	}
	return fail(value, ErrRoomIDNotFound)
}

// ValidRoomID 非空且全部为十进制数字
func ValidRoomID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func withScheme(value string) string {
	lower := strings.ToLower(value)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return value
	case strings.HasPrefix(value, "//"):
		return "https:" + value
	default:
		return "https://" + value
	}
}
