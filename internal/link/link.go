// Package link 生成可播放链接
package link

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// PlaylistPath 服务端的播放列表入口
const PlaylistPath = "/live.m3u8"

var (
	ErrInvalidOrigin = errors.New("origin 格式不正确")
	ErrEmptyRoomID   = errors.New("房间号为空")
)

// Build 返回 origin + /live.m3u8?room_id=roomID，origin 上的路径会被丢弃
func Build(origin, roomID string) (string, error) {
	if roomID == "" {
		return "", ErrEmptyRoomID
	}
	base, err := Origin(origin)
	if err != nil {
		return "", err
	}
	return base + PlaylistPath + "?room_id=" + url.QueryEscape(roomID), nil
}

// Origin 规整为 scheme://host[:port]
func Origin(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidOrigin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrigin, raw)
	}
	return strings.ToLower(u.Scheme) + "://" + u.Host, nil
}
