// Package status 直播流状态及状态查询客户端
package status

import (
	"encoding/json"
	"fmt"
)

// State 直播流解析状态
type State string

const (
	StateWaiting State = "waiting"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateError   State = "error"
	StateLocked  State = "locked"
	StateHidden  State = "hidden"
	StateOffline State = "offline"
	StateLoop    State = "loop"
	// StateLive 仅服务端内部使用
	StateLive State = "live"
)

// 客户端本地合成的文案
const (
	MsgWaiting     = "等待中"
	MsgFetchFailed = "状态获取失败"
	MsgParseFailed = "状态解析失败"
)

// IsTerminal ready 以及所有失败类状态都是终态
func (s State) IsTerminal() bool {
	switch s {
	case StateReady, StateError, StateLocked, StateHidden, StateOffline, StateLoop:
		return true
	}
	return false
}

// NeedsWatch waiting / loading 需要持续监听
func (s State) NeedsWatch() bool {
	return s == StateWaiting || s == StateLoading
}

// ShowsLink 是否展示播放链接
func (s State) ShowsLink() bool {
	return s == StateWaiting || s == StateLoading || s == StateReady
}

// Kind 状态指示样式
type Kind string

const (
	KindNone  Kind = ""
	KindReady Kind = "ready"
	KindError Kind = "error"
)

// StreamState 与 /api/status 返回的 JSON 对应
type StreamState struct {
	RoomID     string `json:"room_id"`
	LiveStatus int    `json:"live_status"`
	State      State  `json:"state"`
	Message    string `json:"message"`

	// Synthetic 为 true 表示由本地传输失败合成，并非服务端结果
	Synthetic bool `json:"-"`
}

// Kind ready 为 ready 样式，其余终态为 error 样式，waiting / loading 无样式
func (s StreamState) Kind() Kind {
	switch {
	case s.State == StateReady:
		return KindReady
	case s.State.IsTerminal():
		return KindError
	}
	return KindNone
}

// DisplayText 展示文案，message 为空时显示“等待中”
func (s StreamState) DisplayText() string {
	if s.Message != "" {
		return s.Message
	}
	return MsgWaiting
}

func (s StreamState) String() string {
	return fmt.Sprintf("%s(%s)", s.State, s.DisplayText())
}

// Failure 合成一个本地 error 状态
func Failure(roomID, message string) StreamState {
	if message == "" {
		message = MsgFetchFailed
	}
	return StreamState{RoomID: roomID, State: StateError, Message: message, Synthetic: true}
}

// Parse 解析状态 JSON，state 缺失视为解析失败
func Parse(data []byte) (StreamState, error) {
	var st StreamState
	if err := json.Unmarshal(data, &st); err != nil {
		return StreamState{}, err
	}
	if st.State == "" {
		return StreamState{}, fmt.Errorf("状态字段缺失: %s", data)
	}
	return st, nil
}
