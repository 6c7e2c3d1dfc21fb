package room

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"纯数字", "12345", "12345", nil},
		{"前后空白", "  22109408\n", "22109408", nil},
		{"前导零保留", "007", "007", nil},
		{"完整链接", "https://live.bilibili.com/12345", "12345", nil},
		{"无协议", "live.bilibili.com/12345", "12345", nil},
		{"协议相对", "//live.bilibili.com/12345", "12345", nil},
		{"http", "http://live.bilibili.com/12345", "12345", nil},
		{"大写主机", "HTTPS://LIVE.BILIBILI.COM/12345", "12345", nil},
		{"末尾斜杠", "https://live.bilibili.com/12345/", "12345", nil},
		{"查询参数", "https://live.bilibili.com/12345?broadcast_type=0&spm_id_from=333#top", "12345", nil},
		{"取第一个数字段", "https://live.bilibili.com/blanc/666/777", "666", nil},
		{"移动端", "https://m.bilibili.com/live/22109408", "22109408", nil},
		{"空", "", "", ErrEmptyInput},
		{"空白", "   ", "", ErrEmptyInput},
		{"短链", "https://b23.tv/abc", "", ErrShortLink},
		{"短链无协议", "B23.TV/abc", "", ErrShortLink},
		{"其它站点", "https://example.com/12345", "", ErrUnsupportedHost},
		{"无房间号", "https://live.bilibili.com/", "", ErrRoomIDNotFound},
		{"数字在查询参数", "https://live.bilibili.com/p/html?room_id=12345", "", ErrRoomIDNotFound},
		{"非法转义", "https://%zz/12345", "", ErrMalformedLink},
		{"缺少主机", "https:///12345", "", ErrMalformedLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.input)
			if tt.wantErr != nil {
				require.False(t, res.OK())
				assert.Empty(t, res.RoomID)
				assert.ErrorIs(t, res.Error(), tt.wantErr)
				assert.Equal(t, tt.wantErr.Error(), res.Err.Error())
				return
			}
			require.True(t, res.OK(), "unexpected error: %v", res.Error())
			assert.Equal(t, tt.want, res.RoomID)
			assert.Nil(t, res.Error())
		})
	}
}

func TestResolveDigitsRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 9, 10, 12345, 22109408, 9223372036854775807} {
		s := strconv.FormatInt(n, 10)
		assert.Equal(t, s, Resolve(s).RoomID)
	}
}

func TestInputErrorAs(t *testing.T) {
	res := Resolve("https://b23.tv/xyz")
	var inputErr *InputError
	require.True(t, errors.As(res.Error(), &inputErr))
	assert.Equal(t, "https://b23.tv/xyz", inputErr.Input)
}

func TestValidRoomID(t *testing.T) {
	assert.True(t, ValidRoomID("123"))
	assert.False(t, ValidRoomID(""))
	assert.False(t, ValidRoomID("12a"))
	assert.False(t, ValidRoomID("-1"))
	assert.False(t, ValidRoomID("１２３"))
}
