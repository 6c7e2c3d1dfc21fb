package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		origin string
		roomID string
		want   string
	}{
		{"https://host", "555", "https://host/live.m3u8?room_id=555"},
		{"https://host/", "555", "https://host/live.m3u8?room_id=555"},
		{"http://127.0.0.1:8080", "22109408", "http://127.0.0.1:8080/live.m3u8?room_id=22109408"},
		{"https://host/index.html?x=1#top", "1", "https://host/live.m3u8?room_id=1"},
		{" https://host ", "12", "https://host/live.m3u8?room_id=12"},
		{"https://host", "a b&c", "https://host/live.m3u8?room_id=a+b%26c"},
	}
	for _, tt := range tests {
		got, err := Build(tt.origin, tt.roomID)
		require.NoError(t, err, tt.origin)
		assert.Equal(t, tt.want, got)
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, _ := Build("https://host", "555")
	b, _ := Build("https://host", "555")
	assert.Equal(t, a, b)
}

func TestBuildInvalid(t *testing.T) {
	_, err := Build("host", "555")
	assert.ErrorIs(t, err, ErrInvalidOrigin)

	_, err = Build("://bad", "555")
	assert.ErrorIs(t, err, ErrInvalidOrigin)

	_, err = Build("https://host", "")
	assert.ErrorIs(t, err, ErrEmptyRoomID)
}
