package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter("debug", &buf)
	defer InitLoggerWithWriter("info", &bytes.Buffer{})

	testError := errors.New("这是一个测试错误")

	log.Debug().Msg("检查直播间状态")
	log.Info().Str("room_id", "12345").Msg("开始监听")
	log.Err(testError).Msg("操作失败")

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, " : 开始监听")
	assert.Contains(t, out, "logger_test.go")
	assert.Contains(t, out, "这是一个测试错误")
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerWithWriter("warn", &buf)
	defer InitLoggerWithWriter("info", &bytes.Buffer{})

	log.Info().Msg("不应输出")
	log.Warn().Msg("应该输出")

	assert.NotContains(t, buf.String(), "不应输出")
	assert.Contains(t, buf.String(), "应该输出")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		" warn ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}
