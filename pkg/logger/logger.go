package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger 初始化全局 zerolog，控制台格式：时间 级别 调用方 : 消息
func InitLogger(level string) {
	InitLoggerWithWriter(level, os.Stderr)
}

// InitLoggerWithWriter 同 InitLogger，可指定输出目标（测试时写入 buffer）
func InitLoggerWithWriter(level string, out io.Writer) {
	lvl := ParseLevel(level)
	zerolog.SetGlobalLevel(lvl)

	zerolog.TimestampFieldName = "timestamp"
	zerolog.TimeFieldFormat = time.RFC3339Nano

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    out != os.Stderr && out != os.Stdout,
		TimeFormat: "2006-01-02 15:04:05.000",
		// 固定长度的日志级别
		FormatLevel: func(i interface{}) string {
			levelStr, _ := i.(string)
			return fmt.Sprintf(" %5s ", strings.ToUpper(levelStr))
		},
		// 只保留文件名:行号，左对齐
		FormatCaller: func(i interface{}) string {
			callerStr, _ := i.(string)
			if lastSlash := strings.LastIndexByte(callerStr, '/'); lastSlash != -1 {
				callerStr = callerStr[lastSlash+1:]
			}
			return fmt.Sprintf("%-25s", callerStr)
		},
		FormatMessage: func(i interface{}) string {
			msg, _ := i.(string)
			return fmt.Sprintf(" : %s", msg)
		},
	}

	log.Logger = zerolog.New(consoleWriter).
		Level(lvl).
		With().
		Timestamp().
		CallerWithSkipFrameCount(2). // 跳过 zerolog 自身的帧
		Logger()
}

// ParseLevel 将字符串映射为 zerolog 级别，未知值回退到 info
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
