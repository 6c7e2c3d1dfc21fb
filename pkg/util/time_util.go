package util

import "time"

// MillisToTime 将毫秒级 Unix 时间戳转换为 time.Time
func MillisToTime(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// NowMillis 当前毫秒时间戳，与 gorm autoCreateTime:milli 一致
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
