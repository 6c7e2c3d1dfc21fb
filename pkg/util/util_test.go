package util

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDGenerator(t *testing.T) {
	require.NoError(t, InitIDGenerator(1))
	// 重复初始化不报错
	require.NoError(t, InitIDGenerator(2))

	const n = 1000
	var (
		mu   sync.Mutex
		seen = make(map[int64]struct{}, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := MustNextID()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)

	s := NextIDString()
	require.NotEmpty(t, s)
	_, err := strconv.ParseInt(s, 10, 64)
	assert.NoError(t, err)
}

func TestMillisToTime(t *testing.T) {
	assert.True(t, MillisToTime(0).IsZero())
	assert.True(t, MillisToTime(-5).IsZero())

	ts := MillisToTime(1759667492123)
	assert.Equal(t, int64(1759667492), ts.Unix())
	assert.Equal(t, 123*time.Millisecond, time.Duration(ts.Nanosecond()))
}
