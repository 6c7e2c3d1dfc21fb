package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pink-tide/internal/db"
	"pink-tide/internal/domain/model"
	"pink-tide/internal/repository"
	"pink-tide/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = util.InitIDGenerator(1)
	os.Exit(m.Run())
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	gdb, err := db.InitDB(filepath.Join(t.TempDir(), "db", "pink-tide.db"))
	if err != nil {
		// sqlite 驱动依赖 cgo
		t.Skipf("sqlite 不可用: %v", err)
	}
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewService(repository.NewRepository(gdb))
}

func TestRoomServiceRecord(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.RoomService.Record(ctx, &model.Room{RoomID: "12345", RealID: 22109408, LiveStatus: 1, State: "loading", Message: "加载中"}))
	require.NoError(t, svc.RoomService.Record(ctx, &model.Room{RoomID: "12345", RealID: 22109408, LiveStatus: 1, State: "ready", Message: "直播中"}))
	require.NoError(t, svc.RoomService.Record(ctx, &model.Room{RoomID: "666", State: "offline", Message: "直播间未开播"}))

	room, err := svc.RoomService.Get(ctx, "12345")
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, "ready", room.State)
	assert.Equal(t, int64(2), room.CheckCount)
	assert.Equal(t, 22109408, room.RealID)
	assert.NotZero(t, room.ID)

	rooms, err := svc.RoomService.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	rooms, err = svc.RoomService.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rooms, 1)

	missing, err := svc.RoomService.Get(ctx, "404")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, svc.RoomService.Remove(ctx, "666"))
	rooms, err = svc.RoomService.ListRecent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "12345", rooms[0].RoomID)
}

func TestConfigServiceListConfigMap(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.ConfigService.Save("bili.cookie", "SESSDATA=1", "B站 Cookie"))
	require.NoError(t, svc.ConfigService.Save("server.port", "9000", ""))
	require.NoError(t, svc.ConfigService.Save("server.port", "9001", ""))

	m, err := svc.ConfigService.ListConfigMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bili.cookie": "SESSDATA=1", "server.port": "9001"}, m)

	configs, err := svc.ConfigService.List()
	require.NoError(t, err)
	require.Len(t, configs, 2)
	assert.Equal(t, "bili.cookie", configs[0].Key)

	cfg, err := svc.ConfigService.Get("server.port")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "9001", cfg.Value)

	cfg, err = svc.ConfigService.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, cfg)
}
