package cli

import (
	"bytes"
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"pink-tide/internal/domain/model"
	"pink-tide/internal/status"
	"pink-tide/pkg/certs"
	"pink-tide/pkg/config"
	"pink-tide/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	_ = util.InitIDGenerator(1)
	os.Exit(m.Run())
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a := NewApp()
	a.Writer = &stdout
	a.ErrWriter = &stderr

	missing := filepath.Join(t.TempDir(), "missing.json")
	full := append([]string{"pink-tide", "-c", missing, "--log-level", "error"}, args...)
	err := a.Run(full)
	return stdout.String(), stderr.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, _, err := runApp(t, "resolve", "https://live.bilibili.com/22109408?spm=1")
	require.NoError(t, err)
	assert.Equal(t, "22109408\n", out)

	_, _, err = runApp(t, "resolve")
	assert.Error(t, err)
}

// statusServer 前 notReady 次返回 loading，之后返回 ready
func statusServer(t *testing.T, notReady int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc(status.StatusPath, func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if n <= notReady {
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"room_id":"6","live_status":1,"state":"loading","message":"加载中"}`))
			return
		}
		_, _ = w.Write([]byte(`{"room_id":"6","live_status":1,"state":"ready","message":"直播中"}`))
	})
	mux.HandleFunc(status.InfoPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"PinkTide","version":"1.2.3","author":"WavesMan","repo":"https://github.com/WavesMan/PinkTide"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestLinkCommandReady(t *testing.T) {
	srv, calls := statusServer(t, 0)

	out, errOut, err := runApp(t, "link", "--base-url", srv.URL, "--copy", "https://live.bilibili.com/6")
	require.NoError(t, err)

	want := srv.URL + "/live.m3u8?room_id=6"
	assert.Equal(t, want+"\n", out)
	assert.Contains(t, errOut, "链接: "+want)
	assert.Contains(t, errOut, "✔ 直播中")
	assert.Equal(t, int32(1), calls.Load())
}

func TestLinkCommandWatchesUntilReady(t *testing.T) {
	srv, calls := statusServer(t, 3)

	done := make(chan struct{})
	var errOut string
	var err error
	go func() {
		defer close(done)
		_, errOut, err = runApp(t, "link",
			"--base-url", srv.URL,
			"--watch-mode", "poll",
			"--poll-interval", "10ms",
			"6")
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("link 命令未在 ready 后退出")
	}
	require.NoError(t, err)
	assert.Contains(t, errOut, "· 加载中")
	assert.Contains(t, errOut, "✔ 直播中")
	assert.GreaterOrEqual(t, calls.Load(), int32(4))
}

func TestLinkCommandRejectsBadInput(t *testing.T) {
	_, _, err := runApp(t, "link", "--watch-mode", "websocket", "6")
	assert.Error(t, err)

	_, _, err = runApp(t, "link")
	assert.Error(t, err)
}

func TestInfoCommand(t *testing.T) {
	srv, _ := statusServer(t, 0)

	out, _, err := runApp(t, "info", "--base-url", srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "PinkTide 1.2.3 (WavesMan) https://github.com/WavesMan/PinkTide\n", out)
}

func TestConfigAndHistoryCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pt.db")
	if _, closeFn, err := openStore(dbPath); err != nil {
		t.Skipf("sqlite 不可用: %v", err)
	} else {
		closeFn()
	}

	_, _, err := runApp(t, "config", "--db", dbPath, "set", "--desc", "默认房间", "server.default_room_id", "22109408")
	require.NoError(t, err)

	out, _, err := runApp(t, "config", "--db", dbPath, "get", "server.default_room_id")
	require.NoError(t, err)
	assert.Equal(t, "22109408\n", out)

	out, _, err = runApp(t, "config", "--db", dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "server.default_room_id")
	assert.Contains(t, out, "默认房间")

	_, _, err = runApp(t, "config", "--db", dbPath, "get", "missing.key")
	assert.Error(t, err)

	svc, closeFn, err := openStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, svc.RoomService.Record(context.Background(), &model.Room{RoomID: "6", State: "ready", Message: "直播中"}))
	closeFn()

	out, _, err = runApp(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ROOM")
	assert.Contains(t, out, "直播中")

	_, _, err = runApp(t, "history", "--db", dbPath, "rm", "6")
	require.NoError(t, err)
	out, _, err = runApp(t, "history", "--db", dbPath)
	require.NoError(t, err)
	assert.NotContains(t, out, "直播中")
}

func TestFlagMap(t *testing.T) {
	f := &CliFlags{Port: 9000, BiliCookie: "SESSDATA=1", Room: "6", WatchMode: "sse"}
	m := f.flagMap()
	assert.Equal(t, map[string]interface{}{
		"server.port":            9000,
		"bili.cookie":            "SESSDATA=1",
		"server.default_room_id": "6",
		"client.watch_mode":      "sse",
	}, m)

	assert.Empty(t, (&CliFlags{}).flagMap())
}

func TestRunServerTLS(t *testing.T) {
	cert, err := certs.Ensure(config.TLSConfig{CertDir: t.TempDir()}, "127.0.0.1")
	require.NoError(t, err)

	// 先占用一个端口得到可用地址
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr: addr,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}),
	}
	errCh := make(chan error, 1)
	go func() { errCh <- runServer(ctx, srv, cert) }()

	client := &http.Client{
		Timeout:   time.Second,
		Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}},
	}
	require.Eventually(t, func() bool {
		resp, err := client.Get("https://" + addr + "/")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK && resp.TLS != nil
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runServer 未退出")
	}
}

func TestRunServerMissingCert(t *testing.T) {
	dir := t.TempDir()
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}
	err := runServer(context.Background(), srv, certs.Result{
		CertFile: filepath.Join(dir, "missing.pem"),
		KeyFile:  filepath.Join(dir, "missing.key"),
	})
	assert.Error(t, err)
}

func TestRunServerShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- runServer(ctx, srv, certs.Result{}) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runServer 未退出")
	}
}
