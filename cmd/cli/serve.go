package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"pink-tide/internal/api"
	"pink-tide/internal/api/handler"
	"pink-tide/internal/cache"
	"pink-tide/internal/inspect"
	"pink-tide/internal/site/bili"
	"pink-tide/pkg/certs"
	"pink-tide/pkg/fetcher"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 5 * time.Second

func serveAction(cliValues *CliFlags) cli.ActionFunc {
	return func(c *cli.Context) error {
		// 数据库中保存了配置覆盖项，需要在读取配置前打开
		svc, closeStore, err := openStore(cliValues.DBPath)
		if err != nil {
			return err
		}
		defer closeStore()

		// 加载配置，数据库中的配置作为默认值
		configMap, err := svc.ConfigService.ListConfigMap()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cliValues, configMap)
		if err != nil {
			return err
		}
		log.Info().Msgf("服务将监听端口: %d", cfg.Server.Port)
		log.Info().Msgf("B站 Cookie 已加载 (长度: %d)", len(cfg.Bili.Cookie))

		// ------ 启动应用程序核心逻辑 ------

		// 初始化http客户端
		fetcher.Init(cfg.Proxy)

		playURLCache := cache.New(cfg.Cache)
		if closer, ok := playURLCache.(io.Closer); ok {
			defer closer.Close()
		}
		inspector := inspect.New(bili.NewClient(cfg.Bili), playURLCache, svc.RoomService)

		h := handler.NewHandler(handler.Options{
			Inspector:     inspector,
			Rooms:         svc.RoomService,
			DefaultRoomID: cfg.Server.DefaultRoomID,
			WatchInterval: cfg.Server.WatchInterval,
		})
		engine := api.NewEngine(h, cfg.Server.GinMode)

		ctx, cancel := signalContext()
		defer cancel()

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
			Handler: engine,
			// 退出时结束仍在推送的 SSE 连接
			BaseContext: func(net.Listener) context.Context { return ctx },
		}
		if !cfg.Server.TLS.Enabled {
			return runServer(ctx, srv, certs.Result{})
		}

		cert, err := certs.Ensure(cfg.Server.TLS, srv.Addr)
		if err != nil {
			return err
		}
		if port := cfg.Server.TLS.RedirectPort; port > 0 {
			redirect := &http.Server{
				Addr:    fmt.Sprintf(":%d", port),
				Handler: api.NewRedirectEngine(cfg.Server.Port),
			}
			go func() {
				if err := runServer(ctx, redirect, certs.Result{}); err != nil {
					log.Err(err).Str("addr", redirect.Addr).Msg("[serve] HTTP 跳转服务异常退出")
				}
			}()
		}
		return runServer(ctx, srv, cert)
	}
}

// runServer 阻塞直到 ctx 结束，然后优雅关闭；cert 非空时以 HTTPS 提供服务
func runServer(ctx context.Context, srv *http.Server, cert certs.Result) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if cert.CertFile != "" {
			log.Info().Str("addr", srv.Addr).Str("cert_file", cert.CertFile).Msg("[serve] HTTPS 服务已启动")
			err = srv.ListenAndServeTLS(cert.CertFile, cert.KeyFile)
		} else {
			log.Info().Str("addr", srv.Addr).Msg("[serve] 服务已启动")
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Str("addr", srv.Addr).Msg("[serve] 正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务失败: %w", err)
	}
	return nil
}
