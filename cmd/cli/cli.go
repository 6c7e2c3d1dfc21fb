package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pink-tide/internal/api/handler"
	"pink-tide/internal/app"
	"pink-tide/internal/room"
	"pink-tide/internal/status"
	"pink-tide/internal/watch"
	"pink-tide/pkg/config"
	"pink-tide/pkg/logger"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// CliFlags 用于在 CLI 解析后临时存储 Flag 值
type CliFlags struct {
	ConfigFile string
	LogLevel   string

	// link / info
	BaseURL      string
	WatchMode    string
	PollInterval string
	Copy         bool

	// serve
	Port       int
	BiliCookie string
	Room       string
	DBPath     string
}

func Execute() error {
	return NewApp().Run(os.Args)
}

// NewApp 构建 CLI 应用
func NewApp() *cli.App {
	cliValues := &CliFlags{}

	clientFlags := []cli.Flag{
		&cli.StringFlag{
			Name:        "base-url",
			Usage:       "服务端地址，同时作为链接 origin",
			Destination: &cliValues.BaseURL,
		},
	}

	return &cli.App{
		Name:    "pink-tide",
		Usage:   "B站直播间播放链接生成与状态监听",
		Version: handler.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config-file",
				Aliases:     []string{"c"},
				Usage:       "配置文件 (JSON) 路径，为空时在 ./conf 与 ~/.config/pink-tide 中查找",
				Destination: &cliValues.ConfigFile,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "日志级别 trace|debug|info|warn|error",
				Destination: &cliValues.LogLevel,
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "resolve",
				Usage:     "从直播间链接或房间号中解析房间号",
				ArgsUsage: "<链接|房间号>",
				Action:    resolveAction,
			},
			{
				Name:      "link",
				Usage:     "生成播放链接，并监听直播间直到可播放或出错",
				ArgsUsage: "<链接|房间号>",
				Flags: append(clientFlags,
					&cli.StringFlag{
						Name:        "watch-mode",
						Usage:       "监听方式 auto|sse|poll",
						Destination: &cliValues.WatchMode,
					},
					&cli.StringFlag{
						Name:        "poll-interval",
						Usage:       "轮询间隔，如 2s",
						Destination: &cliValues.PollInterval,
					},
					&cli.BoolFlag{
						Name:        "copy",
						Usage:       "把生成的链接单独输出到标准输出",
						Destination: &cliValues.Copy,
					},
				),
				Action: linkAction(cliValues),
			},
			{
				Name:   "info",
				Usage:  "查看服务端信息",
				Flags:  clientFlags,
				Action: infoAction(cliValues),
			},
			{
				Name:  "serve",
				Usage: "启动状态服务",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "port",
						Aliases:     []string{"p"},
						Usage:       "服务监听端口",
						Destination: &cliValues.Port,
						Value:       0, // 使用 0 表示未设置，让 Viper 默认值生效
					},
					&cli.StringFlag{
						Name:        "bili-cookie",
						Usage:       "Bilibili Cookie",
						Destination: &cliValues.BiliCookie,
					},
					&cli.StringFlag{
						Name:        "room",
						Usage:       "未携带 room_id 时使用的默认房间号",
						Destination: &cliValues.Room,
					},
					dbFlag(cliValues),
				},
				Action: serveAction(cliValues),
			},
			configCommand(cliValues),
			historyCommand(cliValues),
		},
	}
}

// flagMap 将解析后的命令行值转换为 Viper 键值对，仅设置非空值
func (f *CliFlags) flagMap() map[string]interface{} {
	m := make(map[string]interface{})
	set := func(key, value string) {
		if value != "" {
			m[key] = value
		}
	}
	set("log_level", f.LogLevel)
	set("client.base_url", f.BaseURL)
	set("client.watch_mode", f.WatchMode)
	set("client.poll_interval", f.PollInterval)
	set("bili.cookie", f.BiliCookie)
	set("server.default_room_id", f.Room)
	set("db.path", f.DBPath)
	if f.Port != 0 {
		m["server.port"] = f.Port
	}
	return m
}

// loadConfig 加载配置并按最终的日志级别重建 logger
func loadConfig(f *CliFlags, configMap map[string]string) (*config.AppConfig, error) {
	cfg, err := config.InitViper(f.ConfigFile, f.flagMap(), configMap)
	if err != nil {
		return nil, err
	}
	logger.InitLogger(cfg.LogLevel)
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func resolveAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("请输入直播间链接或房间号")
	}
	res := room.Resolve(c.Args().First())
	if !res.OK() {
		return cli.Exit(res.Err.Error(), 1)
	}
	fmt.Fprintln(c.App.Writer, res.RoomID)
	return nil
}

func newStatusClient(cfg *config.AppConfig) (*status.Client, error) {
	return status.NewClient(cfg.Client.BaseURL, cfg.Client.RequestTimeout)
}

func linkAction(cliValues *CliFlags) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() == 0 {
			return errors.New("请输入直播间链接或房间号")
		}
		cfg, err := loadConfig(cliValues, nil)
		if err != nil {
			return err
		}
		mode, err := watch.ParseMode(cfg.Client.WatchMode)
		if err != nil {
			return err
		}
		client, err := newStatusClient(cfg)
		if err != nil {
			return err
		}

		opts := app.Options{
			Mode:         mode,
			PollInterval: cfg.Client.PollInterval,
		}
		if cliValues.Copy {
			opts.Clipboard = c.App.Writer
		}
		gen := app.NewGenerator(client, app.NewConsolePresenter(c.App.ErrWriter), opts)
		defer gen.Stop()

		ctx, cancel := signalContext()
		defer cancel()

		out, err := gen.Generate(ctx, c.Args().First())
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		if cliValues.Copy && out.Link != "" {
			_ = gen.Copy(out.Link)
		}
		if out.Session == nil {
			return nil
		}

		log.Debug().Str("room_id", out.RoomID).Str("mode", string(out.Session.Mode())).Msg("[cli] 开始监听")
		select {
		case <-out.Session.Done():
			if err := out.Session.Err(); err != nil {
				log.Warn().Err(err).Str("room_id", out.RoomID).Msg("[cli] 监听异常结束")
			}
		case <-ctx.Done():
			log.Info().Msg("[cli] 收到退出信号，停止监听")
		}
		return nil
	}
}

func infoAction(cliValues *CliFlags) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(cliValues, nil)
		if err != nil {
			return err
		}
		client, err := newStatusClient(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		info, err := client.FetchInfo(ctx)
		if err != nil {
			return fmt.Errorf("获取服务信息失败: %w", err)
		}
		app.NewConsolePresenter(c.App.Writer).ShowInfo(info)
		return nil
	}
}
