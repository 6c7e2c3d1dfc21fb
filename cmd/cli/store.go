package cli

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"

	"pink-tide/internal/db"
	"pink-tide/internal/repository"
	"pink-tide/internal/service"
	"pink-tide/pkg/config"
	"pink-tide/pkg/util"

	"github.com/urfave/cli/v2"
)

// openStore 打开房间历史数据库，返回的 close 用于释放连接
func openStore(dbPath string) (*service.Service, func(), error) {
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}
	gormDB, err := db.InitDB(dbPath)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	if sqlDB, err := gormDB.DB(); err == nil {
		closeFn = func() { _ = sqlDB.Close() }
	}
	return service.NewService(repository.NewRepository(gormDB)), closeFn, nil
}

func dbFlag(cliValues *CliFlags) cli.Flag {
	return &cli.StringFlag{
		Name:        "db",
		Usage:       "房间历史数据库路径",
		Destination: &cliValues.DBPath,
	}
}

// configCommand 管理数据库中的配置覆盖项，serve 启动时作为默认值加载
func configCommand(cliValues *CliFlags) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "管理数据库中的配置项",
		Flags: []cli.Flag{dbFlag(cliValues)},
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "列出所有配置项",
				Action: func(c *cli.Context) error {
					svc, closeFn, err := openStore(cliValues.DBPath)
					if err != nil {
						return err
					}
					defer closeFn()

					configs, err := svc.ConfigService.List()
					if err != nil {
						return err
					}
					w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
					for _, cfg := range configs {
						fmt.Fprintf(w, "%s\t%s\t%s\n", cfg.Key, cfg.Value, cfg.Description)
					}
					return w.Flush()
				},
			},
			{
				Name:      "get",
				Usage:     "查看配置项",
				ArgsUsage: "<key>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("用法: config get <key>")
					}
					svc, closeFn, err := openStore(cliValues.DBPath)
					if err != nil {
						return err
					}
					defer closeFn()

					cfg, err := svc.ConfigService.Get(c.Args().First())
					if err != nil {
						return err
					}
					if cfg == nil {
						return fmt.Errorf("配置项不存在: %s", c.Args().First())
					}
					fmt.Fprintln(c.App.Writer, cfg.Value)
					return nil
				},
			},
			{
				Name:      "set",
				Usage:     "新增或更新配置项，如 config set server.default_room_id 22109408",
				ArgsUsage: "<key> <value>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "desc", Usage: "配置说明"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() != 2 {
						return errors.New("用法: config set <key> <value>")
					}
					svc, closeFn, err := openStore(cliValues.DBPath)
					if err != nil {
						return err
					}
					defer closeFn()

					return svc.ConfigService.Save(c.Args().Get(0), c.Args().Get(1), c.String("desc"))
				},
			},
		},
	}
}

// historyCommand 查看或清理房间检查历史
func historyCommand(cliValues *CliFlags) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "查看最近检查过的直播间",
		Flags: []cli.Flag{
			dbFlag(cliValues),
			&cli.IntFlag{Name: "limit", Usage: "最多显示的条数", Value: 20},
		},
		Action: func(c *cli.Context) error {
			svc, closeFn, err := openStore(cliValues.DBPath)
			if err != nil {
				return err
			}
			defer closeFn()

			rooms, err := svc.RoomService.ListRecent(c.Context, c.Int("limit"))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ROOM\tREAL\tSTATE\tCHECKS\tUPDATED\tMESSAGE")
			for _, r := range rooms {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
					r.RoomID, strconv.Itoa(r.RealID), r.State, r.CheckCount,
					util.MillisToTime(r.UpdateTime).Format("2006-01-02 15:04:05"), r.Message)
			}
			return w.Flush()
		},
		Subcommands: []*cli.Command{
			{
				Name:      "rm",
				Usage:     "删除房间的检查历史",
				ArgsUsage: "<room_id>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return errors.New("用法: history rm <room_id>")
					}
					svc, closeFn, err := openStore(cliValues.DBPath)
					if err != nil {
						return err
					}
					defer closeFn()
					return svc.RoomService.Remove(c.Context, c.Args().First())
				},
			},
		},
	}
}
