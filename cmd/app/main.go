package main

import (
	"pink-tide/cmd/cli"
	"pink-tide/pkg/logger"
	"pink-tide/pkg/util"

	"github.com/rs/zerolog/log"
)

func main() {
	// 打包命令 go build -ldflags="-s -w -X pink-tide/internal/api/handler.Version=1.0.0" -o pink-tide ./cmd/app

	// 1. 设置日志格式/系统，加载配置后按 log_level 重新初始化
	logger.InitLogger("info")

	// 2. 会话与数据库记录使用的 ID 生成器
	if err := util.InitIDGenerator(1); err != nil {
		log.Fatal().Err(err).Msg("初始化 ID 生成器失败")
	}

	// 3. 启动 CLI 应用和配置加载 (核心逻辑)
	if err := cli.Execute(); err != nil {
		// 所有的配置加载、CLI 解析错误都在这里捕获
		log.Fatal().Err(err).Msg("应用启动失败")
	}
}
