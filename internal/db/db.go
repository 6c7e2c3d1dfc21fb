package db

import (
	"fmt"
	"os"
	"path/filepath"

	"pink-tide/internal/domain/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 打开 sqlite 数据库并迁移表结构，path 为 :memory: 时使用内存库
func InitDB(path string) (*gorm.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("创建数据库目录失败: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	if err := db.AutoMigrate(&model.Room{}, &model.Config{}); err != nil {
		return nil, fmt.Errorf("表迁移失败: %w", err)
	}

	log.Info().Str("path", path).Msg("[db] 数据库连接成功并已迁移")
	return db, nil
}
