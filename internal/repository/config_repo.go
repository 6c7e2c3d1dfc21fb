package repository

import (
	"errors"

	"pink-tide/internal/domain/model"
	"pink-tide/pkg/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConfigRepository struct {
	db *gorm.DB
}

func NewConfigRepository(db *gorm.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

func (c *ConfigRepository) ListConfigs() ([]model.Config, error) {
	var configs []model.Config
	err := c.db.Order("key").Find(&configs).Error
	return configs, err
}

func (c *ConfigRepository) ListConfigsMap() (map[string]string, error) {
	configs, err := c.ListConfigs()
	if err != nil {
		return nil, err
	}

	configMap := make(map[string]string, len(configs))
	for _, cfg := range configs {
		configMap[cfg.Key] = cfg.Value
	}
	return configMap, nil
}

// SaveConfig key 已存在时更新 value
func (c *ConfigRepository) SaveConfig(config *model.Config) error {
	if config == nil || config.Key == "" {
		return errors.New("config 为空")
	}
	if config.ID == 0 {
		config.ID = util.MustNextID()
	}
	return c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "update_time"}),
	}).Create(config).Error
}

func (c *ConfigRepository) GetConfigByKey(key string) (*model.Config, error) {
	var config model.Config
	err := c.db.Where("key = ?", key).First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}
