package service

import (
	"pink-tide/internal/domain/model"
	"pink-tide/internal/repository"
)

// ConfigService 数据库中的配置覆盖项
type ConfigService struct {
	repo *repository.ConfigRepository
}

func NewConfigService(repo *repository.ConfigRepository) *ConfigService {
	return &ConfigService{repo: repo}
}

// ListConfigMap 供 config.InitViper 合并
func (s *ConfigService) ListConfigMap() (map[string]string, error) {
	return s.repo.ListConfigsMap()
}

func (s *ConfigService) Save(key, value, description string) error {
	return s.repo.SaveConfig(&model.Config{Key: key, Value: value, Description: description})
}

func (s *ConfigService) List() ([]model.Config, error) {
	return s.repo.ListConfigs()
}

// Get 不存在时返回 nil, nil
func (s *ConfigService) Get(key string) (*model.Config, error) {
	return s.repo.GetConfigByKey(key)
}
