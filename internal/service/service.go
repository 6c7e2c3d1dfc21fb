package service

import "pink-tide/internal/repository"

type Service struct {
	RoomService   *RoomService
	ConfigService *ConfigService
}

func NewService(repo *repository.Repository) *Service {
	return &Service{
		RoomService:   NewRoomService(repo.Room),
		ConfigService: NewConfigService(repo.Config),
	}
}
