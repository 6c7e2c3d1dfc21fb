package service

import (
	"context"

	"pink-tide/internal/domain/model"
	"pink-tide/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// RoomService 房间检查历史
type RoomService struct {
	repo *repository.RoomRepository
}

func NewRoomService(repo *repository.RoomRepository) *RoomService {
	return &RoomService{repo: repo}
}

// Record 记录一次检查结果
func (s *RoomService) Record(ctx context.Context, room *model.Room) error {
	if err := s.repo.UpsertRoom(ctx, room); err != nil {
		log.Err(err).Str("room_id", room.RoomID).Msg("[RoomService] 记录房间状态失败")
		return err
	}
	return nil
}

// ListRecent limit 取值 1 ~ 200，超出范围使用默认值
func (s *RoomService) ListRecent(ctx context.Context, limit int) ([]model.Room, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.ListRecentRooms(ctx, limit)
}

func (s *RoomService) Get(ctx context.Context, roomID string) (*model.Room, error) {
	return s.repo.GetRoomByRoomID(ctx, roomID)
}

// Remove 删除房间的检查历史
func (s *RoomService) Remove(ctx context.Context, roomID string) error {
	if err := s.repo.RemoveRoom(ctx, roomID); err != nil {
		log.Err(err).Str("room_id", roomID).Msg("[RoomService] 删除房间历史失败")
		return err
	}
	return nil
}
