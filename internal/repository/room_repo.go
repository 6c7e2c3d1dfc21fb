package repository

import (
	"context"
	"errors"

	"pink-tide/internal/domain/model"
	"pink-tide/pkg/util"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// GetRoomByRoomID 查不到返回 nil, nil
func (r *RoomRepository) GetRoomByRoomID(ctx context.Context, roomID string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).Where("room_id = ?", roomID).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// UpsertRoom 按 room_id 新增或更新检查结果，check_count 自增
func (r *RoomRepository) UpsertRoom(ctx context.Context, room *model.Room) error {
	if room == nil || room.RoomID == "" {
		return errors.New("room_id 不能为空")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Room
		err := tx.Where("room_id = ?", room.RoomID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if room.ID == 0 {
				room.ID = util.MustNextID()
			}
			room.CheckCount = 1
			return tx.Create(room).Error
		}
		if err != nil {
			return err
		}

		room.ID = existing.ID
		return tx.Model(&model.Room{}).Where("id = ?", existing.ID).Updates(map[string]any{
			"real_id":     room.RealID,
			"short_id":    room.ShortID,
			"uid":         room.Uid,
			"live_status": room.LiveStatus,
			"state":       room.State,
			"message":     room.Message,
			"check_count": gorm.Expr("check_count + 1"),
			"update_time": util.NowMillis(),
		}).Error
	})
}

// ListRecentRooms 按最近检查时间倒序
func (r *RoomRepository) ListRecentRooms(ctx context.Context, limit int) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).Order("update_time DESC").Limit(limit).Find(&rooms).Error
	return rooms, err
}

func (r *RoomRepository) RemoveRoom(ctx context.Context, roomID string) error {
	return r.db.WithContext(ctx).Where("room_id = ?", roomID).Delete(&model.Room{}).Error
}
