package model

// Room 查询过的直播间及最近一次检查结果
type Room struct {
	ID         int64  `gorm:"column:id;primaryKey" json:"id,string"`
	RoomID     string `gorm:"column:room_id;uniqueIndex;not null" json:"room_id"` // 用户请求的房间号
	RealID     int    `gorm:"column:real_id" json:"real_id"`                      // 真实房间号
	ShortID    int    `gorm:"column:short_id" json:"short_id"`
	Uid        int64  `gorm:"column:uid" json:"uid"`
	LiveStatus int    `gorm:"column:live_status;not null;default:0" json:"live_status"` // 0: 未开播 1: 直播中 2: 轮播中
	State      string `gorm:"column:state" json:"state"`
	Message    string `gorm:"column:message" json:"message"`
	CheckCount int64  `gorm:"column:check_count;not null;default:0" json:"check_count"`
	CreateTime int64  `gorm:"column:create_time;autoCreateTime:milli;type:integer" json:"create_time"`
	UpdateTime int64  `gorm:"column:update_time;autoUpdateTime:milli;type:integer" json:"update_time"`
}

func (Room) TableName() string {
	return "t_room"
}
