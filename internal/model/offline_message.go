package model

import "gorm.io/gorm"

// OfflineMessage 离线消息表
// 每行保存一条未能投递的原始消息载荷，按自增主键保证单个接收者内的插入顺序
type OfflineMessage struct {
	gorm.Model
	Uuid    int64  `gorm:"column:uuid;uniqueIndex;not null;comment:消息雪花id"`
	UserId  int64  `gorm:"column:user_id;index;not null;comment:接收者id"`
	Payload string `gorm:"column:payload;type:text;not null;comment:原始消息载荷"`
}

func (OfflineMessage) TableName() string {
	return "offline_message"
}
