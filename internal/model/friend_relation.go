package model

import "gorm.io/gorm"

// FriendRelation 好友关系表
// 无序对 (UserId, FriendId)，添加好友时写入双向两行，便于按单边查询
type FriendRelation struct {
	gorm.Model
	UserId   int64 `gorm:"column:user_id;index;not null;comment:用户id"`
	FriendId int64 `gorm:"column:friend_id;not null;comment:好友id"`
}

func (FriendRelation) TableName() string {
	return "friend_relation"
}
