package model

import "gorm.io/gorm"

// GroupMember 群成员关联表
type GroupMember struct {
	gorm.Model
	GroupId int64 `gorm:"column:group_id;index;not null;comment:群组id"`
	UserId  int64 `gorm:"column:user_id;index;not null;comment:用户id"`
	Role    int8  `gorm:"column:role;default:1;comment:1普通成员 2群主"`
}

func (GroupMember) TableName() string {
	return "group_member"
}
