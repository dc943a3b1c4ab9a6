package model

import (
	"gorm.io/gorm"
)

type GroupInfo struct {
	gorm.Model
	Name string `gorm:"column:name;type:varchar(50);not null;comment:群名称"`
	Desc string `gorm:"column:description;type:varchar(200);comment:群描述"`
}

func (GroupInfo) TableName() string {
	return "group_info"
}

// GroupID 返回协议层使用的 int64 群组 id
func (g *GroupInfo) GroupID() int64 {
	return int64(g.ID)
}
