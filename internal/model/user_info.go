// Package model 定义数据库实体模型
// 本文件定义用户信息模型，包含用户基本资料和认证信息
package model

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"cluster_chat_server/pkg/enum/presence"
)

// UserInfo 用户信息模型
// 对应数据库 user_info 表，主键 ID 即协议中的用户 id
type UserInfo struct {
	gorm.Model // 内嵌 GORM 模型，包含 ID、CreatedAt、UpdatedAt、DeletedAt

	// Name 显示名称
	Name string `gorm:"column:name;type:varchar(50);not null;comment:显示名称"`

	// Password 密码（已哈希）
	// 存储 bcrypt 哈希后的密码，不存储明文
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// Status 在线状态
	// 0=离线, 1=在线，见 pkg/enum/presence
	Status int8 `gorm:"column:status;index;not null;default:0;comment:在线状态，0.离线，1.在线"`

	// RawPassword 明文密码（不存入数据库）
	// 用于接收客户端传来的明文密码，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// UserID 返回协议层使用的 int64 用户 id
func (u *UserInfo) UserID() int64 {
	return int64(u.ID)
}

// BeforeSave GORM Hook：在创建和更新前自动调用
// 将 RawPassword 明文密码加密后存入 Password 字段
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = "" // 清空明文，防止泄露
	}
	return nil
}

// CheckPassword 校验密码是否正确
// plaintext: 用户输入的明文密码
func (u *UserInfo) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext))
	return err == nil
}

// IsOnline 在线状态是否为在线
func (u *UserInfo) IsOnline() bool {
	return u.Status == presence.Online
}
