package repository

import (
	"cluster_chat_server/internal/model"
	"cluster_chat_server/pkg/enum/presence"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindById 按 id 查找用户
func (r *userRepository) FindById(id int64) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 id=%d", id)
	}
	return &user, nil
}

// Create 创建用户
// 密码哈希由 model.UserInfo 的 BeforeSave Hook 完成
func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// UpdatePresence 更新用户在线状态标志
func (r *userRepository) UpdatePresence(id int64, status int8) error {
	if err := r.db.Model(&model.UserInfo{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return wrapDBErrorf(err, "更新用户在线状态 id=%d", id)
	}
	return nil
}

// ResetAllPresence 将所有在线用户重置为离线
// 进程崩溃会遗留过期的在线标志，启动时统一清理
func (r *userRepository) ResetAllPresence() error {
	if err := r.db.Model(&model.UserInfo{}).Where("status = ?", presence.Online).Update("status", presence.Offline).Error; err != nil {
		return wrapDBError(err, "重置用户在线状态")
	}
	return nil
}
