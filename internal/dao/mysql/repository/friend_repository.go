package repository

import (
	"cluster_chat_server/internal/model"

	"gorm.io/gorm"
)

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository 创建好友 Repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

// Create 插入好友边
// 好友关系是无序对，写入双向两行，查询时只需按 user_id 单边查
func (r *friendRepository) Create(userId, friendId int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model.FriendRelation{UserId: userId, FriendId: friendId}).Error; err != nil {
			return err
		}
		return tx.Create(&model.FriendRelation{UserId: friendId, FriendId: userId}).Error
	})
	return wrapDBErrorf(err, "添加好友 user=%d friend=%d", userId, friendId)
}

// FindFriendsOf 查询用户的好友列表
// 联表取好友的用户信息，包含当前在线状态
func (r *friendRepository) FindFriendsOf(userId int64) ([]model.UserInfo, error) {
	var friends []model.UserInfo
	err := r.db.Model(&model.UserInfo{}).
		Joins("JOIN friend_relation ON friend_relation.friend_id = user_info.id").
		Where("friend_relation.user_id = ?", userId).
		Find(&friends).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询好友列表 user=%d", userId)
	}
	return friends, nil
}
