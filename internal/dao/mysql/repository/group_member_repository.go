package repository

import (
	"cluster_chat_server/internal/model"

	"gorm.io/gorm"
)

type groupMemberRepository struct {
	db *gorm.DB
}

// NewGroupMemberRepository 创建群成员 Repository
func NewGroupMemberRepository(db *gorm.DB) GroupMemberRepository {
	return &groupMemberRepository{db: db}
}

// Create 添加群成员
func (r *groupMemberRepository) Create(member *model.GroupMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return wrapDBErrorf(err, "添加群成员 group=%d user=%d", member.GroupId, member.UserId)
	}
	return nil
}

// FindMemberIds 查询群组的所有成员 id
func (r *groupMemberRepository) FindMemberIds(groupId int64) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.GroupMember{}).
		Where("group_id = ?", groupId).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询群成员 group=%d", groupId)
	}
	return ids, nil
}
