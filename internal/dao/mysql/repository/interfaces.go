package repository

import (
	"cluster_chat_server/internal/model"

	"gorm.io/gorm"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
// 核心通过它读取身份信息和读写在线状态标志
type UserRepository interface {
	// FindById 根据 id 查找用户
	FindById(id int64) (*model.UserInfo, error)
	// Create 创建新用户，成功后 user.ID 为新分配的 id
	Create(user *model.UserInfo) error
	// UpdatePresence 更新用户的在线状态标志
	UpdatePresence(id int64, status int8) error
	// ResetAllPresence 将所有在线标志重置为离线，服务器启动时调用
	ResetAllPresence() error
}

// FriendRepository 好友关系数据访问接口
type FriendRepository interface {
	// Create 插入好友边（双向两行）
	Create(userId, friendId int64) error
	// FindFriendsOf 查询用户的好友列表（含好友的在线状态）
	FindFriendsOf(userId int64) ([]model.UserInfo, error)
}

// GroupRepository 群组数据访问接口
type GroupRepository interface {
	// Create 创建新群组，成功后 group.ID 为新分配的群组 id
	Create(group *model.GroupInfo) error
	// FindById 根据 id 查找群组
	FindById(id int64) (*model.GroupInfo, error)
}

// GroupMemberRepository 群成员数据访问接口
type GroupMemberRepository interface {
	// Create 添加群成员
	Create(member *model.GroupMember) error
	// FindMemberIds 查询群组的所有成员 id
	FindMemberIds(groupId int64) ([]int64, error)
}

// OfflineMessageRepository 离线消息数据访问接口
type OfflineMessageRepository interface {
	// Create 追加一条离线消息
	Create(msg *model.OfflineMessage) error
	// DrainByUserId 取出并删除某用户的全部离线消息，按插入顺序返回
	// 取出和删除在同一事务内完成，同一批消息不会被第二次返回
	DrainByUserId(userId int64) ([]model.OfflineMessage, error)
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
// 需要跨表事务的操作在各 Repository 内部用 gorm 事务实现（见 friendRepository.Create）
type Repositories struct {
	User           UserRepository           // 用户 Repository
	Friend         FriendRepository         // 好友 Repository
	Group          GroupRepository          // 群组 Repository
	GroupMember    GroupMemberRepository    // 群成员 Repository
	OfflineMessage OfflineMessageRepository // 离线消息 Repository
}

// NewRepositories 创建所有 Repository 实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:           NewUserRepository(db),
		Friend:         NewFriendRepository(db),
		Group:          NewGroupRepository(db),
		GroupMember:    NewGroupMemberRepository(db),
		OfflineMessage: NewOfflineMessageRepository(db),
	}
}
