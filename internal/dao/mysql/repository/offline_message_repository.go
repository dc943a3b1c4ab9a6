package repository

import (
	"cluster_chat_server/internal/model"

	"gorm.io/gorm"
)

type offlineMessageRepository struct {
	db *gorm.DB
}

// NewOfflineMessageRepository 创建离线消息 Repository
func NewOfflineMessageRepository(db *gorm.DB) OfflineMessageRepository {
	return &offlineMessageRepository{db: db}
}

// Create 追加一条离线消息
func (r *offlineMessageRepository) Create(msg *model.OfflineMessage) error {
	if err := r.db.Create(msg).Error; err != nil {
		return wrapDBErrorf(err, "存储离线消息 user=%d", msg.UserId)
	}
	return nil
}

// DrainByUserId 取出并删除某用户的全部离线消息
// 查询和删除在同一事务内完成，按自增主键排序保证插入顺序
func (r *offlineMessageRepository) DrainByUserId(userId int64) ([]model.OfflineMessage, error) {
	var msgs []model.OfflineMessage
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userId).Order("id ASC").Find(&msgs).Error; err != nil {
			return err
		}
		if len(msgs) == 0 {
			return nil
		}
		// 只删除本次返回的行：删除条件是快照里查到的主键，
		// 并发入队、在快照之后提交的行留给下一次取出，不会未经返回就被删掉
		ids := make([]uint, 0, len(msgs))
		for _, m := range msgs {
			ids = append(ids, m.ID)
		}
		// Unscoped 物理删除，离线消息一经取出即不再保留
		return tx.Unscoped().Where("id IN ?", ids).Delete(&model.OfflineMessage{}).Error
	})
	if err != nil {
		return nil, wrapDBErrorf(err, "取出离线消息 user=%d", userId)
	}
	return msgs, nil
}
