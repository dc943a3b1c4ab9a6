package repository

import (
	"fmt"
	"testing"

	"cluster_chat_server/internal/model"

	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// openTestDB 连接本地测试库，连不上时跳过
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "root:root@tcp(127.0.0.1:3306)/cluster_chat_test?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Skipf("mysql not reachable: %v", err)
	}
	if err := db.AutoMigrate(&model.OfflineMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Unscoped().Where("1 = 1").Delete(&model.OfflineMessage{}).Error; err != nil {
		t.Fatalf("clean table: %v", err)
	}
	return db
}

func TestOfflineMessageDrain(t *testing.T) {
	db := openTestDB(t)
	repo := NewOfflineMessageRepository(db)

	for i := 0; i < 3; i++ {
		msg := &model.OfflineMessage{Uuid: int64(9100 + i), UserId: 7, Payload: fmt.Sprintf("m%d", i)}
		if err := repo.Create(msg); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if err := repo.Create(&model.OfflineMessage{Uuid: 9200, UserId: 8, Payload: "other"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	msgs, err := repo.DrainByUserId(7)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, m := range msgs {
		if m.Payload != fmt.Sprintf("m%d", i) {
			t.Fatalf("messages out of insert order: %v", msgs)
		}
	}

	// 第二次取出为空：上一批已删除
	again, err := repo.DrainByUserId(7)
	if err != nil {
		t.Fatalf("second drain: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("second drain must be empty, got %d rows", len(again))
	}

	// 删除只按返回行的主键进行：其他用户的行原样保留
	var count int64
	if err := db.Model(&model.OfflineMessage{}).Where("user_id = ?", 8).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("other user's messages must survive the drain, got %d", count)
	}

	// 取出之后新入队的消息属于下一批，由下一次取出返回
	if err := repo.Create(&model.OfflineMessage{Uuid: 9300, UserId: 7, Payload: "late"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	late, err := repo.DrainByUserId(7)
	if err != nil {
		t.Fatalf("third drain: %v", err)
	}
	if len(late) != 1 || late[0].Payload != "late" {
		t.Fatalf("late message must be returned by the next drain, got %v", late)
	}
}
