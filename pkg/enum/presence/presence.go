// Package presence 定义用户在线状态枚举
package presence

// 用户在线状态，持久化在 user_info 表的 status 字段
const (
	Offline int8 = 0 // 离线
	Online  int8 = 1 // 在线
)

// Label 返回状态对应的协议字符串
func Label(status int8) string {
	if status == Online {
		return "online"
	}
	return "offline"
}
