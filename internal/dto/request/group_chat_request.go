package request

// GroupChatRequest 群聊消息
// 完整文档会被原样转发给各成员，这里只解出路由需要的字段
type GroupChatRequest struct {
	Id      int64  `json:"id"`      // 发送者id
	GroupId int64  `json:"groupid"` // 群组id
	Msg     string `json:"msg"`     // 消息内容
}
