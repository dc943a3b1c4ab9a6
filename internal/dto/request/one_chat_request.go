package request

// OneChatRequest 单聊消息
// 完整文档会被原样转发给接收方，这里只解出路由需要的字段
type OneChatRequest struct {
	Id  int64  `json:"id"`  // 发送者id
	To  int64  `json:"to"`  // 接收者id
	Msg string `json:"msg"` // 消息内容
}
