// Package protocol 定义客户端协议：消息类型号、错误码和消息信封
// 线上格式为 JSON 文档，文档必须带 msgid 字段声明自己的类型
package protocol

import (
	"encoding/json"

	"cluster_chat_server/pkg/errorx"
)

// 消息类型号
const (
	LoginMsg       = 1  // 登录请求
	LoginMsgAck    = 2  // 登录响应
	LogoutMsg      = 3  // 注销请求
	RegMsg         = 4  // 注册请求
	RegMsgAck      = 5  // 注册响应
	OneChatMsg     = 6  // 单聊消息
	AddFriendMsg   = 7  // 添加好友请求
	CreateGroupMsg = 8  // 创建群组请求
	AddGroupMsg    = 9  // 加入群组请求
	GroupChatMsg   = 10 // 群聊消息
)

// 线上错误码，响应文档的 errno 字段
const (
	ErrnoSuccess       = 0 // 成功
	ErrnoUserNotFound  = 1 // 用户不存在 / 注册失败
	ErrnoBadPassword   = 2 // 密码错误
	ErrnoAlreadyOnline = 3 // 用户已在线
	ErrnoServerBusy    = 5 // 服务端内部错误
)

// Envelope 消息信封
// MsgID 为文档声明的消息类型，Raw 为完整的原始文档
// 转发场景（单聊、群聊、总线投递）始终原样转发 Raw，不重新编码
type Envelope struct {
	MsgID int
	Raw   []byte
}

// probe 只解出 msgid 字段，其余内容留在 Raw 中由各 handler 自行解码
type probe struct {
	MsgID int `json:"msgid"`
}

// ParseEnvelope 解析一帧原始数据为消息信封
// 不校验 msgid 以外的字段，类型相关的校验属于各 handler
func ParseEnvelope(data []byte) (*Envelope, error) {
	var p probe
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeInvalidParam, "解析消息失败")
	}
	if p.MsgID == 0 {
		return nil, errorx.New(errorx.CodeInvalidParam, "消息缺少 msgid")
	}
	raw := make([]byte, len(data))
	copy(raw, data)
	return &Envelope{MsgID: p.MsgID, Raw: raw}, nil
}
