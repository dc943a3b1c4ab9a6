// dispatcher.go
// 核心职责：协议分发
// 消息类型号到 handler 的映射在服务构造时建好，运行期只读
package chat

import (
	"cluster_chat_server/internal/protocol"
	"cluster_chat_server/internal/transport"

	"go.uber.org/zap"
)

// HandlerFunc 消息处理函数类型
type HandlerFunc func(conn transport.Conn, env *protocol.Envelope)

// Dispatch 传输层入站帧的统一入口
// 解析信封、查表、调用 handler；任何失败都不会越过分发边界
func (s *ChatService) Dispatch(conn transport.Conn, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("handler panic", zap.Any("recover", r), zap.String("conn", conn.ID()))
		}
	}()

	env, err := protocol.ParseEnvelope(data)
	if err != nil {
		// 协议错误：记录后静默丢弃，不回响应
		zap.L().Error("非法消息帧", zap.Error(err), zap.String("conn", conn.ID()))
		return
	}
	s.handlerFor(env.MsgID)(conn, env)
}

// handlerFor 查找消息类型对应的 handler
// 未注册的类型返回默认 handler：记录后丢弃
func (s *ChatService) handlerFor(msgId int) HandlerFunc {
	if h, ok := s.handlers[msgId]; ok {
		return h
	}
	return func(conn transport.Conn, env *protocol.Envelope) {
		zap.L().Error("msgid can not find handler", zap.Int("msgid", env.MsgID))
	}
}
