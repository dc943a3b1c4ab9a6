// Package transport 实现传输层收发：连接抽象和 TCP 长连接服务器
// 传输层只负责成帧和回调，不理解消息内容
package transport

// Conn 连接句柄抽象
// TCP 连接和 WebSocket 连接都实现此接口，核心通过它回写消息
type Conn interface {
	// ID 连接唯一标识，断连通知只携带句柄时靠它反查会话
	ID() string
	// Send 向客户端发送一帧消息，并发安全
	Send(payload []byte) error
	// Close 关闭底层连接
	Close() error
}

// Handler 入站消息回调，data 为一帧完整文档
type Handler func(conn Conn, data []byte)

// CloseHandler 断连通知回调，不携带文档
type CloseHandler func(conn Conn)
