// Package chat 实现聊天系统的核心服务层：会话注册、协议分发和三级消息投递
// registry.go
// 核心职责：本进程的会话注册表
// 维护用户 id 到连接句柄的映射，是全进程唯一的共享可变状态
package chat

import (
	"sync"

	"cluster_chat_server/internal/transport"
)

// Registry 会话注册表
// 单锁保护，所有操作只在持锁期间做 map 读写，绝不在持锁期间做 I/O
type Registry struct {
	mu    sync.Mutex
	conns map[int64]transport.Conn
}

// NewRegistry 创建会话注册表
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[int64]transport.Conn),
	}
}

// Put 登记会话
// 同一 id 重复登记时后写覆盖
func (r *Registry) Put(userId int64, conn transport.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[userId] = conn
}

// Find 按用户 id 查找连接句柄
func (r *Registry) Find(userId int64) (transport.Conn, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[userId]
	return conn, ok
}

// Remove 按用户 id 注销会话，id 不存在时为空操作
func (r *Registry) Remove(userId int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, userId)
}

// RemoveByConn 按连接句柄注销会话并返回对应的用户 id
// 断连通知只携带句柄，需要线性扫描反查；句柄未登记时返回 false
func (r *Registry) RemoveByConn(conn transport.Conn) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userId, c := range r.conns {
		if c.ID() == conn.ID() {
			delete(r.conns, userId)
			return userId, true
		}
	}
	return 0, false
}
