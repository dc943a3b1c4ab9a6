// Package bus 实现集群消息总线
// 总线负责把发往某个用户的消息送达集群中持有该用户会话的节点
// 支持两种实现：RedisBus（发布订阅）、KafkaBus（广播主题），由配置 busConfig.mode 选择
package bus

import "context"

// DeliveryHandler 总线投递回调
// 当总线送达一条发往本节点已订阅用户的消息时，在总线自己的投递协程中调用
type DeliveryHandler func(userId int64, payload []byte)

// ClusterBus 集群消息总线接口
type ClusterBus interface {
	// Subscribe 订阅某用户的消息，该用户在本节点登录时调用
	Subscribe(userId int64) error
	// Unsubscribe 取消订阅，该用户注销或断开时调用
	Unsubscribe(userId int64) error
	// Publish 向集群发布一条发往指定用户的消息
	Publish(ctx context.Context, userId int64, payload []byte) error
	// OnDelivery 注册投递回调，必须在 Start 之前调用
	OnDelivery(h DeliveryHandler)
	// Start 启动投递循环
	Start() error
	// Close 关闭总线资源
	Close() error
}

// NoopBus 空实现
// 总线不可达时服务降级为单机模式，跨节点投递静默失效
type NoopBus struct{}

func (NoopBus) Subscribe(userId int64) error   { return nil }
func (NoopBus) Unsubscribe(userId int64) error { return nil }
func (NoopBus) Publish(ctx context.Context, userId int64, payload []byte) error {
	return nil
}
func (NoopBus) OnDelivery(h DeliveryHandler) {}
func (NoopBus) Start() error                 { return nil }
func (NoopBus) Close() error                 { return nil }
