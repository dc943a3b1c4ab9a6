// redis_bus.go
// 基于 Redis 发布订阅的总线实现
// 每个用户一个频道（chat:user:<id>），节点为本地登录的用户订阅对应频道
package bus

import (
	"context"
	"strconv"
	"strings"

	"cluster_chat_server/pkg/constants"
	"cluster_chat_server/pkg/errorx"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBus Redis 发布订阅总线
type RedisBus struct {
	client  *redis.Client
	pubsub  *redis.PubSub
	handler DeliveryHandler
}

// NewRedisBus 创建 Redis 总线
// client 必须已完成连接探活
func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{
		client: client,
		// 先建立空订阅连接，登录时再动态加频道
		pubsub: client.Subscribe(context.Background()),
	}
}

// channelFor 拼接用户频道名
func channelFor(userId int64) string {
	return constants.BUS_CHANNEL_PREFIX + strconv.FormatInt(userId, 10)
}

// userFromChannel 从频道名解出用户 id
func userFromChannel(channel string) (int64, bool) {
	raw, ok := strings.CutPrefix(channel, constants.BUS_CHANNEL_PREFIX)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Subscribe 订阅用户频道
func (b *RedisBus) Subscribe(userId int64) error {
	if err := b.pubsub.Subscribe(context.Background(), channelFor(userId)); err != nil {
		return errorx.Wrapf(err, errorx.CodeBusError, "订阅用户频道 user=%d", userId)
	}
	return nil
}

// Unsubscribe 取消订阅用户频道
func (b *RedisBus) Unsubscribe(userId int64) error {
	if err := b.pubsub.Unsubscribe(context.Background(), channelFor(userId)); err != nil {
		return errorx.Wrapf(err, errorx.CodeBusError, "取消订阅用户频道 user=%d", userId)
	}
	return nil
}

// Publish 向用户频道发布消息
func (b *RedisBus) Publish(ctx context.Context, userId int64, payload []byte) error {
	if err := b.client.Publish(ctx, channelFor(userId), payload).Err(); err != nil {
		return errorx.Wrapf(err, errorx.CodeBusError, "发布消息 user=%d", userId)
	}
	return nil
}

// OnDelivery 注册投递回调
func (b *RedisBus) OnDelivery(h DeliveryHandler) {
	b.handler = h
}

// Start 启动投递协程
// 从订阅连接读消息，解析频道名得到用户 id，交给回调
func (b *RedisBus) Start() error {
	ch := b.pubsub.Channel()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("redis bus 投递协程 panic", zap.Any("recover", r))
			}
		}()
		for msg := range ch {
			userId, ok := userFromChannel(msg.Channel)
			if !ok {
				zap.L().Warn("redis bus 收到未知频道消息", zap.String("channel", msg.Channel))
				continue
			}
			if b.handler != nil {
				b.handler(userId, []byte(msg.Payload))
			}
		}
	}()
	return nil
}

// Close 关闭订阅连接，投递协程随 Channel 关闭退出
func (b *RedisBus) Close() error {
	return b.pubsub.Close()
}
