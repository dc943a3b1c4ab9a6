// kafka_bus.go
// 基于 Kafka 广播主题的总线实现
// 所有节点消费同一主题的全量消息（每节点独立消费组），消息 key 为接收者 id，
// 节点按本地订阅集过滤后回调，未订阅的消息直接跳过
package bus

import (
	"context"
	"strconv"
	"sync"
	"time"

	"cluster_chat_server/internal/config"
	"cluster_chat_server/pkg/errorx"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// KafkaBus Kafka 广播总线
type KafkaBus struct {
	producer *kafka.Writer
	consumer *kafka.Reader
	handler  DeliveryHandler

	mu         sync.Mutex
	subscribed map[int64]struct{}

	cancel context.CancelFunc
}

// NewKafkaBus 创建 Kafka 总线
// 每个节点使用随机消费组 id，使广播主题上的每条消息被所有节点各消费一次
func NewKafkaBus(cfg *config.BusConfig) *KafkaBus {
	producer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.HostPort),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           cfg.Timeout * time.Second,
		RequiredAcks:           kafka.RequireNone,
		AllowAutoTopicCreation: true,
	}
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.HostPort},
		Topic:          cfg.Topic,
		CommitInterval: cfg.Timeout * time.Second,
		GroupID:        "chat-bus-" + uuid.NewString(),
		StartOffset:    kafka.LastOffset,
	})
	return &KafkaBus{
		producer:   producer,
		consumer:   consumer,
		subscribed: make(map[int64]struct{}),
	}
}

// Subscribe 将用户加入本地订阅集
func (b *KafkaBus) Subscribe(userId int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribed[userId] = struct{}{}
	return nil
}

// Unsubscribe 将用户移出本地订阅集
func (b *KafkaBus) Unsubscribe(userId int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribed, userId)
	return nil
}

// isSubscribed 本节点是否持有该用户的订阅
func (b *KafkaBus) isSubscribed(userId int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.subscribed[userId]
	return ok
}

// Publish 向广播主题发布消息，key 为接收者 id
func (b *KafkaBus) Publish(ctx context.Context, userId int64, payload []byte) error {
	err := b.producer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(userId, 10)),
		Value: payload,
	})
	if err != nil {
		return errorx.Wrapf(err, errorx.CodeBusError, "kafka 发布消息 user=%d", userId)
	}
	return nil
}

// OnDelivery 注册投递回调
func (b *KafkaBus) OnDelivery(h DeliveryHandler) {
	b.handler = h
}

// Start 启动消费协程
func (b *KafkaBus) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("kafka bus 消费协程 panic", zap.Any("recover", r))
			}
		}()
		for {
			msg, err := b.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return // 总线已关闭
				}
				zap.L().Error("kafka bus 读取消息失败", zap.Error(err))
				continue
			}
			userId, err := strconv.ParseInt(string(msg.Key), 10, 64)
			if err != nil {
				zap.L().Warn("kafka bus 收到非法 key", zap.ByteString("key", msg.Key))
				continue
			}
			// 广播主题上有全集群的消息，只投递本节点订阅的用户
			if !b.isSubscribed(userId) {
				continue
			}
			if b.handler != nil {
				b.handler(userId, msg.Value)
			}
		}
	}()
	return nil
}

// Close 关闭生产者和消费者
func (b *KafkaBus) Close() error {
	if b.cancel != nil {
		b.cancel()
	}
	if err := b.producer.Close(); err != nil {
		zap.L().Error(err.Error())
	}
	return b.consumer.Close()
}
