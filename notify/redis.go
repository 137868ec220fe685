package notify

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// redisTransport 基于 Redis Pub/Sub 的事件通道
type redisTransport struct {
	client *redis.Client
}

// NewRedisTransport 创建 Redis 事件通道，客户端借用自调用方的连接器
func NewRedisTransport(client *redis.Client) Transport {
	return &redisTransport{client: client}
}

func (t *redisTransport) Publish(ctx context.Context, topic string, payload []byte) error {
	return t.client.Publish(ctx, topic, payload).Err()
}

// Close 连接归连接器所有，这里不做任何事
func (t *redisTransport) Close() error {
	return nil
}
