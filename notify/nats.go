package notify

import (
	"context"
	"strings"

	"github.com/nats-io/nats.go"
)

// natsTransport 基于 NATS 的事件通道。
// 主题里的冒号替换为 NATS 的点分层级。
type natsTransport struct {
	conn *nats.Conn
}

// NewNATSTransport 创建 NATS 事件通道，连接借用自调用方的连接器
func NewNATSTransport(conn *nats.Conn) Transport {
	return &natsTransport{conn: conn}
}

func (t *natsTransport) Publish(ctx context.Context, topic string, payload []byte) error {
	subject := strings.ReplaceAll(topic, ":", ".")
	return t.conn.Publish(subject, payload)
}

// Close 连接归连接器所有，这里不做任何事
func (t *natsTransport) Close() error {
	return nil
}
