// Package notify 实现发现事件的跨进程广播。
//
// 编排器在进程内回调之外，把 discovered/updated/removed 事件
// 发布到外部通道 (Redis Pub/Sub 或 NATS)。投递是 fire-and-forget、
// 至少一次、不保证跨进程顺序：发布失败只记日志，永不传播回
// 发现周期。
package notify

import (
	"context"
	"time"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/service"
)

// 事件类型
const (
	EventDiscovered = "discovered"
	EventUpdated    = "updated"
	EventRemoved    = "removed"
)

// Event 一条发现事件
type Event struct {
	Type      string                 `json:"type" msgpack:"type"`
	Service   *service.UnifiedRecord `json:"service" msgpack:"service"`
	Timestamp time.Time              `json:"timestamp" msgpack:"timestamp"`
}

// Transport 消息通道的最小发布契约
type Transport interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Close() error
}

// Config 事件广播配置
type Config struct {
	// Serializer 序列化格式：json (默认) 或 msgpack
	Serializer string `mapstructure:"serializer"`
	// TopicPrefix 主题前缀 (默认: "service")
	TopicPrefix string `mapstructure:"topic_prefix"`
}

func (c *Config) setDefaults() {
	if c.Serializer == "" {
		c.Serializer = SerializerJSON
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "service"
	}
}

func (c *Config) validate() error {
	c.setDefaults()
	if c.Serializer != SerializerJSON && c.Serializer != SerializerMsgpack {
		return ErrUnknownSerializer
	}
	return nil
}

// Notifier 发现事件广播器。transport 为 nil 时所有发布都是空操作。
type Notifier struct {
	cfg        *Config
	transport  Transport
	serializer Serializer
	logger     clog.Logger
}

// New 创建广播器，transport 借用调用方管理的连接
func New(cfg *Config, transport Transport, opts ...Option) (*Notifier, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &Notifier{
		cfg:        cfg,
		transport:  transport,
		serializer: newSerializer(cfg.Serializer),
		logger:     opt.logger,
	}, nil
}

// Publish 广播一条事件。失败只记日志，永不上抛。
func (n *Notifier) Publish(ctx context.Context, eventType string, rec *service.UnifiedRecord) {
	if n == nil || n.transport == nil {
		return
	}

	evt := Event{Type: eventType, Service: rec, Timestamp: time.Now()}
	payload, err := n.serializer.Marshal(evt)
	if err != nil {
		n.logger.Warn("event encoding failed",
			clog.String("event", eventType),
			clog.Error(err))
		return
	}

	topic := n.cfg.TopicPrefix + ":" + eventType
	if err := n.transport.Publish(ctx, topic, payload); err != nil {
		n.logger.Warn("event publish failed",
			clog.String("topic", topic),
			clog.Error(err))
	}
}
