// Package connector 为 Scout 提供统一的连接管理能力。
//
// 核心特性：
//   - 统一抽象：通过 Connector 接口提供一致的连接管理 API
//   - 类型安全：通过 TypedConnector[T] 泛型接口确保编译时类型检查
//   - 多后端支持：Redis、NATS、SQLite、Etcd、Docker Daemon
//   - 并发安全：所有公开方法均为并发安全
//
// 设计理念：
//   - 延迟连接：NewXXX() 创建连接器但不立即建立连接，Connect() 时才连接
//   - 幂等连接：Connect() 方法可安全重复调用
//   - 借用模型：组件（registry、notify、发现源）借用连接器的连接，
//     不负责连接的生命周期，Close() 应在应用层调用
package connector

import (
	"context"

	dockerclient "github.com/docker/docker/client"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	clientv3 "go.etcd.io/etcd/client/v3"
	"gorm.io/gorm"
)

// Connector 定义所有连接器的通用行为。
type Connector interface {
	// Connect 建立连接。幂等，可安全多次调用。
	Connect(ctx context.Context) error

	// Close 关闭连接并释放资源。幂等。
	Close() error

	// HealthCheck 通过测试请求验证连接可用性，并更新内部健康状态缓存。
	HealthCheck(ctx context.Context) error

	// IsHealthy 无阻塞返回最后一次 HealthCheck 的结果。
	IsHealthy() bool

	// Name 返回连接实例名称，用于日志和指标标识。
	Name() string
}

// TypedConnector 提供类型安全的客户端访问。
//
// 类型参数 T 是客户端类型，如 *redis.Client、*gorm.DB 等。
// 在 Connect() 之前或 Close() 之后调用 GetClient() 可能返回 nil。
type TypedConnector[T any] interface {
	Connector

	// GetClient 返回底层客户端实例。
	GetClient() T
}

// RedisConnector Redis 连接器接口，notify 组件的事件通道后端。
type RedisConnector interface {
	TypedConnector[*redis.Client]
}

// NATSConnector NATS 连接器接口，notify 组件的备选事件通道后端。
type NATSConnector interface {
	TypedConnector[*nats.Conn]
}

// SQLiteConnector SQLite 连接器接口，基于 GORM，registry 持久化模式的后端。
type SQLiteConnector interface {
	TypedConnector[*gorm.DB]
}

// EtcdConnector Etcd 连接器接口，extreg 的 etcd 子适配器后端。
type EtcdConnector interface {
	TypedConnector[*clientv3.Client]
}

// DockerConnector Docker Daemon 连接器接口，docker 发现源的后端。
type DockerConnector interface {
	TypedConnector[*dockerclient.Client]
}
