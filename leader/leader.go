// Package leader 实现编排器实例间的领导者选举。
//
// 多副本部署时只有领导者运行持续发现，避免多个实例同时
// 写服务目录和重复派发事件。提供 Redis (SET NX + 看门狗
// 续期) 与 Etcd (session 租约) 两种后端，借用调用方的连接器。
package leader

import (
	"context"
	"time"
)

// Elector 领导权的获取与让出。
// 实现必须保证同一时刻至多一个实例持有领导权。
type Elector interface {
	// Campaign 阻塞竞选，直到取得领导权或上下文取消
	Campaign(ctx context.Context) error
	// TryAcquire 非阻塞尝试取得领导权，被占用时返回 false
	TryAcquire(ctx context.Context) (bool, error)
	// Resign 主动让出领导权，未持有时返回 ErrNotLeader
	Resign(ctx context.Context) error
	// IsLeader 报告当前是否持有领导权。后端租约丢失后返回 false。
	IsLeader() bool
	// Close 释放选举资源，已持有的领导权一并让出
	Close() error
}

// campaign 以固定间隔轮询 TryAcquire，Campaign 的公共实现
func campaign(ctx context.Context, e Elector, interval time.Duration) error {
	for {
		ok, err := e.TryAcquire(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}
