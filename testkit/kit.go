// Package testkit 为集成测试提供共享依赖与后端连接助手。
//
// 各 Get*Connector 在对应后端不可达时跳过测试而不是失败，
// 使整个测试套件在没有外部服务的环境里仍可运行。
package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/metrics"
)

// NewLogger 返回用于测试的 logger，输出到 stdout 便于本地调试
func NewLogger() clog.Logger {
	logger, err := clog.New(&clog.Config{Level: "debug", Format: "console"})
	if err != nil {
		return clog.Discard()
	}
	return logger
}

// NewMeter 返回用于测试的 meter，不对外暴露抓取端点
func NewMeter() metrics.Meter {
	return metrics.Discard()
}

// NewContext 返回带超时的测试上下文
func NewContext(t *testing.T, timeout time.Duration) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), timeout)
}

// NewID 返回唯一的测试 ID (UUID 前 8 位)，用于生成互不冲突的
// 键、主题或服务名后缀
func NewID() string {
	return uuid.NewString()[:8]
}
