// Package probe 实现可插拔的服务健康探针。
//
// 变体：HTTP (GET 健康端点，2xx 即健康)、TCP (端口连通性)、
// Process (进程存活)、Script (自定义命令退出码)、Composite (全部
// 子探针健康才算健康)。工厂按记录声明的字段以固定优先级选择探针：
// 显式健康端点 > 端口 > 进程 PID > 无操作探针。
package probe

import (
	"context"
	"strconv"
	"time"

	"github.com/ceyewan/scout/service"
)

// Probe 单次健康检查能力。检查失败表达为不健康的结果而非 error。
type Probe interface {
	Kind() string
	Check(ctx context.Context, target Target) service.HealthResult
}

// Target 探针的检查对象，由服务记录声明的字段组成
type Target struct {
	Name           string
	HealthEndpoint string
	Host           string
	Port           int
	PID            int32
	Command        []string
}

// Config 探针公共参数
type Config struct {
	Timeout time.Duration `mapstructure:"timeout"` // 单次尝试超时 (默认: 5s)
	Retries int           `mapstructure:"retries"` // 失败后的额外重试次数 (默认: 2)
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.Retries < 0 {
		c.Retries = 0
	} else if c.Retries == 0 {
		c.Retries = 2
	}
	return c
}

// ForRecord 按统一记录声明的字段选择探针并构造检查对象。
// 优先级：健康端点 → HTTP；任一端点有端口 → TCP；
// 元数据里有 pid → Process；否则无操作探针。
func ForRecord(rec *service.UnifiedRecord, cfg Config) (Probe, Target) {
	target := Target{Name: rec.Name}

	if rec.HealthEndpoint != "" {
		target.HealthEndpoint = rec.HealthEndpoint
		return NewHTTP(cfg), target
	}
	for _, ep := range rec.Endpoints {
		if ep.Port > 0 {
			target.Host = ep.Host
			target.Port = ep.Port
			return NewTCP(cfg), target
		}
	}
	if pidStr := rec.Metadata["pid"]; pidStr != "" {
		if pid, err := strconv.ParseInt(pidStr, 10, 32); err == nil {
			target.PID = int32(pid)
			return NewProcess(), target
		}
	}
	return Noop(), target
}
