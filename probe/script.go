package probe

import (
	"context"
	"os/exec"
	"time"

	"github.com/ceyewan/scout/service"
)

// scriptProbe 运行自定义命令，退出码 0 即健康
type scriptProbe struct {
	cfg Config
}

// NewScript 创建自定义脚本探针
func NewScript(cfg Config) Probe {
	return &scriptProbe{cfg: cfg.withDefaults()}
}

func (p *scriptProbe) Kind() string { return "script" }

func (p *scriptProbe) Check(ctx context.Context, target Target) service.HealthResult {
	if len(target.Command) == 0 {
		return service.Unhealthy("no command declared")
	}

	runCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(runCtx, target.Command[0], target.Command[1:]...)
	if err := cmd.Run(); err != nil {
		return service.Unhealthy(err.Error())
	}
	return service.Healthy(time.Since(start))
}
