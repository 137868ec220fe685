package probe

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/ceyewan/scout/service"
)

// processProbe 按 PID 检查进程存活
type processProbe struct{}

// NewProcess 创建进程存活探针
func NewProcess() Probe {
	return processProbe{}
}

func (processProbe) Kind() string { return "process" }

func (processProbe) Check(ctx context.Context, target Target) service.HealthResult {
	if target.PID <= 0 {
		return service.Unhealthy("no pid declared")
	}

	exists, err := process.PidExistsWithContext(ctx, target.PID)
	if err != nil {
		return service.Unhealthy(err.Error())
	}
	if !exists {
		return service.Unhealthy(fmt.Sprintf("process %d not found", target.PID))
	}
	return service.Healthy(0)
}
