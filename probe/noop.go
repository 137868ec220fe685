package probe

import (
	"context"

	"github.com/ceyewan/scout/service"
)

// noopProbe 无可用检查手段时的占位探针，结果恒为 unknown
type noopProbe struct{}

// Noop 返回无操作探针
func Noop() Probe {
	return noopProbe{}
}

func (noopProbe) Kind() string { return "noop" }

func (noopProbe) Check(context.Context, Target) service.HealthResult {
	return service.HealthResult{Status: service.HealthUnknown}
}
