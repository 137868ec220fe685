package probe

import (
	"context"
	"time"

	"github.com/ceyewan/scout/service"
)

// compositeProbe 聚合多个子探针：全部健康才算健康，
// 否则不健康并携带第一个失败原因。
type compositeProbe struct {
	probes []Probe
}

// NewComposite 创建组合探针
func NewComposite(probes ...Probe) Probe {
	return &compositeProbe{probes: probes}
}

func (p *compositeProbe) Kind() string { return "composite" }

func (p *compositeProbe) Check(ctx context.Context, target Target) service.HealthResult {
	if len(p.probes) == 0 {
		return service.HealthResult{Status: service.HealthUnknown}
	}

	var total time.Duration
	for _, sub := range p.probes {
		res := sub.Check(ctx, target)
		if res.Status != service.HealthHealthy {
			if res.Reason == "" {
				res.Reason = sub.Kind() + " probe failed"
			}
			return service.Unhealthy(sub.Kind() + ": " + res.Reason)
		}
		total += res.ResponseTime
	}
	return service.Healthy(total)
}
