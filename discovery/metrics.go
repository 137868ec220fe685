package discovery

import (
	"time"

	"github.com/ceyewan/scout/metrics"
	"github.com/ceyewan/scout/xerrors"
)

// meterSet 编排器的全部指标句柄
type meterSet struct {
	cycles   metrics.Counter
	skipped  metrics.Counter
	errors   metrics.Counter
	services metrics.Gauge
	duration metrics.Histogram
	events   metrics.Counter
}

func newMeterSet(m metrics.Meter) (*meterSet, error) {
	cycles, err := m.Counter("discovery_cycles_total", "Total discovery cycles executed")
	if err != nil {
		return nil, err
	}
	skipped, err := m.Counter("discovery_cycles_skipped_total", "Ticks skipped because the previous cycle was still running")
	if err != nil {
		return nil, err
	}
	errCounter, err := m.Counter("discovery_errors_total", "Soft errors recorded during discovery cycles", "code")
	if err != nil {
		return nil, err
	}
	services, err := m.Gauge("discovery_services", "Services present in the latest cycle")
	if err != nil {
		return nil, err
	}
	duration, err := m.Histogram("discovery_cycle_seconds", "Duration of a discovery cycle", nil)
	if err != nil {
		return nil, err
	}
	events, err := m.Counter("discovery_events_total", "Lifecycle events emitted", "type")
	if err != nil {
		return nil, err
	}

	return &meterSet{
		cycles:   cycles,
		skipped:  skipped,
		errors:   errCounter,
		services: services,
		duration: duration,
		events:   events,
	}, nil
}

// observeCycle 记录一次周期的指标
func (o *Orchestrator) observeCycle(errs []error, dur time.Duration) {
	o.meters.cycles.Inc()
	o.meters.duration.Observe(dur.Seconds())
	for _, err := range errs {
		o.meters.errors.Inc(metrics.L("code", errCode(err)))
	}

	o.statsMu.RLock()
	total := o.stats.TotalServices
	o.statsMu.RUnlock()
	o.meters.services.Set(float64(total))
}

func errCode(err error) string {
	if code := xerrors.GetCode(err); code != "" {
		return code
	}
	return "unknown"
}
