package metrics

import "net/http"

// Discard 创建一个静默的 Meter 实例，所有指标操作均为空操作。
func Discard() Meter {
	return noopMeter{}
}

type noopMeter struct{}

func (noopMeter) Counter(name, help string, labelNames ...string) (Counter, error) {
	return noopInstrument{}, nil
}

func (noopMeter) Gauge(name, help string, labelNames ...string) (Gauge, error) {
	return noopInstrument{}, nil
}

func (noopMeter) Histogram(name, help string, buckets []float64, labelNames ...string) (Histogram, error) {
	return noopInstrument{}, nil
}

func (noopMeter) Handler() http.Handler {
	return http.NotFoundHandler()
}

type noopInstrument struct{}

func (noopInstrument) Inc(labels ...Label)                  {}
func (noopInstrument) Add(val float64, labels ...Label)     {}
func (noopInstrument) Set(val float64, labels ...Label)     {}
func (noopInstrument) Dec(labels ...Label)                  {}
func (noopInstrument) Observe(val float64, labels ...Label) {}
