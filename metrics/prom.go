package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// promMeter 基于 prometheus 的 Meter 实现
type promMeter struct {
	namespace string
	registry  *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*promCounter
	gauges     map[string]*promGauge
	histograms map[string]*promHistogram
}

func (m *promMeter) Counter(name, help string, labelNames ...string) (Counter, error) {
	if name == "" {
		return nil, errEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.counters[name]; ok {
		return c, nil
	}

	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
	}, labelNames)
	if err := m.registry.Register(vec); err != nil {
		return nil, err
	}

	c := &promCounter{vec: vec, names: labelNames}
	m.counters[name] = c
	return c, nil
}

func (m *promMeter) Gauge(name, help string, labelNames ...string) (Gauge, error) {
	if name == "" {
		return nil, errEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if g, ok := m.gauges[name]; ok {
		return g, nil
	}

	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
	}, labelNames)
	if err := m.registry.Register(vec); err != nil {
		return nil, err
	}

	g := &promGauge{vec: vec, names: labelNames}
	m.gauges[name] = g
	return g, nil
}

func (m *promMeter) Histogram(name, help string, buckets []float64, labelNames ...string) (Histogram, error) {
	if name == "" {
		return nil, errEmptyName
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.histograms[name]; ok {
		return h, nil
	}

	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labelNames)
	if err := m.registry.Register(vec); err != nil {
		return nil, err
	}

	h := &promHistogram{vec: vec, names: labelNames}
	m.histograms[name] = h
	return h, nil
}

func (m *promMeter) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type promCounter struct {
	vec   *prometheus.CounterVec
	names []string
}

func (c *promCounter) Inc(labels ...Label) {
	c.vec.WithLabelValues(labelValues(c.names, labels)...).Inc()
}

func (c *promCounter) Add(val float64, labels ...Label) {
	c.vec.WithLabelValues(labelValues(c.names, labels)...).Add(val)
}

type promGauge struct {
	vec   *prometheus.GaugeVec
	names []string
}

func (g *promGauge) Set(val float64, labels ...Label) {
	g.vec.WithLabelValues(labelValues(g.names, labels)...).Set(val)
}

func (g *promGauge) Inc(labels ...Label) {
	g.vec.WithLabelValues(labelValues(g.names, labels)...).Inc()
}

func (g *promGauge) Dec(labels ...Label) {
	g.vec.WithLabelValues(labelValues(g.names, labels)...).Dec()
}

type promHistogram struct {
	vec   *prometheus.HistogramVec
	names []string
}

func (h *promHistogram) Observe(val float64, labels ...Label) {
	h.vec.WithLabelValues(labelValues(h.names, labels)...).Observe(val)
}
