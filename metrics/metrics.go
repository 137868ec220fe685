// Package metrics 为 Scout 提供统一的指标收集能力。
// 基于 prometheus/client_golang 实现，提供简洁的 Counter、Gauge、Histogram 接口。
//
// 快速开始：
//
//	meter, _ := metrics.New(&metrics.Config{Namespace: "scout"})
//	counter, _ := meter.Counter("discovery_cycles_total", "发现周期总数", "outcome")
//	counter.Inc(metrics.L("outcome", "success"))
//
//	http.Handle("/metrics", meter.Handler())
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ceyewan/scout/xerrors"
)

// Meter 指标收集器接口
//
// 同名指标重复创建时返回已注册的实例，标签集合必须一致。
type Meter interface {
	// Counter 创建计数器，labelNames 声明允许的标签名
	Counter(name, help string, labelNames ...string) (Counter, error)

	// Gauge 创建仪表盘
	Gauge(name, help string, labelNames ...string) (Gauge, error)

	// Histogram 创建直方图，buckets 为空时使用 prometheus 默认桶
	Histogram(name, help string, buckets []float64, labelNames ...string) (Histogram, error)

	// Handler 返回 prometheus 抓取端点的 http.Handler
	Handler() http.Handler
}

// Counter 计数器接口，只增不减
type Counter interface {
	Inc(labels ...Label)
	Add(val float64, labels ...Label)
}

// Gauge 仪表盘接口，记录可增减的瞬时值
type Gauge interface {
	Set(val float64, labels ...Label)
	Inc(labels ...Label)
	Dec(labels ...Label)
}

// Histogram 直方图接口，记录值的分布
type Histogram interface {
	Observe(val float64, labels ...Label)
}

// Config Meter 配置
type Config struct {
	// Namespace 指标名前缀，默认 "scout"
	Namespace string `json:"namespace" yaml:"namespace" mapstructure:"namespace"`
}

// New 创建 Meter 实例，使用独立的 prometheus Registry。
func New(cfg *Config) (Meter, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "scout"
	}

	reg := prometheus.NewRegistry()
	return &promMeter{
		namespace:  cfg.Namespace,
		registry:   reg,
		counters:   map[string]*promCounter{},
		gauges:     map[string]*promGauge{},
		histograms: map[string]*promHistogram{},
	}, nil
}

var errEmptyName = xerrors.Wrap(xerrors.ErrInvalidInput, "metric name is empty")
