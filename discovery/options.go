package discovery

import (
	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/metrics"
	"github.com/ceyewan/scout/notify"
	"github.com/ceyewan/scout/registry"
)

type options struct {
	logger   clog.Logger
	meter    metrics.Meter
	store    registry.Store
	notifier *notify.Notifier
	sources  []Source
}

// Option 编排器可选配置
type Option func(*options)

// WithLogger 注入日志器，自动追加 discovery 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("discovery")
		}
	}
}

// WithMeter 注入指标收集器
func WithMeter(meter metrics.Meter) Option {
	return func(o *options) {
		o.meter = meter
	}
}

// WithStore 指定服务目录存储，缺省使用进程内存储
func WithStore(store registry.Store) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithNotifier 注入事件广播器，缺省只做进程内回调
func WithNotifier(n *notify.Notifier) Option {
	return func(o *options) {
		o.notifier = n
	}
}

// WithSources 追加发现源
func WithSources(sources ...Source) Option {
	return func(o *options) {
		o.sources = append(o.sources, sources...)
	}
}

func (o *options) applyDefaults() {
	if o.logger == nil {
		o.logger = clog.Discard()
	}
	if o.meter == nil {
		o.meter = metrics.Discard()
	}
}
