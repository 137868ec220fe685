package extreg

import "github.com/ceyewan/scout/clog"

type options struct {
	logger clog.Logger
}

// Option 适配器集合可选配置
type Option func(*options)

// WithLogger 注入日志器，自动追加 extreg 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("extreg")
		}
	}
}

func (o *options) applyDefaults() {
	if o.logger == nil {
		o.logger = clog.Discard()
	}
}
