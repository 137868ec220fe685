package scanner

import "github.com/ceyewan/scout/clog"

type options struct {
	logger clog.Logger
}

// Option 扫描器可选配置
type Option func(*options)

// WithLogger 注入日志器，自动追加 scanner 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("scanner")
		}
	}
}

func (o *options) applyDefaults() {
	if o.logger == nil {
		o.logger = clog.Discard()
	}
}
