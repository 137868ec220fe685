package validator

import "github.com/ceyewan/scout/clog"

type options struct {
	logger clog.Logger
}

// Option 校验器可选配置
type Option func(*options)

// WithLogger 注入日志器，自动追加 validator 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("validator")
		}
	}
}

func (o *options) applyDefaults() {
	if o.logger == nil {
		o.logger = clog.Discard()
	}
}
