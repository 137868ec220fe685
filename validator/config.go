package validator

import "time"

// Config 校验器配置
type Config struct {
	// EnableHealthChecks 结构校验通过后是否继续做健康探测
	EnableHealthChecks bool `mapstructure:"enable_health_checks"`
	// HealthCheckTimeout 单个服务健康探测的总超时 (默认: 5s)
	HealthCheckTimeout time.Duration `mapstructure:"health_check_timeout"`
	// StrictValidation 严格模式要求服务声明类型且至少有一个端点
	StrictValidation bool `mapstructure:"strict_validation"`
	// MaxConcurrency 批量校验的并发上限 (默认: 8)
	MaxConcurrency int `mapstructure:"max_concurrency"`
}

func (c *Config) setDefaults() {
	if c.HealthCheckTimeout == 0 {
		c.HealthCheckTimeout = 5 * time.Second
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 8
	}
}
