package discovery

import (
	"time"

	"github.com/ceyewan/scout/validator"
)

// Config 编排器配置
type Config struct {
	// Interval 持续发现的默认周期间隔 (默认: 30s)
	Interval time.Duration `mapstructure:"interval"`
	// StalenessThreshold 身份连续缺席多少个周期后视为移除 (默认: 3)。
	// 单次缺席永不移除，以容忍发现源的瞬时故障。
	StalenessThreshold int `mapstructure:"staleness_threshold"`
	// SourcePrecedence 合并时的来源优先级，前者覆盖后者。
	// 默认: [external, docker, local]。
	SourcePrecedence []string `mapstructure:"source_precedence"`

	// EnableValidation 持续模式的周期是否做结构校验
	EnableValidation bool `mapstructure:"enable_validation"`
	// EnableHealthChecks 持续模式的周期是否做健康探测
	EnableHealthChecks bool `mapstructure:"enable_health_checks"`
	// EnableExtraction 持续模式的周期是否做元数据提取
	EnableExtraction bool `mapstructure:"enable_extraction"`

	// Validation 校验器配置
	Validation validator.Config `mapstructure:"validation"`
}

func (c *Config) setDefaults() {
	if c.Interval <= 0 {
		c.Interval = 30 * time.Second
	}
	if c.StalenessThreshold <= 0 {
		c.StalenessThreshold = 3
	}
	if len(c.SourcePrecedence) == 0 {
		c.SourcePrecedence = []string{"external", "docker", "local"}
	}
}
