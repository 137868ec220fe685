package docker

// Config 容器发现配置
type Config struct {
	// IncludeStopped 为 true 时也枚举已停止的容器
	IncludeStopped bool `mapstructure:"include_stopped"`
	// LabelFilters 只枚举带有这些标签的容器，键值都要匹配
	LabelFilters map[string]string `mapstructure:"label_filters"`
}
