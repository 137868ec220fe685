package config

import "strings"

// newEnvReplacer 把配置 key 中的分隔符映射为环境变量格式。
// 例如 discovery.staleness_threshold -> DISCOVERY_STALENESS_THRESHOLD。
func newEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}
