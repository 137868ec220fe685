package scanner

// Config 本地扫描器配置
type Config struct {
	// BaseDirectories 扫描的根目录列表
	BaseDirectories []string `mapstructure:"base_directories"`
	// MaxDepth 相对根目录的最大扫描深度，根目录本身为 0。
	// 严格执行：深度恰好等于 MaxDepth 的目录会被扫描，超过则不会。
	MaxDepth int `mapstructure:"max_depth"`
}

func (c *Config) setDefaults() {
	if c.MaxDepth == 0 {
		c.MaxDepth = 3
	}
}

func (c *Config) validate() error {
	c.setDefaults()
	if c.MaxDepth < 0 {
		return errInvalidDepth
	}
	return nil
}
