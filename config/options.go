package config

import "strings"

// Option 配置选项模式
type Option func(*Options)

// Options 加载器配置
type Options struct {
	Name      string   // 配置文件名称（不含扩展名），默认 "config"
	Paths     []string // 配置文件搜索路径，默认 ["."]
	FileType  string   // 配置文件类型 (yaml, json)，默认 yaml
	EnvPrefix string   // 环境变量前缀，默认 "SCOUT"
	EnvFile   string   // .env 文件路径，默认 ".env"（不存在时忽略）
}

func defaultOptions() *Options {
	return &Options{
		Name:      "config",
		Paths:     []string{"."},
		FileType:  "yaml",
		EnvPrefix: "SCOUT",
		EnvFile:   ".env",
	}
}

// WithConfigName 设置配置文件名称（不带扩展名）
func WithConfigName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.Name = name
		}
	}
}

// WithConfigPaths 设置配置文件搜索路径（覆盖默认值）
func WithConfigPaths(paths ...string) Option {
	return func(o *Options) {
		if len(paths) > 0 {
			o.Paths = paths
		}
	}
}

// WithConfigType 设置配置文件类型 (yaml, json)
func WithConfigType(typ string) Option {
	return func(o *Options) {
		if typ != "" {
			o.FileType = typ
		}
	}
}

// WithEnvPrefix 设置环境变量前缀
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) {
		if prefix != "" {
			o.EnvPrefix = strings.ToUpper(prefix)
		}
	}
}

// WithEnvFile 设置 .env 文件路径
func WithEnvFile(path string) Option {
	return func(o *Options) {
		o.EnvFile = path
	}
}
