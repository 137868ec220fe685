// Package config 为 Scout 提供统一的配置管理能力。
// 基于 Viper 实现多源配置加载（YAML/JSON 文件、环境变量、.env 文件）和热更新。
//
// 配置优先级：环境变量 > .env > 配置文件。
//
// 基本使用：
//
//	loader := config.MustLoad(
//		config.WithConfigName("scout"),
//		config.WithConfigPaths("./config"),
//		config.WithEnvPrefix("SCOUT"),
//	)
//
//	var cfg discovery.Config
//	if err := loader.UnmarshalKey("discovery", &cfg); err != nil {
//		panic(err)
//	}
package config

import "context"

// New 创建配置加载器，需要随后调用 Load。
func New(opts ...Option) (Loader, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return newLoader(o)
}

// MustLoad 创建并立即加载配置，失败时 panic。仅用于初始化阶段。
func MustLoad(opts ...Option) Loader {
	l, err := New(opts...)
	if err != nil {
		panic(err)
	}
	if err := l.Load(context.Background()); err != nil {
		panic(err)
	}
	return l
}
