package config

import "github.com/ceyewan/scout/xerrors"

var (
	// ErrConfigNotFound 没有找到任何配置文件
	ErrConfigNotFound = xerrors.New("config file not found")

	// ErrNotLoaded 在 Load 之前调用了读取方法
	ErrNotLoaded = xerrors.New("config not loaded")
)

// IsNotFound 检查错误是否为配置未找到
func IsNotFound(err error) bool {
	return xerrors.Is(err, ErrConfigNotFound)
}
