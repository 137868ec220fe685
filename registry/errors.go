package registry

import "github.com/ceyewan/scout/xerrors"

var (
	// ErrNotFound 目录中不存在该记录
	ErrNotFound = xerrors.ErrNotFound
	// ErrNilDB 持久化模式缺少数据库连接
	ErrNilDB = xerrors.New("registry: persistence enabled but db handle is nil")
)
