package connector

import "github.com/ceyewan/scout/xerrors"

var (
	// ErrMissingAddr 缺少连接地址
	ErrMissingAddr = xerrors.Wrap(xerrors.ErrInvalidInput, "connector: address is required")

	// ErrMissingPath 缺少存储路径
	ErrMissingPath = xerrors.Wrap(xerrors.ErrInvalidInput, "connector: path is required")

	// ErrClientNil 客户端未初始化或已关闭
	ErrClientNil = xerrors.New("connector: client is nil")
)
