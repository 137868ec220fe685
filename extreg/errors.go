package extreg

import "github.com/ceyewan/scout/xerrors"

var (
	// ErrUnknownType 声明了不支持的注册中心类型
	ErrUnknownType = xerrors.New("extreg: unknown registry type")
	// ErrMissingParam 缺少该类型必填的连接参数
	ErrMissingParam = xerrors.New("extreg: missing required connection param")
	// ErrDuplicateName 同名注册中心重复注册
	ErrDuplicateName = xerrors.New("extreg: duplicate registry name")
	// ErrEmptyName 注册中心名称为空
	ErrEmptyName = xerrors.New("extreg: registry name must not be empty")
)
