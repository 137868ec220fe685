package xerrors

// Scout 全局哨兵错误。
// 各组件在此基础上包装自己的上下文，调用方用 Is 检查类别。
var (
	// ErrNotFound 目标不存在
	ErrNotFound = New("not found")

	// ErrInvalidInput 输入无效
	ErrInvalidInput = New("invalid input")

	// ErrUnavailable 依赖的后端不可达
	ErrUnavailable = New("unavailable")

	// ErrTimeout 操作超时
	ErrTimeout = New("timeout")

	// ErrClosed 组件已关闭
	ErrClosed = New("closed")
)
