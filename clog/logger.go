package clog

// Logger 日志接口，提供结构化日志记录功能
//
// 支持五个日志级别：Debug、Info、Warn、Error、Fatal。
// Fatal 记录日志后调用 os.Exit(1)。
//
// 创建子 Logger：
//
//	child := logger.With(clog.String("source", "docker"))
//	namespaced := logger.WithNamespace("extreg", "consul")
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	// With 创建一个带有预设字段的子 Logger，预设字段出现在所有日志中。
	With(fields ...Field) Logger

	// WithNamespace 创建一个扩展命名空间的子 Logger。
	// 命名空间以 "." 连接，追加到现有命名空间后面。
	WithNamespace(parts ...string) Logger
}
