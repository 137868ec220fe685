package clog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// NamespaceKey 是日志中命名空间的字段名
const NamespaceKey = "namespace"

// slogLogger 基于 slog 的 Logger 实现
type slogLogger struct {
	base      *slog.Logger
	namespace string
}

// newLogger 根据配置构建 slog 后端（内部使用）
func newLogger(cfg *Config, o *options) (Logger, error) {
	w, err := resolveWriter(cfg, o)
	if err != nil {
		return nil, err
	}

	level, _ := ParseLevel(cfg.Level)
	hopts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(w, hopts)
	} else {
		handler = slog.NewTextHandler(w, hopts)
	}

	l := &slogLogger{base: slog.New(handler)}
	if len(o.namespaceParts) > 0 {
		return l.WithNamespace(o.namespaceParts...), nil
	}
	return l, nil
}

func resolveWriter(cfg *Config, o *options) (io.Writer, error) {
	if o.writer != nil {
		return o.writer, nil
	}
	switch cfg.Output {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log output: %w", err)
		}
		return f, nil
	}
}

func (l *slogLogger) log(level slog.Level, msg string, fields []Field) {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	l.base.Log(context.Background(), level, msg, args...)
}

func (l *slogLogger) Debug(msg string, fields ...Field) { l.log(slog.LevelDebug, msg, fields) }
func (l *slogLogger) Info(msg string, fields ...Field)  { l.log(slog.LevelInfo, msg, fields) }
func (l *slogLogger) Warn(msg string, fields ...Field)  { l.log(slog.LevelWarn, msg, fields) }
func (l *slogLogger) Error(msg string, fields ...Field) { l.log(slog.LevelError, msg, fields) }

// Fatal 记录 error 级别日志后退出进程
func (l *slogLogger) Fatal(msg string, fields ...Field) {
	l.log(slog.LevelError, msg, fields)
	os.Exit(1)
}

// With 创建带预设字段的子 Logger
func (l *slogLogger) With(fields ...Field) Logger {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return &slogLogger{base: l.base.With(args...), namespace: l.namespace}
}

// WithNamespace 创建扩展命名空间的子 Logger
func (l *slogLogger) WithNamespace(parts ...string) Logger {
	ns := l.namespace
	for _, p := range parts {
		if p == "" {
			continue
		}
		if ns == "" {
			ns = p
		} else {
			ns = ns + "." + p
		}
	}
	if ns == l.namespace {
		return l
	}
	return &slogLogger{
		base:      l.base.With(slog.String(NamespaceKey, ns)),
		namespace: ns,
	}
}
