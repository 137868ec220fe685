package clog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

// TestNew 测试 Logger 创建
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  &Config{Level: "info", Format: "console", Output: "stdout"},
			wantErr: false,
		},
		{
			name:    "nil config",
			config:  nil,
			wantErr: false,
		},
		{
			name:    "invalid level",
			config:  &Config{Level: "invalid", Format: "console", Output: "stdout"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  &Config{Level: "info", Format: "invalid", Output: "stdout"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() returned nil logger on success")
			}
		})
	}
}

// TestLoggerLevels 测试日志级别过滤
func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "debug", Format: "json"}, WithWriter(&buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 log lines, got %d", len(lines))
	}

	expectedLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	for i, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("Line %d is not valid JSON: %v", i, err)
			continue
		}
		if entry["level"] != expectedLevels[i] {
			t.Errorf("Line %d level = %v, want %s", i, entry["level"], expectedLevels[i])
		}
	}
}

// TestLevelFiltering 测试低于配置级别的日志被丢弃
func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "warn", Format: "json"}, WithWriter(&buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 log line, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "kept") {
		t.Errorf("Output doesn't contain kept message: %q", lines[0])
	}
}

// TestLoggerFields 测试字段构造函数
func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "debug", Format: "json"}, WithWriter(&buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	testTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	logger.Info("test message",
		String("string_field", "test_value"),
		Int("int_field", 42),
		Int64("int64_field", 7),
		Float64("float_field", 3.14),
		Bool("bool_field", true),
		Time("time_field", testTime),
		Duration("duration_field", time.Second),
		Any("any_field", map[string]string{"nested": "value"}),
	)

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("Failed to parse log entry: %v", err)
	}

	tests := map[string]any{
		"string_field": "test_value",
		"int_field":    float64(42), // JSON 数字都是 float64
		"int64_field":  float64(7),
		"float_field":  3.14,
		"bool_field":   true,
	}
	for key, expected := range tests {
		if value, ok := entry[key]; !ok {
			t.Errorf("Missing field: %s", key)
		} else if value != expected {
			t.Errorf("Field %s = %v, want %v", key, value, expected)
		}
	}

	if _, ok := entry["time_field"]; !ok {
		t.Error("Missing time_field")
	}
	if nested, ok := entry["any_field"].(map[string]any); !ok {
		t.Errorf("any_field is not a map: %T", entry["any_field"])
	} else if nested["nested"] != "value" {
		t.Errorf("any_field.nested = %v, want value", nested["nested"])
	}
}

// TestErrorField 测试错误字段
func TestErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "debug", Format: "json"}, WithWriter(&buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Error("operation failed", Error(errors.New("test error")))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("Failed to parse log entry: %v", err)
	}
	if entry["err_msg"] != "test error" {
		t.Errorf("err_msg = %v, want test error", entry["err_msg"])
	}

	// nil 错误不应产生 err_msg 字段
	buf.Reset()
	logger.Error("nil error", Error(nil))
	entry = map[string]any{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("Failed to parse log entry: %v", err)
	}
	if _, ok := entry["err_msg"]; ok {
		t.Error("Error(nil) should not add err_msg field")
	}
}

// TestLoggerWithNamespace 测试命名空间功能
func TestLoggerWithNamespace(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "debug", Format: "json"},
		WithWriter(&buf),
		WithNamespace("discovery"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	child := logger.WithNamespace("scanner")
	child.Info("namespaced message")

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("Failed to parse log entry: %v", err)
	}

	ns, ok := entry[NamespaceKey].(string)
	if !ok {
		t.Fatal("Missing or invalid namespace field")
	}
	if ns != "discovery.scanner" {
		t.Errorf("namespace = %s, want discovery.scanner", ns)
	}

	// 空命名空间片段应被忽略
	if got := child.WithNamespace(""); got != child {
		t.Error("WithNamespace(\"\") should return the same logger")
	}
}

// TestLoggerWith 测试预设字段
func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "debug", Format: "json"}, WithWriter(&buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	child := logger.With(String("source", "docker"), Int("attempt", 1))
	child.Info("message with preset fields")

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry); err != nil {
		t.Fatalf("Failed to parse log entry: %v", err)
	}
	if entry["source"] != "docker" {
		t.Errorf("source = %v, want docker", entry["source"])
	}
	if entry["attempt"] != float64(1) {
		t.Errorf("attempt = %v, want 1", entry["attempt"])
	}
}

// TestConsoleFormat 测试控制台格式
func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "info", Format: "console"}, WithWriter(&buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("console message", String("key", "value"), Int("count", 1))

	output := buf.String()
	if !strings.Contains(output, "console message") {
		t.Error("Output doesn't contain message")
	}
	if !strings.Contains(output, "key=value") {
		t.Error("Output doesn't contain field")
	}
	if !strings.Contains(output, "count=1") {
		t.Error("Output doesn't contain count field")
	}
}

// TestParseLevel 测试日志级别解析
func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", DebugLevel, false},
		{"info", InfoLevel, false},
		{"warn", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"DEBUG", DebugLevel, false}, // 大小写不敏感
		{"Info", InfoLevel, false},
		{"invalid", InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if !tt.wantErr && level != tt.expected {
				t.Errorf("ParseLevel(%s) = %v, want %v", tt.input, level, tt.expected)
			}
		})
	}
}

// TestDiscard 测试空实现不 panic
func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Debug("ignored")
	logger.Info("ignored", String("k", "v"))
	logger.Warn("ignored")
	logger.Error("ignored", Error(errors.New("e")))

	child := logger.With(String("k", "v")).WithNamespace("ns")
	if child == nil {
		t.Fatal("Discard().With().WithNamespace() returned nil")
	}
	child.Info("ignored")
}
