package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/ceyewan/scout/connector"
)

// GetSQLiteConnector 返回已连接的内存 SQLite 连接器，
// 每次调用独立的数据库，测试结束自动关闭
func GetSQLiteConnector(t *testing.T) connector.SQLiteConnector {
	t.Helper()

	conn, err := connector.NewSQLite(&connector.SQLiteConfig{
		Name: "test-sqlite",
		Path: ":memory:",
	}, connector.WithLogger(NewLogger()))
	if err != nil {
		t.Fatalf("create sqlite connector: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := conn.Connect(ctx); err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}
