package testkit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ceyewan/scout/connector"
)

// GetNATSConnector 返回已连接的 NATS 连接器。
// 默认连接 nats://localhost:4222，可用 SCOUT_TEST_NATS_URL 覆盖；
// NATS 不可达时跳过测试。
func GetNATSConnector(t *testing.T) connector.NATSConnector {
	t.Helper()

	url := os.Getenv("SCOUT_TEST_NATS_URL")
	if url == "" {
		url = "nats://localhost:4222"
	}

	conn, err := connector.NewNATS(&connector.NATSConfig{
		Name:    "test-nats",
		URL:     url,
		Timeout: 2 * time.Second,
	}, connector.WithLogger(NewLogger()))
	if err != nil {
		t.Fatalf("create nats connector: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := conn.Connect(ctx); err != nil {
		t.Skipf("nats not available at %s: %v", url, err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}
