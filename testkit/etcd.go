package testkit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ceyewan/scout/connector"
)

// GetEtcdConnector 返回已连接的 Etcd 连接器。
// 默认连接 localhost:2379，可用 SCOUT_TEST_ETCD_ENDPOINTS 覆盖；
// Etcd 不可达时跳过测试。
func GetEtcdConnector(t *testing.T) connector.EtcdConnector {
	t.Helper()

	endpoints := []string{"localhost:2379"}
	if env := os.Getenv("SCOUT_TEST_ETCD_ENDPOINTS"); env != "" {
		endpoints = []string{env}
	}

	conn, err := connector.NewEtcd(&connector.EtcdConfig{
		Name:        "test-etcd",
		Endpoints:   endpoints,
		DialTimeout: 2 * time.Second,
	}, connector.WithLogger(NewLogger()))
	if err != nil {
		t.Fatalf("create etcd connector: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := conn.Connect(ctx); err != nil {
		t.Skipf("etcd not available at %v: %v", endpoints, err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}
