package testkit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ceyewan/scout/connector"
)

// GetRedisConnector 返回已连接的 Redis 连接器。
// 默认连接 localhost:6379，可用 SCOUT_TEST_REDIS_ADDR 覆盖；
// Redis 不可达时跳过测试。
func GetRedisConnector(t *testing.T) connector.RedisConnector {
	t.Helper()

	addr := os.Getenv("SCOUT_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	conn, err := connector.NewRedis(&connector.RedisConfig{
		Name:        "test-redis",
		Addr:        addr,
		DB:          1, // 避开默认 DB 0 的业务数据
		DialTimeout: 2 * time.Second,
	}, connector.WithLogger(NewLogger()))
	if err != nil {
		t.Fatalf("create redis connector: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := conn.Connect(ctx); err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}
