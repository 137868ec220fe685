package connector

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisConfigDefaults(t *testing.T) {
	cfg := &RedisConfig{Addr: "localhost:6379"}
	require.NoError(t, cfg.validate())

	assert.Equal(t, "default", cfg.Name)
	assert.Greater(t, cfg.PoolSize, 0)
	assert.Greater(t, cfg.DialTimeout, time.Duration(0))
}

func TestRedisConfigMissingAddr(t *testing.T) {
	cfg := &RedisConfig{}
	err := cfg.validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAddr)
}

func TestNATSConfigDefaults(t *testing.T) {
	cfg := &NATSConfig{}
	require.NoError(t, cfg.validate())

	// URL 为空时回退到本机默认地址
	assert.NotEmpty(t, cfg.URL)
	assert.Greater(t, cfg.Timeout, time.Duration(0))
}

func TestSQLiteConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *SQLiteConfig
		wantErr bool
	}{
		{"文件路径", &SQLiteConfig{Path: "/tmp/scout.db"}, false},
		{"内存模式", &SQLiteConfig{Path: ":memory:"}, false},
		{"缺少路径", &SQLiteConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMissingPath)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEtcdConfigDefaults(t *testing.T) {
	cfg := &EtcdConfig{}
	require.NoError(t, cfg.validate())

	assert.NotEmpty(t, cfg.Endpoints)
	assert.Greater(t, cfg.DialTimeout, time.Duration(0))
}

func TestSQLiteConnectorLifecycle(t *testing.T) {
	conn, err := NewSQLite(&SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, conn.Connect(ctx))
	assert.True(t, conn.IsHealthy())
	assert.NotNil(t, conn.GetClient())

	// Connect 幂等
	require.NoError(t, conn.Connect(ctx))

	require.NoError(t, conn.HealthCheck(ctx))

	require.NoError(t, conn.Close())
	assert.False(t, conn.IsHealthy())
	assert.Nil(t, conn.GetClient())

	// Close 幂等
	require.NoError(t, conn.Close())
}

func TestHealthCheckBeforeConnect(t *testing.T) {
	conn, err := NewNATS(&NATSConfig{})
	require.NoError(t, err)

	err = conn.HealthCheck(context.Background())
	assert.ErrorIs(t, err, ErrClientNil)
	assert.False(t, conn.IsHealthy())
}
