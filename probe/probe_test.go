package probe

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/scout/service"
)

func TestHTTPProbeHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent) // 任意 2xx 都算健康
	}))
	defer srv.Close()

	p := NewHTTP(Config{})
	res := p.Check(context.Background(), Target{HealthEndpoint: srv.URL + "/health"})

	assert.Equal(t, service.HealthHealthy, res.Status)
	assert.Greater(t, res.ResponseTime, time.Duration(0))
}

func TestHTTPProbeRetriesBounded(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewHTTP(Config{Retries: 1})
	res := p.Check(context.Background(), Target{HealthEndpoint: srv.URL})

	assert.Equal(t, service.HealthUnhealthy, res.Status)
	assert.Contains(t, res.Reason, "500")
	// 1 次初始尝试 + 1 次重试
	assert.Equal(t, int32(2), hits.Load())
}

func TestTCPProbe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	p := NewTCP(Config{Timeout: time.Second})

	t.Run("端口开放", func(t *testing.T) {
		res := p.Check(context.Background(), Target{Host: "127.0.0.1", Port: port})
		assert.Equal(t, service.HealthHealthy, res.Status)
	})

	t.Run("端口关闭", func(t *testing.T) {
		res := p.Check(context.Background(), Target{Host: "127.0.0.1", Port: 1})
		assert.Equal(t, service.HealthUnhealthy, res.Status)
		assert.NotEmpty(t, res.Reason)
	})
}

func TestProcessProbe(t *testing.T) {
	p := NewProcess()

	res := p.Check(context.Background(), Target{PID: int32(os.Getpid())})
	assert.Equal(t, service.HealthHealthy, res.Status)

	// 不存在的 PID
	res = p.Check(context.Background(), Target{PID: 1<<31 - 2})
	assert.Equal(t, service.HealthUnhealthy, res.Status)
}

func TestScriptProbe(t *testing.T) {
	p := NewScript(Config{Timeout: 5 * time.Second})

	res := p.Check(context.Background(), Target{Command: []string{"true"}})
	assert.Equal(t, service.HealthHealthy, res.Status)

	res = p.Check(context.Background(), Target{Command: []string{"false"}})
	assert.Equal(t, service.HealthUnhealthy, res.Status)
}

func TestCompositeProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	t.Run("全部健康", func(t *testing.T) {
		p := NewComposite(NewHTTP(Config{}), NewProcess())
		res := p.Check(context.Background(), Target{
			HealthEndpoint: srv.URL,
			PID:            int32(os.Getpid()),
		})
		assert.Equal(t, service.HealthHealthy, res.Status)
	})

	t.Run("携带首个失败原因", func(t *testing.T) {
		p := NewComposite(NewProcess(), NewHTTP(Config{}))
		res := p.Check(context.Background(), Target{
			HealthEndpoint: srv.URL,
			PID:            1<<31 - 2,
		})
		assert.Equal(t, service.HealthUnhealthy, res.Status)
		assert.Contains(t, res.Reason, "process")
	})
}

func TestForRecordPriority(t *testing.T) {
	cfg := Config{}

	tests := []struct {
		name string
		rec  service.UnifiedRecord
		want string
	}{
		{
			"健康端点优先选 HTTP",
			service.UnifiedRecord{
				HealthEndpoint: "http://localhost:8080/health",
				Endpoints:      []service.Endpoint{service.NewEndpoint("http", "localhost", 8080)},
			},
			"http",
		},
		{
			"无健康端点有端口选 TCP",
			service.UnifiedRecord{
				Endpoints: []service.Endpoint{service.NewEndpoint("http", "localhost", 8080)},
			},
			"tcp",
		},
		{
			"只有 PID 选进程探针",
			service.UnifiedRecord{
				Metadata: map[string]string{"pid": strconv.Itoa(os.Getpid())},
			},
			"process",
		},
		{
			"什么都没有选无操作探针",
			service.UnifiedRecord{},
			"noop",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := ForRecord(&tt.rec, cfg)
			assert.Equal(t, tt.want, p.Kind())
		})
	}
}

func TestForRecordTarget(t *testing.T) {
	rec := service.UnifiedRecord{
		Name:      "svc-a",
		Endpoints: []service.Endpoint{service.NewEndpoint("http", "10.0.0.5", 9090)},
	}

	_, target := ForRecord(&rec, Config{})
	assert.Equal(t, "svc-a", target.Name)
	assert.Equal(t, "10.0.0.5", target.Host)
	assert.Equal(t, 9090, target.Port)
}
