package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/ceyewan/scout/service"
)

// tcpProbe 端口连通即健康
type tcpProbe struct {
	cfg Config
}

// NewTCP 创建 TCP 探针
func NewTCP(cfg Config) Probe {
	return &tcpProbe{cfg: cfg.withDefaults()}
}

func (p *tcpProbe) Kind() string { return "tcp" }

func (p *tcpProbe) Check(ctx context.Context, target Target) service.HealthResult {
	if target.Port <= 0 {
		return service.Unhealthy("no port declared")
	}
	host := target.Host
	if host == "" {
		host = "localhost"
	}
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", target.Port))

	var lastErr error
	dialer := &net.Dialer{Timeout: p.cfg.Timeout}
	for attempt := 0; attempt <= p.cfg.Retries; attempt++ {
		if ctx.Err() != nil {
			return service.Unhealthy(ctx.Err().Error())
		}

		start := time.Now()
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn.Close()
			return service.Healthy(time.Since(start))
		}
		lastErr = err
	}
	return service.Unhealthy(lastErr.Error())
}
