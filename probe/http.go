package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ceyewan/scout/service"
)

// httpProbe GET 健康端点，2xx 即健康，带超时与有界重试
type httpProbe struct {
	cfg   Config
	httpc *http.Client
}

// NewHTTP 创建 HTTP 探针
func NewHTTP(cfg Config) Probe {
	cfg = cfg.withDefaults()
	return &httpProbe{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.Timeout},
	}
}

func (p *httpProbe) Kind() string { return "http" }

func (p *httpProbe) Check(ctx context.Context, target Target) service.HealthResult {
	if target.HealthEndpoint == "" {
		return service.Unhealthy("no health endpoint declared")
	}

	var lastErr error
	for attempt := 0; attempt <= p.cfg.Retries; attempt++ {
		if ctx.Err() != nil {
			return service.Unhealthy(ctx.Err().Error())
		}

		start := time.Now()
		status, err := p.tryOnce(ctx, target.HealthEndpoint)
		if err != nil {
			lastErr = err
			continue
		}
		if status >= 200 && status < 300 {
			return service.Healthy(time.Since(start))
		}
		lastErr = fmt.Errorf("unexpected status %d", status)
	}
	return service.Unhealthy(lastErr.Error())
}

func (p *httpProbe) tryOnce(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := p.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
