package extreg

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/service"
)

// breakerAdapter 给子适配器的发现调用包一层熔断器。
// 连续失败的注册中心会被短路一段时间，避免每个周期都
// 等它超时。熔断打开期间该注册中心贡献零条记录加一个软错误。
type breakerAdapter struct {
	SubAdapter
	cb *gobreaker.CircuitBreaker[[]service.Record]
}

func newBreakerAdapter(sub SubAdapter, logger clog.Logger) SubAdapter {
	settings := gobreaker.Settings{
		Name:    sub.Name(),
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("registry breaker state changed",
				clog.String("registry", name),
				clog.String("from", from.String()),
				clog.String("to", to.String()))
		},
	}
	return &breakerAdapter{
		SubAdapter: sub,
		cb:         gobreaker.NewCircuitBreaker[[]service.Record](settings),
	}
}

func (b *breakerAdapter) Discover(ctx context.Context) ([]service.Record, error) {
	return b.cb.Execute(func() ([]service.Record, error) {
		return b.SubAdapter.Discover(ctx)
	})
}
