package discovery

import (
	"context"
	"time"

	"github.com/ceyewan/scout/clog"
)

// StartContinuous 启动后台持续发现，按固定间隔执行周期。
// interval 非正时使用配置的默认间隔。已在运行时返回
// ErrAlreadyRunning。上一周期未结束时跳过本次触发，
// 绝不并发执行周期。
func (o *Orchestrator) StartContinuous(interval time.Duration) error {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()

	if o.running {
		return ErrAlreadyRunning
	}
	if interval <= 0 {
		interval = o.cfg.Interval
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.done = make(chan struct{})
	o.running = true

	go o.loop(ctx, interval, o.done)

	o.logger.Info("continuous discovery started",
		clog.Duration("interval", interval))
	return nil
}

// StopContinuous 停止后台持续发现并等待循环退出。
// 未在运行时是空操作。
func (o *Orchestrator) StopContinuous() {
	o.stateMu.Lock()
	if !o.running {
		o.stateMu.Unlock()
		return
	}
	o.cancel()
	o.running = false
	done := o.done
	o.stateMu.Unlock()

	<-done
	o.logger.Info("continuous discovery stopped")
}

// ContinuousRunning 报告后台持续发现是否在运行
func (o *Orchestrator) ContinuousRunning() bool {
	o.stateMu.Lock()
	defer o.stateMu.Unlock()
	return o.running
}

func (o *Orchestrator) loop(ctx context.Context, interval time.Duration, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	o.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.runCycle(ctx)
		}
	}
}

// runCycle 执行一次周期，上一周期仍在运行时直接跳过
func (o *Orchestrator) runCycle(ctx context.Context) {
	if !o.cycleBusy.CompareAndSwap(false, true) {
		o.logger.Debug("previous cycle still running, tick skipped")
		o.meters.skipped.Inc()
		return
	}
	defer o.cycleBusy.Store(false)

	opts := DiscoverOptions{
		Validation:   o.cfg.EnableValidation,
		HealthChecks: o.cfg.EnableHealthChecks,
		Extraction:   o.cfg.EnableExtraction,
	}
	if _, err := o.DiscoverAll(ctx, opts); err != nil && ctx.Err() == nil {
		o.logger.Warn("discovery cycle completed with errors", clog.Error(err))
	}
}
