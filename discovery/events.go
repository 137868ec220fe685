package discovery

import (
	"context"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/metrics"
	"github.com/ceyewan/scout/notify"
	"github.com/ceyewan/scout/service"
)

// Callback 生命周期事件的进程内回调
type Callback func(rec *service.UnifiedRecord)

// Callbacks 三类生命周期事件的回调集合，未设置的事件被忽略
type Callbacks struct {
	Discovered Callback
	Updated    Callback
	Removed    Callback
}

// SetCallbacks 注册回调，整组替换，可在运行中调用
func (o *Orchestrator) SetCallbacks(cb Callbacks) {
	o.cbMu.Lock()
	o.callbacks = cb
	o.cbMu.Unlock()
}

// emit 派发一次生命周期事件：先进程内回调，再外部广播。
// 回调 panic 被捕获并记录，不影响后续事件；外部广播是
// 发后不理，失败由 notifier 自行记录。
func (o *Orchestrator) emit(ctx context.Context, typ string, rec *service.UnifiedRecord) {
	o.cbMu.RLock()
	cb := o.callbacks
	o.cbMu.RUnlock()

	var handler Callback
	switch typ {
	case notify.EventDiscovered:
		handler = cb.Discovered
	case notify.EventUpdated:
		handler = cb.Updated
	case notify.EventRemoved:
		handler = cb.Removed
	}
	if handler != nil {
		o.invoke(typ, rec, handler)
	}

	o.notifier.Publish(ctx, typ, rec)
	o.meters.events.Inc(metrics.L("type", typ))
}

func (o *Orchestrator) invoke(typ string, rec *service.UnifiedRecord, handler Callback) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("event callback panicked",
				clog.String("event", typ),
				clog.String("service", rec.Name),
				clog.Any("panic", r))
		}
	}()
	handler(rec)
}
