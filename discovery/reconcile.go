package discovery

import (
	"context"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/notify"
	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// event 对账产生的一次变更
type event struct {
	typ string
	rec *service.UnifiedRecord
}

// reconcile 把一个周期的合并结果原子地应用到服务目录。
//
// 入口处检查取消：取消发生在应用开始前则整个周期丢弃，
// 注册表保持原样；应用一旦开始就执行到底，避免半应用状态。
// 每个身份每周期至多派发一个事件，unchanged 不派发。
// 本周期缺席的已注册身份累计缺席数，达到阈值才移除。
func (o *Orchestrator) reconcile(ctx context.Context, unified []*service.UnifiedRecord) ([]error, error) {
	o.reconcileMu.Lock()
	defer o.reconcileMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, xerrors.Wrap(err, "discovery: cycle discarded before apply")
	}
	// 应用阶段不再响应取消，保证要么全做要么全不做
	applyCtx := context.WithoutCancel(ctx)

	var (
		softErrs   []error
		discovered []event
		others     []event
		present    = map[string]bool{}
	)

	for _, rec := range unified {
		res, err := o.store.Register(applyCtx, rec)
		if err != nil {
			softErrs = append(softErrs, xerrors.Wrapf(err, "register %s", rec.Name))
			continue
		}
		present[res.Name] = true
		delete(o.missed, res.Name)

		switch res.Outcome {
		case service.OutcomeCreated:
			discovered = append(discovered, event{notify.EventDiscovered, rec})
		case service.OutcomeUpdated:
			others = append(others, event{notify.EventUpdated, rec})
		}
	}

	existing, err := o.store.List(applyCtx, service.Filter{})
	if err != nil {
		softErrs = append(softErrs, xerrors.Wrap(err, "list for staleness sweep"))
		existing = nil
	}
	for _, old := range existing {
		if present[old.Name] {
			continue
		}
		o.missed[old.Name]++
		if o.missed[old.Name] < o.cfg.StalenessThreshold {
			o.logger.Debug("service missed cycle",
				clog.String("service", old.Name),
				clog.Int("missed", o.missed[old.Name]))
			continue
		}
		if err := o.store.Deregister(applyCtx, old.ID); err != nil {
			softErrs = append(softErrs, xerrors.Wrapf(err, "deregister %s", old.Name))
			continue
		}
		delete(o.missed, old.Name)
		others = append(others, event{notify.EventRemoved, old})
	}

	// discovered 先于同周期的 updated / removed 派发
	for _, evt := range append(discovered, others...) {
		o.emit(applyCtx, evt.typ, evt.rec)
	}

	return softErrs, nil
}
