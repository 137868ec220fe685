// Package discovery 实现跨源服务发现的编排。
//
// 编排器并发驱动多个发现源，把各源观测合并为统一记录，
// 经可选的校验、健康探测与元数据提取后，原子地对账到
// 服务目录，并按变更派发进程内回调与外部事件。
//
// 编排器是服务目录的唯一写入方。单个源失败只计入周期
// 统计，不会中断其他源，也不会触发已注册服务的立即移除。
package discovery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/extract"
	"github.com/ceyewan/scout/notify"
	"github.com/ceyewan/scout/registry"
	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/validator"
	"github.com/ceyewan/scout/xerrors"
)

// Source 一个发现源。每次 Discover 返回该源当前可见的全部
// 服务观测；部分失败时返回已获得的记录加软错误。
type Source interface {
	Name() string
	Discover(ctx context.Context) ([]service.Record, error)
}

// DiscoverOptions 单次发现周期的开关
type DiscoverOptions struct {
	// Validation 对合并结果做结构校验
	Validation bool
	// HealthChecks 对合并结果做健康探测 (隐含结构校验)
	HealthChecks bool
	// Extraction 对合并结果做元数据提取
	Extraction bool
}

// Orchestrator 服务发现编排器
type Orchestrator struct {
	cfg       *Config
	sources   []Source
	store     registry.Store
	extractor *extract.Extractor
	notifier  *notify.Notifier
	logger    clog.Logger
	meters    *meterSet

	// reconcileMu 串行化对账：注册表写入与缺席计数只在持锁时变更
	reconcileMu sync.Mutex
	missed      map[string]int // 归一化名称 → 连续缺席周期数

	statsMu sync.RWMutex
	stats   service.DiscoveryStats

	cbMu      sync.RWMutex
	callbacks Callbacks

	stateMu   sync.Mutex
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	cycleBusy atomic.Bool
}

// New 创建编排器。存储缺省为进程内存储，发现源通过
// WithSources 注入，至少一个。
func New(cfg *Config, opts ...Option) (*Orchestrator, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.setDefaults()

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	if len(opt.sources) == 0 {
		return nil, ErrNoSources
	}

	store := opt.store
	if store == nil {
		var err error
		store, err = registry.New(&registry.Config{EnableDeduplication: true}, nil)
		if err != nil {
			return nil, xerrors.Wrap(err, "discovery: create default store")
		}
	}

	meters, err := newMeterSet(opt.meter)
	if err != nil {
		return nil, xerrors.Wrap(err, "discovery: register meters")
	}

	return &Orchestrator{
		cfg:       cfg,
		sources:   opt.sources,
		store:     store,
		extractor: extract.New(extract.WithLogger(opt.logger)),
		notifier:  opt.notifier,
		logger:    opt.logger,
		meters:    meters,
		missed:    map[string]int{},
	}, nil
}

// DiscoverAll 执行一次完整的发现周期：并发扇出全部源、
// 合并观测、按开关做校验/健康探测/提取、对账到服务目录，
// 返回本周期的统一记录集。单源失败只计入统计。
func (o *Orchestrator) DiscoverAll(ctx context.Context, opts DiscoverOptions) ([]*service.UnifiedRecord, error) {
	start := time.Now()

	records, errs := o.fanOut(ctx)
	unified := o.unify(records)

	if opts.Validation || opts.HealthChecks {
		o.runValidation(ctx, unified, opts.HealthChecks)
	}
	if opts.Extraction {
		errs = append(errs, o.runExtraction(ctx, unified)...)
	}

	softErrs, err := o.reconcile(ctx, unified)
	if err != nil {
		// 周期级失败 (如取消)，整个周期丢弃，不计入统计
		return nil, err
	}
	errs = append(errs, softErrs...)

	o.updateStats(records, unified, errs, time.Since(start))
	o.observeCycle(errs, time.Since(start))

	o.logger.Info("discovery cycle finished",
		clog.Int("services", len(unified)),
		clog.Int("errors", len(errs)),
		clog.Duration("duration", time.Since(start)))

	return unified, xerrors.Combine(errs...)
}

// fanOut 并发驱动全部发现源，错误按源隔离
func (o *Orchestrator) fanOut(ctx context.Context) ([]service.Record, []error) {
	var (
		mu   sync.Mutex
		all  []service.Record
		errs []error
		wg   sync.WaitGroup
	)

	for _, src := range o.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()
			recs, err := src.Discover(ctx)

			mu.Lock()
			defer mu.Unlock()
			all = append(all, recs...)
			if err != nil {
				for _, e := range xerrors.Flatten(err) {
					errs = append(errs, xerrors.Wrapf(e, "source %s", src.Name()))
				}
				o.logger.Warn("source discovery failed",
					clog.String("source", src.Name()),
					clog.Error(err))
			}
		}(src)
	}
	wg.Wait()

	return all, errs
}

func (o *Orchestrator) runValidation(ctx context.Context, unified []*service.UnifiedRecord, health bool) {
	vcfg := o.cfg.Validation
	vcfg.EnableHealthChecks = health
	v := validator.New(&vcfg, validator.WithLogger(o.logger))
	v.ValidateBatch(ctx, unified)
}

// runExtraction 对每条记录做尽力而为的元数据提取，提取出的
// 结构化数据以 "<分析类型>.<键>" 回填到记录元数据
func (o *Orchestrator) runExtraction(ctx context.Context, unified []*service.UnifiedRecord) []error {
	var errs []error
	for _, rec := range unified {
		extractions, summary := o.extractor.Extract(ctx, rec)
		for _, ext := range extractions {
			for k, v := range ext.Data {
				key := ext.MetadataType + "." + k
				if _, ok := rec.Metadata[key]; !ok {
					rec.Metadata[key] = v
				}
			}
		}
		for kind, reason := range summary.Failures {
			errs = append(errs, xerrors.WithCode(
				fmt.Errorf("extract %s for %s: %s", kind, rec.Name, reason),
				xerrors.CodeExtraction))
		}
	}
	return errs
}

// GetDiscoveredServices 按过滤条件读取服务目录快照
func (o *Orchestrator) GetDiscoveredServices(ctx context.Context, filter service.Filter) ([]*service.UnifiedRecord, error) {
	return o.store.List(ctx, filter)
}

// SearchServices 在服务目录上做子串搜索
func (o *Orchestrator) SearchServices(ctx context.Context, term string) ([]*service.UnifiedRecord, error) {
	return o.store.Search(ctx, term)
}

// GetStats 返回最近一次发现周期的统计快照
func (o *Orchestrator) GetStats() *service.DiscoveryStats {
	o.statsMu.RLock()
	defer o.statsMu.RUnlock()
	return o.stats.Clone()
}

// ComponentStatus 报告各发现源与后台循环的就绪状态
func (o *Orchestrator) ComponentStatus() map[string]bool {
	status := make(map[string]bool, len(o.sources)+1)
	for _, src := range o.sources {
		status[src.Name()] = true
	}
	status["continuous_discovery"] = o.ContinuousRunning()
	return status
}

func (o *Orchestrator) updateStats(records []service.Record, unified []*service.UnifiedRecord, errs []error, dur time.Duration) {
	bySource := map[string]int{}
	for _, rec := range records {
		bySource[rec.Source.Family()]++
	}
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	o.statsMu.Lock()
	defer o.statsMu.Unlock()
	o.stats.TotalServices = len(unified)
	o.stats.BySource = bySource
	o.stats.ErrorCount = len(errs)
	o.stats.Errors = msgs
	o.stats.Duration = dur
	o.stats.LastDiscovery = time.Now()
	o.stats.CycleCount++
}
