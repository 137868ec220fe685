// Package validator 实现服务记录的结构校验与健康分级。
//
// 校验失败记录在结果上，不会把服务从结果集中剔除。
// 批量校验以有界并发执行，返回逐服务结果加聚合摘要。
package validator

import (
	"context"
	"fmt"
	"sync"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/probe"
	"github.com/ceyewan/scout/service"
)

// Result 单个服务的校验结果
type Result struct {
	Name   string                `json:"name"`
	Valid  bool                  `json:"valid"`
	Issues []string              `json:"issues,omitempty"`
	Health *service.HealthResult `json:"health,omitempty"`
}

// Summary 批量校验的聚合摘要
type Summary struct {
	Total     int `json:"total"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Healthy   int `json:"healthy"`
	Unhealthy int `json:"unhealthy"`
	Unknown   int `json:"unknown"`
}

// Validator 服务校验器
type Validator struct {
	cfg    *Config
	logger clog.Logger
}

// New 创建校验器
func New(cfg *Config, opts ...Option) *Validator {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.setDefaults()

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &Validator{cfg: cfg, logger: opt.logger}
}

// Validate 校验单个统一记录：先结构检查，结构通过且开启健康
// 检查时再按记录声明的字段选探针探测。结果回写到记录的
// Validated 与 HealthStatus 字段，失败不会剔除记录。
func (v *Validator) Validate(ctx context.Context, rec *service.UnifiedRecord) Result {
	res := Result{Name: rec.Name, Valid: true}

	v.checkStructure(rec, &res)

	if res.Valid && v.cfg.EnableHealthChecks {
		p, target := probe.ForRecord(rec, probe.Config{Timeout: v.cfg.HealthCheckTimeout})
		checkCtx, cancel := context.WithTimeout(ctx, v.cfg.HealthCheckTimeout)
		health := p.Check(checkCtx, target)
		cancel()

		res.Health = &health
		rec.HealthStatus = health.Status
		if health.Status == service.HealthUnhealthy {
			res.Issues = append(res.Issues, fmt.Sprintf("health check failed: %s", health.Reason))
		}
	}

	rec.Validated = res.Valid
	if !res.Valid {
		v.logger.Debug("service failed validation",
			clog.String("service", rec.Name),
			clog.Any("issues", res.Issues))
	}
	return res
}

func (v *Validator) checkStructure(rec *service.UnifiedRecord, res *Result) {
	fail := func(issue string) {
		res.Valid = false
		res.Issues = append(res.Issues, issue)
	}

	if rec.Name == "" {
		fail("name is empty")
	}
	for _, ep := range rec.Endpoints {
		if ep.Host == "" {
			fail("endpoint host is empty")
		}
		if ep.Port <= 0 || ep.Port > 65535 {
			fail(fmt.Sprintf("endpoint port %d out of range", ep.Port))
		}
	}

	if v.cfg.StrictValidation {
		if rec.Type == "" {
			fail("strict: type is empty")
		}
		if len(rec.Endpoints) == 0 {
			fail("strict: no endpoints declared")
		}
	}
}

// ValidateBatch 以有界并发校验多个记录，结果与输入同序
func (v *Validator) ValidateBatch(ctx context.Context, recs []*service.UnifiedRecord) ([]Result, Summary) {
	results := make([]Result, len(recs))
	sem := make(chan struct{}, v.cfg.MaxConcurrency)
	var wg sync.WaitGroup

	for i, rec := range recs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, rec *service.UnifiedRecord) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = v.Validate(ctx, rec)
		}(i, rec)
	}
	wg.Wait()

	return results, summarize(results)
}

func summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Valid {
			s.Valid++
		} else {
			s.Invalid++
		}
		switch {
		case r.Health == nil || r.Health.Status == service.HealthUnknown:
			s.Unknown++
		case r.Health.Status == service.HealthHealthy:
			s.Healthy++
		default:
			s.Unhealthy++
		}
	}
	return s
}
