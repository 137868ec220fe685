// Package extract 实现服务元数据的尽力而为深度提取。
//
// 每个服务独立运行三类分析：依赖清单提取、安全信号检测、
// API 表面枚举。单类分析失败只记录在摘要里，既不影响其他
// 分析也不影响服务记录本身。
package extract

import (
	"context"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/service"
)

// 分析类型
const (
	KindDependencies = "dependencies"
	KindSecurity     = "security"
	KindAPISurface   = "api_surface"
)

// Extraction 一条类型化的提取结果
type Extraction struct {
	MetadataType string            `json:"metadata_type"`
	Service      string            `json:"service"`
	Data         map[string]string `json:"data"`
}

// Summary 一次提取的聚合摘要
type Summary struct {
	TotalExtractions int               `json:"total_extractions"`
	ByType           map[string]int    `json:"by_type"`
	Failures         map[string]string `json:"failures,omitempty"` // 分析类型 → 失败原因
}

// analysis 一类独立分析。返回 nil data 表示该服务无此类可提取内容。
type analysis struct {
	kind string
	run  func(rec *service.UnifiedRecord) (map[string]string, error)
}

// Extractor 元数据提取器
type Extractor struct {
	logger   clog.Logger
	analyses []analysis
}

// New 创建提取器
func New(opts ...Option) *Extractor {
	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &Extractor{
		logger: opt.logger,
		analyses: []analysis{
			{KindDependencies, extractDependencies},
			{KindSecurity, detectSecuritySignals},
			{KindAPISurface, extractAPISurface},
		},
	}
}

// Extract 对单个服务运行全部分析。
// 单类分析失败记录在摘要的 Failures 里，其余分析继续。
func (e *Extractor) Extract(ctx context.Context, rec *service.UnifiedRecord) ([]Extraction, Summary) {
	summary := Summary{ByType: map[string]int{}}
	var extractions []Extraction

	for _, a := range e.analyses {
		if ctx.Err() != nil {
			break
		}

		data, err := a.run(rec)
		if err != nil {
			if summary.Failures == nil {
				summary.Failures = map[string]string{}
			}
			summary.Failures[a.kind] = err.Error()
			e.logger.Debug("extraction analysis failed",
				clog.String("service", rec.Name),
				clog.String("kind", a.kind),
				clog.Error(err))
			continue
		}
		if data == nil {
			continue
		}

		extractions = append(extractions, Extraction{
			MetadataType: a.kind,
			Service:      rec.Name,
			Data:         data,
		})
		summary.TotalExtractions++
		summary.ByType[a.kind]++
	}
	return extractions, summary
}
