// Package extreg 实现外部注册中心服务发现。
//
// 一个命名的类型化子适配器集合 (consul / kubernetes / eureka / etcd)，
// 注册时立即校验类型与必填参数 (配置错误是唯一的致命错误)，
// 网络 IO 推迟到发现阶段，单个注册中心不可达不会阻塞其他注册中心。
// 每个子适配器的发现调用都包着熔断器，持续失败的后端会被快速短路。
package extreg

import (
	"context"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// SubAdapter 单个外部注册中心的发现能力。
// Connect 做连接验证，Discover 把平台原生目录翻译为观测记录。
type SubAdapter interface {
	Name() string
	Type() string
	Connect(ctx context.Context) error
	Discover(ctx context.Context) ([]service.Record, error)
}

// Adapters 子适配器集合，自身也是一个发现源
type Adapters struct {
	logger   clog.Logger
	adapters []SubAdapter
	names    map[string]bool
}

// New 按配置构建适配器集合。
// 任一注册中心声明非法都立即失败，不会留下半初始化的集合。
func New(cfg *Config, opts ...Option) (*Adapters, error) {
	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	a := &Adapters{
		logger: opt.logger,
		names:  map[string]bool{},
	}
	if cfg == nil {
		return a, nil
	}

	for _, rc := range cfg.Registries {
		sub, err := buildSubAdapter(rc)
		if err != nil {
			return nil, err
		}
		if err := a.Register(sub); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Register 注册子适配器，名称冲突立即失败
func (a *Adapters) Register(sub SubAdapter) error {
	if sub.Name() == "" {
		return xerrors.WithCode(ErrEmptyName, xerrors.CodeConfiguration)
	}
	if a.names[sub.Name()] {
		return xerrors.WithCode(
			xerrors.Wrapf(ErrDuplicateName, "registry %q", sub.Name()),
			xerrors.CodeConfiguration)
	}
	a.names[sub.Name()] = true
	a.adapters = append(a.adapters, newBreakerAdapter(sub, a.logger))
	a.logger.Info("external registry registered",
		clog.String("name", sub.Name()),
		clog.String("type", sub.Type()))
	return nil
}

// Len 已注册的子适配器数量
func (a *Adapters) Len() int {
	return len(a.adapters)
}

// Name 发现源名称
func (a *Adapters) Name() string {
	return "external"
}

// Discover 依次查询全部子适配器。
// 单个注册中心失败降级为软错误，其余注册中心的结果正常返回；
// 每条记录的来源标记为 external:<注册中心名>。
func (a *Adapters) Discover(ctx context.Context) ([]service.Record, error) {
	var records []service.Record
	var errs []error

	for _, sub := range a.adapters {
		recs, err := sub.Discover(ctx)
		if err != nil {
			errs = append(errs, xerrors.WithCode(
				xerrors.Wrapf(err, "registry %q", sub.Name()),
				xerrors.CodeSourceUnavailable))
			continue
		}
		src := service.ExternalSource(sub.Name())
		for i := range recs {
			recs[i].Source = src
		}
		records = append(records, recs...)
	}

	a.logger.Debug("external discovery finished",
		clog.Int("services", len(records)),
		clog.Int("errors", len(errs)))
	return records, xerrors.Combine(errs...)
}

// buildSubAdapter 按声明构建子适配器，类型与必填参数立即校验
func buildSubAdapter(rc RegistryConfig) (SubAdapter, error) {
	required, ok := requiredParams[rc.Type]
	if !ok {
		return nil, xerrors.WithCode(
			xerrors.Wrapf(ErrUnknownType, "registry %q declares type %q", rc.Name, rc.Type),
			xerrors.CodeConfiguration)
	}
	for _, p := range required {
		if rc.Params[p] == "" {
			return nil, xerrors.WithCode(
				xerrors.Wrapf(ErrMissingParam, "registry %q (type %s) needs %q", rc.Name, rc.Type, p),
				xerrors.CodeConfiguration)
		}
	}

	switch rc.Type {
	case TypeConsul:
		return newConsulAdapter(rc), nil
	case TypeKubernetes:
		return newKubernetesAdapter(rc), nil
	case TypeEureka:
		return newEurekaAdapter(rc), nil
	default:
		return newEtcdAdapter(rc), nil
	}
}
