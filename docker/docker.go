// Package docker 实现容器运行时服务发现。
//
// 通过 Docker Daemon 枚举容器，按 service.name / service.type
// 标签识别服务，缺失时回退到容器名与镜像名启发式。
// Daemon 不可达只产生软错误，本源贡献零条记录，不影响整个周期。
package docker

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/connector"
	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// 容器标签约定
const (
	labelName = "service.name"
	labelType = "service.type"
	labelTags = "service.tags"
)

// containerLister 本包对 Docker SDK 的最小依赖面
type containerLister interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// Source 容器发现源
type Source struct {
	cfg    *Config
	conn   connector.DockerConnector
	lister containerLister // 测试替身注入点，nil 时借用 conn 的客户端
	logger clog.Logger
}

// New 创建容器发现源，连接生命周期由调用方的连接器管理
func New(cfg *Config, conn connector.DockerConnector, opts ...Option) *Source {
	if cfg == nil {
		cfg = &Config{}
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &Source{cfg: cfg, conn: conn, logger: opt.logger}
}

// Name 发现源名称
func (s *Source) Name() string {
	return string(service.SourceDocker)
}

// Discover 枚举容器并转换为观测记录。
// Daemon 不可达返回零条记录与一个软错误，不中断批次。
func (s *Source) Discover(ctx context.Context) ([]service.Record, error) {
	lister := s.lister
	if lister == nil {
		if s.conn == nil || s.conn.GetClient() == nil {
			return nil, xerrors.WithCode(
				xerrors.New("docker daemon not connected"),
				xerrors.CodeSourceUnavailable)
		}
		lister = s.conn.GetClient()
	}

	listOpts := container.ListOptions{All: s.cfg.IncludeStopped}
	if len(s.cfg.LabelFilters) > 0 {
		args := filters.NewArgs()
		for k, v := range s.cfg.LabelFilters {
			args.Add("label", k+"="+v)
		}
		listOpts.Filters = args
	}

	containers, err := lister.ContainerList(ctx, listOpts)
	if err != nil {
		s.logger.Warn("container enumeration failed", clog.Error(err))
		return nil, xerrors.WithCode(
			xerrors.Wrap(err, "list containers"),
			xerrors.CodeSourceUnavailable)
	}

	records := make([]service.Record, 0, len(containers))
	for _, c := range containers {
		records = append(records, s.toRecord(c))
	}

	s.logger.Debug("docker discovery finished", clog.Int("services", len(records)))
	return records, nil
}

func (s *Source) toRecord(c container.Summary) service.Record {
	rec := service.NewRecord(serviceName(c), service.SourceDocker)
	rec.Type = serviceType(c)
	rec.Status = runState(c.State)
	rec.HealthStatus = healthFromStatus(c.Status)
	rec.Endpoints = endpoints(c.Ports)

	rec.SetMeta("image", c.Image)
	rec.SetMeta("container_id", shortID(c.ID))
	rec.SetMeta("container_status", c.Status)
	for k, v := range c.Labels {
		if k == labelName || k == labelType || k == labelTags {
			continue
		}
		rec.SetMeta("label."+k, v)
	}

	if tags := c.Labels[labelTags]; tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				rec.Tags = append(rec.Tags, tag)
			}
		}
	}
	return rec
}

// serviceName 取 service.name 标签，缺失时回退到容器名
func serviceName(c container.Summary) string {
	if name := c.Labels[labelName]; name != "" {
		return name
	}
	if len(c.Names) > 0 {
		return strings.TrimPrefix(c.Names[0], "/")
	}
	return shortID(c.ID)
}

// serviceType 取 service.type 标签，缺失时按镜像名启发式分类
func serviceType(c container.Summary) string {
	if typ := c.Labels[labelType]; typ != "" {
		return typ
	}
	return classifyImage(c.Image)
}

func runState(state string) service.Status {
	switch state {
	case "running", "restarting":
		return service.StatusRunning
	case "exited", "dead", "created", "paused", "removing":
		return service.StatusStopped
	default:
		return service.StatusUnknown
	}
}

// healthFromStatus 从状态文案解析容器自带健康检查的结果，
// 形如 "Up 2 hours (healthy)"。未配置健康检查时为 unknown。
func healthFromStatus(status string) service.HealthStatus {
	switch {
	case strings.Contains(status, "(healthy)"):
		return service.HealthHealthy
	case strings.Contains(status, "(unhealthy)"):
		return service.HealthUnhealthy
	default:
		return service.HealthUnknown
	}
}

// endpoints 把已发布的端口映射转换为端点，宿主机侧端口对外
func endpoints(ports []container.Port) []service.Endpoint {
	var eps []service.Endpoint
	for _, p := range ports {
		if p.PublicPort == 0 {
			continue
		}
		host := p.IP
		if host == "" || host == "0.0.0.0" || host == "::" {
			host = "localhost"
		}
		proto := "http"
		if p.Type != "" && p.Type != "tcp" {
			proto = p.Type
		}
		eps = append(eps, service.NewEndpoint(proto, host, int(p.PublicPort)))
	}
	return eps
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
