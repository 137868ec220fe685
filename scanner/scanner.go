// Package scanner 实现本地文件系统服务发现。
//
// 按有序规则表对目录分类：显式服务清单 (service.json) 优先于
// 容器清单 (Dockerfile / docker-compose)，再次是语言清单
// (package.json / requirements.txt / pyproject.toml)。
// 清单损坏只产生软错误，目录仍会输出一条尽力而为的记录，
// 兄弟目录的扫描不受影响。
package scanner

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// Scanner 本地目录扫描器
type Scanner struct {
	cfg    *Config
	logger clog.Logger
}

// New 创建扫描器
func New(cfg *Config, opts ...Option) (*Scanner, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &Scanner{cfg: cfg, logger: opt.logger}, nil
}

// Name 发现源名称
func (s *Scanner) Name() string {
	return string(service.SourceLocal)
}

// Discover 扫描全部根目录并返回观测记录。
// 软错误 (根目录不可达、清单损坏) 合并后随结果一起返回，
// 不会中断其他目录的扫描。
func (s *Scanner) Discover(ctx context.Context) ([]service.Record, error) {
	var records []service.Record
	var errs []error

	for _, base := range s.cfg.BaseDirectories {
		if _, err := os.Stat(base); err != nil {
			errs = append(errs, xerrors.WithCode(
				xerrors.Wrapf(err, "base directory %s unreachable", base),
				xerrors.CodeSourceUnavailable))
			continue
		}
		s.walk(ctx, base, 0, &records, &errs)
	}

	s.logger.Debug("local scan finished",
		clog.Int("services", len(records)),
		clog.Int("errors", len(errs)))
	return records, xerrors.Combine(errs...)
}

// skipDirs 不值得深入的目录
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
	".git":         true,
}

func (s *Scanner) walk(ctx context.Context, dir string, depth int, records *[]service.Record, errs *[]error) {
	if ctx.Err() != nil {
		return
	}

	if r, marker, ok := classify(dir); ok {
		rec := s.buildRecord(dir, r, marker, errs)
		*records = append(*records, rec)
	}

	// 深度恰好为 MaxDepth 的目录已在上面分类，不再深入
	if depth >= s.cfg.MaxDepth {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		*errs = append(*errs, xerrors.Wrapf(err, "read directory %s", dir))
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || skipDirs[name] || (len(name) > 0 && name[0] == '.') {
			continue
		}
		s.walk(ctx, filepath.Join(dir, name), depth+1, records, errs)
	}
}

// buildRecord 为命中规则的目录构造观测记录。
// 清单解析失败时记录软错误，记录本身仍带着已知字段输出。
func (s *Scanner) buildRecord(dir string, r *rule, marker string, errs *[]error) service.Record {
	rec := service.NewRecord(filepath.Base(dir), service.SourceLocal)
	rec.Type = r.serviceType
	rec.ConfigFiles = markerFiles(dir)
	rec.SetMeta("path", dir)

	if err := r.parse(dir, marker, &rec); err != nil {
		*errs = append(*errs, xerrors.WithCode(err, xerrors.CodeParse))
		s.logger.Warn("manifest parse failed",
			clog.String("dir", dir),
			clog.Error(err))
	}
	return rec
}
