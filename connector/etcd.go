package connector

import (
	"context"
	"sync"
	"sync/atomic"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/xerrors"
)

type etcdConnector struct {
	cfg     *EtcdConfig
	logger  clog.Logger
	healthy atomic.Bool

	mu     sync.Mutex
	client *clientv3.Client
}

// NewEtcd 创建 Etcd 连接器
func NewEtcd(cfg *EtcdConfig, opts ...Option) (EtcdConnector, error) {
	if cfg == nil {
		cfg = &EtcdConfig{}
	}
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Wrap(err, "invalid etcd config")
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &etcdConnector{
		cfg:    cfg,
		logger: opt.logger.With(clog.String("connector", "etcd"), clog.String("name", cfg.Name)),
	}, nil
}

// Connect 建立连接，幂等
func (c *etcdConnector) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   c.cfg.Endpoints,
		Username:    c.cfg.Username,
		Password:    c.cfg.Password,
		DialTimeout: c.cfg.DialTimeout,
	})
	if err != nil {
		c.logger.Error("failed to create etcd client", clog.Error(err))
		return xerrors.Wrapf(err, "etcd connector[%s]: connection failed", c.cfg.Name)
	}

	// 验证至少一个节点可达
	checkCtx, cancel := context.WithTimeout(ctx, c.cfg.DialTimeout)
	defer cancel()
	if _, err := client.Status(checkCtx, c.cfg.Endpoints[0]); err != nil {
		_ = client.Close()
		c.logger.Error("etcd endpoint unreachable", clog.Error(err), clog.String("endpoint", c.cfg.Endpoints[0]))
		return xerrors.Wrapf(err, "etcd connector[%s]: endpoint unreachable", c.cfg.Name)
	}

	c.client = client
	c.healthy.Store(true)
	c.logger.Info("connected to etcd", clog.Any("endpoints", c.cfg.Endpoints))
	return nil
}

// Close 关闭连接
func (c *etcdConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.healthy.Store(false)
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// HealthCheck 检查连接健康状态
func (c *etcdConnector) HealthCheck(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return ErrClientNil
	}
	if _, err := client.Status(ctx, c.cfg.Endpoints[0]); err != nil {
		c.healthy.Store(false)
		return xerrors.Wrapf(err, "etcd connector[%s]: health check failed", c.cfg.Name)
	}
	c.healthy.Store(true)
	return nil
}

func (c *etcdConnector) IsHealthy() bool {
	return c.healthy.Load()
}

func (c *etcdConnector) Name() string {
	return c.cfg.Name
}

func (c *etcdConnector) GetClient() *clientv3.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}
