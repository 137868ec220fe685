package connector

import (
	"context"
	"sync"
	"sync/atomic"

	dockerclient "github.com/docker/docker/client"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/xerrors"
)

type dockerConnector struct {
	cfg     *DockerConfig
	logger  clog.Logger
	healthy atomic.Bool

	mu     sync.Mutex
	client *dockerclient.Client
}

// NewDocker 创建 Docker Daemon 连接器
//
// Host 为空时依次取 DOCKER_HOST 环境变量和本机默认 socket。
func NewDocker(cfg *DockerConfig, opts ...Option) (DockerConnector, error) {
	if cfg == nil {
		cfg = &DockerConfig{}
	}
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Wrap(err, "invalid docker config")
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &dockerConnector{
		cfg:    cfg,
		logger: opt.logger.With(clog.String("connector", "docker"), clog.String("name", cfg.Name)),
	}, nil
}

// Connect 创建客户端并验证 Daemon 可达，幂等
func (c *dockerConnector) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return nil
	}

	clientOpts := []dockerclient.Opt{
		dockerclient.FromEnv,
		dockerclient.WithAPIVersionNegotiation(),
	}
	if c.cfg.Host != "" {
		clientOpts = append(clientOpts, dockerclient.WithHost(c.cfg.Host))
	}

	client, err := dockerclient.NewClientWithOpts(clientOpts...)
	if err != nil {
		c.logger.Error("failed to create docker client", clog.Error(err))
		return xerrors.Wrapf(err, "docker connector[%s]: client creation failed", c.cfg.Name)
	}

	if _, err := client.Ping(ctx); err != nil {
		_ = client.Close()
		c.logger.Error("docker daemon unreachable", clog.Error(err))
		return xerrors.Wrapf(err, "docker connector[%s]: daemon unreachable", c.cfg.Name)
	}

	c.client = client
	c.healthy.Store(true)
	c.logger.Info("connected to docker daemon")
	return nil
}

// Close 关闭连接
func (c *dockerConnector) Close() error {
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

// HealthCheck 检查 Daemon 可达性
func (c *dockerConnector) HealthCheck(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.mu.Unlock()

	if client == nil {
		return ErrClientNil
	}
	if _, err := client.Ping(ctx); err != nil {
		c.healthy.Store(false)
		return xerrors.Wrapf(err, "docker connector[%s]: health check failed", c.cfg.Name)
	}
	c.healthy.Store(true)
	return nil
}

func (c *dockerConnector) IsHealthy() bool {
	return c.healthy.Load()
}

func (c *dockerConnector) Name() string {
	return c.cfg.Name
}

func (c *dockerConnector) GetClient() *dockerclient.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}
