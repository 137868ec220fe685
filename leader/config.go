package leader

import (
	"time"

	"github.com/ceyewan/scout/xerrors"
)

// Driver 选举后端类型
type Driver string

const (
	DriverRedis Driver = "redis"
	DriverEtcd  Driver = "etcd"
)

// Config 选举配置
type Config struct {
	// Driver 选举后端 (redis | etcd)
	Driver Driver `mapstructure:"driver"`
	// Key 领导权键，同一集群的全部实例必须一致 (默认: scout:leader)
	Key string `mapstructure:"key"`
	// TTL 领导权租约时长，持有期间自动续期 (默认: 15s)
	TTL time.Duration `mapstructure:"ttl"`
	// RetryInterval 竞选轮询间隔 (默认: 2s)
	RetryInterval time.Duration `mapstructure:"retry_interval"`
}

func (c *Config) setDefaults() {
	if c.Key == "" {
		c.Key = "scout:leader"
	}
	if c.TTL <= 0 {
		c.TTL = 15 * time.Second
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 2 * time.Second
	}
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverRedis, DriverEtcd:
		return nil
	default:
		return xerrors.Wrapf(ErrUnknownDriver, "driver %q", c.Driver)
	}
}
