package connector

import "time"

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Name     string `mapstructure:"name"`     // 连接器名称 (默认: "default")
	Addr     string `mapstructure:"addr"`     // [必填] 连接地址，如 "127.0.0.1:6379"
	Password string `mapstructure:"password"` // [可选] 认证密码
	DB       int    `mapstructure:"db"`       // [可选] 数据库编号 (默认: 0)

	PoolSize     int           `mapstructure:"pool_size"`     // 连接池大小 (默认: 10)
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`  // 连接超时 (默认: 5s)
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`  // 读取超时 (默认: 3s)
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // 写入超时 (默认: 3s)
}

func (c *RedisConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.PoolSize == 0 {
		c.PoolSize = 10
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

func (c *RedisConfig) validate() error {
	c.setDefaults()
	if c.Addr == "" {
		return ErrMissingAddr
	}
	return nil
}

// NATSConfig NATS 连接配置
type NATSConfig struct {
	Name          string        `mapstructure:"name"`           // 连接器名称 (默认: "default")
	URL           string        `mapstructure:"url"`            // 服务地址 (默认: "nats://127.0.0.1:4222")
	MaxReconnects int           `mapstructure:"max_reconnects"` // 最大重连次数 (默认: -1 不限制)
	ReconnectWait time.Duration `mapstructure:"reconnect_wait"` // 重连等待 (默认: 2s)
	Timeout       time.Duration `mapstructure:"timeout"`        // 连接超时 (默认: 5s)
}

func (c *NATSConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.URL == "" {
		c.URL = "nats://127.0.0.1:4222"
	}
	if c.MaxReconnects == 0 {
		c.MaxReconnects = -1
	}
	if c.ReconnectWait == 0 {
		c.ReconnectWait = 2 * time.Second
	}
	if c.Timeout == 0 {
		c.Timeout = 5 * time.Second
	}
}

func (c *NATSConfig) validate() error {
	c.setDefaults()
	return nil
}

// SQLiteConfig SQLite 连接配置
type SQLiteConfig struct {
	Name string `mapstructure:"name"` // 连接器名称 (默认: "default")
	Path string `mapstructure:"path"` // [必填] 数据库文件路径，":memory:" 表示内存库
}

func (c *SQLiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
}

func (c *SQLiteConfig) validate() error {
	c.setDefaults()
	if c.Path == "" {
		return ErrMissingPath
	}
	return nil
}

// EtcdConfig Etcd 连接配置
type EtcdConfig struct {
	Name        string        `mapstructure:"name"`         // 连接器名称 (默认: "default")
	Endpoints   []string      `mapstructure:"endpoints"`    // 节点地址列表 (默认: ["127.0.0.1:2379"])
	Username    string        `mapstructure:"username"`     // [可选] 用户名
	Password    string        `mapstructure:"password"`     // [可选] 密码
	DialTimeout time.Duration `mapstructure:"dial_timeout"` // 连接超时 (默认: 5s)
}

func (c *EtcdConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if len(c.Endpoints) == 0 {
		c.Endpoints = []string{"127.0.0.1:2379"}
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
}

func (c *EtcdConfig) validate() error {
	c.setDefaults()
	return nil
}

// DockerConfig Docker Daemon 连接配置
type DockerConfig struct {
	Name string `mapstructure:"name"` // 连接器名称 (默认: "default")
	Host string `mapstructure:"host"` // [可选] Daemon 地址，空时取 DOCKER_HOST 环境变量或本机 socket
}

func (c *DockerConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
}

func (c *DockerConfig) validate() error {
	c.setDefaults()
	return nil
}
