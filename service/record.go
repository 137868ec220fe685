package service

import (
	"fmt"
	"strings"
	"time"
)

// Source 标识产生观测的发现源
type Source string

const (
	SourceLocal  Source = "local"
	SourceDocker Source = "docker"
)

// externalPrefix 外部注册中心来源的统一前缀
const externalPrefix = "external:"

// ExternalSource 构造外部注册中心来源，如 "external:consul"
func ExternalSource(name string) Source {
	return Source(externalPrefix + name)
}

// IsExternal 判断来源是否为外部注册中心
func (s Source) IsExternal() bool {
	return strings.HasPrefix(string(s), externalPrefix)
}

// Family 返回来源的大类："local"、"docker" 或 "external"
func (s Source) Family() string {
	if s.IsExternal() {
		return "external"
	}
	return string(s)
}

// Status 服务运行状态
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// HealthStatus 服务健康状态
type HealthStatus string

const (
	HealthUnknown   HealthStatus = "unknown"
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

// 服务类型分类，由标签或镜像名启发式推断
const (
	TypeWebServer    = "web_server"
	TypeDatabase     = "database"
	TypeCache        = "cache"
	TypeMessageQueue = "message_queue"
	TypeApplication  = "app"
)

// Endpoint 服务的一个可达端点
type Endpoint struct {
	Protocol string `json:"protocol" msgpack:"protocol"`
	Host     string `json:"host" msgpack:"host"`
	Port     int    `json:"port" msgpack:"port"`
	URL      string `json:"url" msgpack:"url"`
}

// Address 返回 host:port 形式的地址
func (e Endpoint) Address() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

// NewEndpoint 构造端点并补全 URL
func NewEndpoint(protocol, host string, port int) Endpoint {
	return Endpoint{
		Protocol: protocol,
		Host:     host,
		Port:     port,
		URL:      fmt.Sprintf("%s://%s:%d", protocol, host, port),
	}
}

// Record 单个发现源在一个周期内的服务观测。
// (Name, Source) 跨周期稳定，是合并前的身份键；
// Metadata 只做增量补充，合并时不被破坏性覆盖。
type Record struct {
	ID             string            `json:"id" msgpack:"id"`
	Name           string            `json:"name" msgpack:"name"`
	Type           string            `json:"type" msgpack:"type"`
	Source         Source            `json:"source" msgpack:"source"`
	Status         Status            `json:"status" msgpack:"status"`
	HealthStatus   HealthStatus      `json:"health_status,omitempty" msgpack:"health_status,omitempty"`
	HealthEndpoint string            `json:"health_endpoint,omitempty" msgpack:"health_endpoint,omitempty"`
	Endpoints      []Endpoint        `json:"endpoints,omitempty" msgpack:"endpoints,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	ConfigFiles    []string          `json:"config_files,omitempty" msgpack:"config_files,omitempty"`
	Tags           []string          `json:"tags,omitempty" msgpack:"tags,omitempty"`
	DiscoveredAt   time.Time         `json:"discovered_at" msgpack:"discovered_at"`
	Validated      bool              `json:"validated" msgpack:"validated"`
}

// NewRecord 构造带 ID 和时间戳的观测记录
func NewRecord(name string, source Source) Record {
	return Record{
		ID:           NewID(),
		Name:         name,
		Source:       source,
		Status:       StatusUnknown,
		HealthStatus: HealthUnknown,
		Metadata:     map[string]string{},
		DiscoveredAt: time.Now(),
	}
}

// Identity 返回合并前的身份键 (归一化名称 + 来源)
func (r Record) Identity() string {
	return NormalizeName(r.Name) + "@" + string(r.Source)
}

// SetMeta 写入元数据，自动初始化 map
func (r *Record) SetMeta(key, value string) {
	if r.Metadata == nil {
		r.Metadata = map[string]string{}
	}
	r.Metadata[key] = value
}
