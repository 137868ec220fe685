package service

import "time"

// UnifiedRecord 跨源合并后的注册表驻留记录，按归一化名称去重。
// 端点取并集，元数据取超集，状态与健康状态按来源优先级取单值。
type UnifiedRecord struct {
	ID             string            `json:"id" msgpack:"id"`
	Name           string            `json:"name" msgpack:"name"` // 归一化名称，注册表身份键
	Type           string            `json:"type" msgpack:"type"`
	Description    string            `json:"description,omitempty" msgpack:"description,omitempty"`
	Sources        []Source          `json:"sources" msgpack:"sources"`
	Status         Status            `json:"status" msgpack:"status"`
	HealthStatus   HealthStatus      `json:"health_status" msgpack:"health_status"`
	HealthEndpoint string            `json:"health_endpoint,omitempty" msgpack:"health_endpoint,omitempty"`
	Endpoints      []Endpoint        `json:"endpoints,omitempty" msgpack:"endpoints,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
	ConfigFiles    []string          `json:"config_files,omitempty" msgpack:"config_files,omitempty"`
	Tags           []string          `json:"tags,omitempty" msgpack:"tags,omitempty"`
	Validated      bool              `json:"validated" msgpack:"validated"`

	FirstSeen    time.Time `json:"first_seen" msgpack:"first_seen"`
	LastSeen     time.Time `json:"last_seen" msgpack:"last_seen"`
	MissedCycles int       `json:"missed_cycles" msgpack:"missed_cycles"`
}

// HasSource 判断该记录是否包含指定来源的观测
func (u *UnifiedRecord) HasSource(s Source) bool {
	for _, src := range u.Sources {
		if src == s {
			return true
		}
	}
	return false
}

// Clone 深拷贝，注册表对外返回快照时使用
func (u *UnifiedRecord) Clone() *UnifiedRecord {
	c := *u
	c.Sources = append([]Source(nil), u.Sources...)
	c.Endpoints = append([]Endpoint(nil), u.Endpoints...)
	c.ConfigFiles = append([]string(nil), u.ConfigFiles...)
	c.Tags = append([]string(nil), u.Tags...)
	if u.Metadata != nil {
		c.Metadata = make(map[string]string, len(u.Metadata))
		for k, v := range u.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

// Outcome 注册表单次变更的结果类型
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
)

// RegistrationResult 一次注册操作的结果
type RegistrationResult struct {
	Outcome Outcome `json:"outcome"`
	ID      string  `json:"id"`
	Name    string  `json:"name"`
}
