package service

import "time"

// HealthResult 任意一种健康探针的检查输出
type HealthResult struct {
	Status       HealthStatus      `json:"status"`
	ResponseTime time.Duration     `json:"response_time,omitempty"`
	Reason       string            `json:"reason,omitempty"` // 不健康时的首要原因
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Healthy 构造健康结果
func Healthy(rt time.Duration) HealthResult {
	return HealthResult{Status: HealthHealthy, ResponseTime: rt}
}

// Unhealthy 构造不健康结果并记录原因
func Unhealthy(reason string) HealthResult {
	return HealthResult{Status: HealthUnhealthy, Reason: reason}
}
