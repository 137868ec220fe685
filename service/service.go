// Package service 定义 Scout 各发现源共享的服务数据模型。
//
// Record 是单个发现源在一个周期内对某服务的观测，
// UnifiedRecord 是跨源合并去重后驻留在注册表中的统一表示。
package service

import (
	"strings"

	"github.com/google/uuid"
)

// NormalizeName 归一化服务名，作为跨源合并的身份键。
// 规则：去首尾空白 + 小写。
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewID 生成周期内唯一的记录 ID
func NewID() string {
	return uuid.NewString()
}
