package service

import "strings"

// Filter 注册表查询过滤条件，零值匹配所有记录
type Filter struct {
	Source Source       // 按来源过滤 (匹配任一观测来源)
	Type   string       // 按服务类型过滤
	Status Status       // 按运行状态过滤
	Health HealthStatus // 按健康状态过滤
	Tag    string       // 按标签过滤
}

// Match 判断统一记录是否满足过滤条件
func (f Filter) Match(u *UnifiedRecord) bool {
	if f.Source != "" && !u.HasSource(f.Source) {
		return false
	}
	if f.Type != "" && u.Type != f.Type {
		return false
	}
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	if f.Health != "" && u.HealthStatus != f.Health {
		return false
	}
	if f.Tag != "" && !containsFold(u.Tags, f.Tag) {
		return false
	}
	return true
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
