package discovery

import (
	"sort"
	"time"

	"github.com/ceyewan/scout/service"
)

// unify 把一个周期内的全部源观测合并为统一记录。
// 以归一化名称为合并键；无名观测不参与合并，按 ID 独立保留。
// 输出按名称排序，保证跨周期确定性。
func (o *Orchestrator) unify(records []service.Record) []*service.UnifiedRecord {
	groups := map[string][]service.Record{}
	for _, rec := range records {
		key := service.NormalizeName(rec.Name)
		if key == "" {
			key = rec.ID
		}
		groups[key] = append(groups[key], rec)
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	unified := make([]*service.UnifiedRecord, 0, len(keys))
	for _, key := range keys {
		unified = append(unified, o.mergeGroup(key, groups[key]))
	}
	return unified
}

// rank 返回来源大类在优先级列表中的序号，未列出的排最后
func (o *Orchestrator) rank(src service.Source) int {
	family := src.Family()
	for i, f := range o.cfg.SourcePrecedence {
		if f == family {
			return i
		}
	}
	return len(o.cfg.SourcePrecedence)
}

// mergeGroup 按来源优先级合并同名观测：
//   - 状态、健康、类型、健康端点取最高优先级的非空值
//   - 端点取拥有端点的最高优先级大类，组内按 URL 去重
//   - 元数据先写者保留，被覆盖的值存入 alt.<来源>.<键>
//   - 标签与配置文件取并集
func (o *Orchestrator) mergeGroup(name string, group []service.Record) *service.UnifiedRecord {
	sort.SliceStable(group, func(i, j int) bool {
		ri, rj := o.rank(group[i].Source), o.rank(group[j].Source)
		if ri != rj {
			return ri < rj
		}
		return group[i].Source < group[j].Source
	})

	now := time.Now()
	u := &service.UnifiedRecord{
		Name:      name,
		Status:    service.StatusUnknown,
		Metadata:  map[string]string{},
		FirstSeen: now,
		LastSeen:  now,
	}

	endpointFamily := ""
	seenURL := map[string]bool{}

	for _, rec := range group {
		if !u.HasSource(rec.Source) {
			u.Sources = append(u.Sources, rec.Source)
		}
		if u.Type == "" {
			u.Type = rec.Type
		}
		if u.Status == service.StatusUnknown && rec.Status != "" {
			u.Status = rec.Status
		}
		if (u.HealthStatus == "" || u.HealthStatus == service.HealthUnknown) && rec.HealthStatus != "" {
			u.HealthStatus = rec.HealthStatus
		}
		if u.HealthEndpoint == "" {
			u.HealthEndpoint = rec.HealthEndpoint
		}

		// 端点只取拥有端点的最高优先级大类，避免把低优先级
		// 源声明的陈旧端口混进可达地址
		if len(rec.Endpoints) > 0 {
			family := rec.Source.Family()
			if endpointFamily == "" {
				endpointFamily = family
			}
			if family == endpointFamily {
				for _, ep := range rec.Endpoints {
					if !seenURL[ep.URL] {
						seenURL[ep.URL] = true
						u.Endpoints = append(u.Endpoints, ep)
					}
				}
			}
		}

		for k, v := range rec.Metadata {
			existing, ok := u.Metadata[k]
			switch {
			case !ok:
				u.Metadata[k] = v
			case existing != v:
				u.Metadata["alt."+string(rec.Source)+"."+k] = v
			}
		}

		u.Tags = appendUnique(u.Tags, rec.Tags)
		u.ConfigFiles = appendUnique(u.ConfigFiles, rec.ConfigFiles)
	}

	if u.HealthStatus == "" {
		u.HealthStatus = service.HealthUnknown
	}
	u.Description = u.Metadata["description"]

	return u
}

func appendUnique(dst []string, src []string) []string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}
