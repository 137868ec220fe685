package service

import "time"

// DiscoveryStats 一次发现周期结束后的只读统计快照
type DiscoveryStats struct {
	TotalServices int            `json:"total_services"`
	BySource      map[string]int `json:"by_source"` // 键为来源大类: local / docker / external
	ErrorCount    int            `json:"error_count"`
	Errors        []string       `json:"errors,omitempty"`
	Duration      time.Duration  `json:"duration"`
	LastDiscovery time.Time      `json:"last_discovery"`
	CycleCount    int64          `json:"cycle_count"`
}

// Clone 深拷贝统计快照
func (s *DiscoveryStats) Clone() *DiscoveryStats {
	c := *s
	if s.BySource != nil {
		c.BySource = make(map[string]int, len(s.BySource))
		for k, v := range s.BySource {
			c.BySource[k] = v
		}
	}
	c.Errors = append([]string(nil), s.Errors...)
	return &c
}
