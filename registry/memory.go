package registry

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/service"
)

// memoryStore 纯内存目录，读写锁保护，对外只交出深拷贝
type memoryStore struct {
	cfg    *Config
	logger clog.Logger

	mu     sync.RWMutex
	byID   map[string]*service.UnifiedRecord
	byName map[string]string // 归一化名称 → ID
}

func newMemoryStore(cfg *Config, logger clog.Logger) *memoryStore {
	return &memoryStore{
		cfg:    cfg,
		logger: logger,
		byID:   map[string]*service.UnifiedRecord{},
		byName: map[string]string{},
	}
}

func (m *memoryStore) Register(ctx context.Context, rec *service.UnifiedRecord) (service.RegistrationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := service.NormalizeName(rec.Name)
	now := time.Now()

	var existing *service.UnifiedRecord
	if m.cfg.EnableDeduplication {
		if id, ok := m.byName[name]; ok {
			existing = m.byID[id]
		}
	} else if rec.ID != "" {
		existing = m.byID[rec.ID]
	}

	if existing == nil {
		stored := rec.Clone()
		stored.Name = name
		if stored.ID == "" {
			stored.ID = service.NewID()
		}
		if stored.FirstSeen.IsZero() {
			stored.FirstSeen = now
		}
		stored.LastSeen = now
		stored.MissedCycles = 0

		m.byID[stored.ID] = stored
		m.byName[name] = stored.ID
		rec.ID = stored.ID
		return service.RegistrationResult{Outcome: service.OutcomeCreated, ID: stored.ID, Name: name}, nil
	}

	// 身份冲突由更新消解，不对外暴露为错误
	if recordsEqual(existing, rec) {
		existing.LastSeen = now
		existing.MissedCycles = 0
		rec.ID = existing.ID
		return service.RegistrationResult{Outcome: service.OutcomeUnchanged, ID: existing.ID, Name: name}, nil
	}

	updated := rec.Clone()
	updated.Name = name
	updated.ID = existing.ID
	updated.FirstSeen = existing.FirstSeen
	updated.LastSeen = now
	updated.MissedCycles = 0
	m.byID[existing.ID] = updated
	rec.ID = existing.ID
	return service.RegistrationResult{Outcome: service.OutcomeUpdated, ID: existing.ID, Name: name}, nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (*service.UnifiedRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.Clone(), nil
}

func (m *memoryStore) GetByName(ctx context.Context, name string) (*service.UnifiedRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byName[service.NormalizeName(name)]
	if !ok {
		return nil, ErrNotFound
	}
	return m.byID[id].Clone(), nil
}

func (m *memoryStore) List(ctx context.Context, filter service.Filter) ([]*service.UnifiedRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*service.UnifiedRecord
	for _, rec := range m.byID {
		if filter.Match(rec) {
			out = append(out, rec.Clone())
		}
	}
	sortByName(out)
	return out, nil
}

func (m *memoryStore) Search(ctx context.Context, term string) ([]*service.UnifiedRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	term = strings.ToLower(term)
	var out []*service.UnifiedRecord
	for _, rec := range m.byID {
		if matchesTerm(rec, term) {
			out = append(out, rec.Clone())
		}
	}
	sortByName(out)
	return out, nil
}

func (m *memoryStore) Deregister(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	delete(m.byName, rec.Name)
	return nil
}

func (m *memoryStore) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID), nil
}

// matchesTerm 名称、描述、标签任一包含检索词即命中
func matchesTerm(rec *service.UnifiedRecord, term string) bool {
	if strings.Contains(strings.ToLower(rec.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Description), term) {
		return true
	}
	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// recordsEqual 比较注册表关心的字段，时间戳与丢失周期数除外
func recordsEqual(a, b *service.UnifiedRecord) bool {
	return a.Type == b.Type &&
		a.Description == b.Description &&
		a.Status == b.Status &&
		a.HealthStatus == b.HealthStatus &&
		a.HealthEndpoint == b.HealthEndpoint &&
		a.Validated == b.Validated &&
		reflect.DeepEqual(a.Sources, b.Sources) &&
		reflect.DeepEqual(a.Endpoints, b.Endpoints) &&
		reflect.DeepEqual(a.Metadata, b.Metadata) &&
		reflect.DeepEqual(a.ConfigFiles, b.ConfigFiles) &&
		reflect.DeepEqual(a.Tags, b.Tags)
}

func sortByName(recs []*service.UnifiedRecord) {
	sort.Slice(recs, func(i, j int) bool { return recs[i].Name < recs[j].Name })
}
