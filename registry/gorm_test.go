package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ceyewan/scout/service"
)

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}

	s, err := New(&Config{EnablePersistence: true, EnableDeduplication: true}, db)
	require.NoError(t, err)
	return s
}

func TestGormRegisterLifecycle(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	rec := sample("svc-a")
	res, err := s.Register(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeCreated, res.Outcome)

	// 无变化的重复注册
	res, err = s.Register(ctx, sample("svc-a"))
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeUnchanged, res.Outcome)

	// 内容变化 → 更新，保留首次发现时间与 ID
	changed := sample("svc-a")
	changed.Status = service.StatusStopped
	res, err = s.Register(ctx, changed)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeUpdated, res.Outcome)
	assert.Equal(t, rec.ID, res.ID)

	stored, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, service.StatusStopped, stored.Status)
	assert.False(t, stored.FirstSeen.IsZero())

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGormSearchAndFilter(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	web := sample("web-api")
	web.Tags = []string{"edge", "public"}
	cache := sample("redis-cache")
	cache.Type = service.TypeCache
	cache.Sources = []service.Source{service.SourceDocker}

	_, err := s.Register(ctx, web)
	require.NoError(t, err)
	_, err = s.Register(ctx, cache)
	require.NoError(t, err)

	recs, err := s.Search(ctx, "edge")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "web-api", recs[0].Name)

	recs, err = s.List(ctx, service.Filter{Type: service.TypeCache})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "redis-cache", recs[0].Name)
}

func TestGormDeregister(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	rec := sample("svc-a")
	_, err := s.Register(ctx, rec)
	require.NoError(t, err)

	require.NoError(t, s.Deregister(ctx, rec.ID))
	assert.ErrorIs(t, s.Deregister(ctx, rec.ID), ErrNotFound)
}
