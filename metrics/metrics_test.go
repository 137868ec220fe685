package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/scout/xerrors"
)

func TestNewDefaults(t *testing.T) {
	meter, err := New(nil)
	require.NoError(t, err)
	require.NotNil(t, meter)

	c, err := meter.Counter("cycles_total", "发现周期总数")
	require.NoError(t, err)
	c.Inc()

	// 默认命名空间 scout 应出现在抓取输出中
	assert.Contains(t, scrape(t, meter), "scout_cycles_total 1")
}

func TestCounter(t *testing.T) {
	meter := xerrors.Must(New(&Config{Namespace: "test"}))

	c, err := meter.Counter("events_total", "事件总数", "type")
	require.NoError(t, err)

	c.Inc(L("type", "discovered"))
	c.Inc(L("type", "discovered"))
	c.Add(3, L("type", "removed"))

	body := scrape(t, meter)
	assert.Contains(t, body, `test_events_total{type="discovered"} 2`)
	assert.Contains(t, body, `test_events_total{type="removed"} 3`)
}

func TestGauge(t *testing.T) {
	meter := xerrors.Must(New(&Config{Namespace: "test"}))

	g, err := meter.Gauge("services", "当前服务数")
	require.NoError(t, err)

	g.Set(10)
	g.Inc()
	g.Dec()
	g.Dec()

	assert.Contains(t, scrape(t, meter), "test_services 9")
}

func TestHistogram(t *testing.T) {
	meter := xerrors.Must(New(&Config{Namespace: "test"}))

	// 自定义桶
	h, err := meter.Histogram("cycle_seconds", "周期耗时", []float64{0.1, 1, 10})
	require.NoError(t, err)
	h.Observe(0.5)
	h.Observe(2)

	body := scrape(t, meter)
	assert.Contains(t, body, `test_cycle_seconds_bucket{le="1"} 1`)
	assert.Contains(t, body, "test_cycle_seconds_count 2")

	// 空桶使用 prometheus 默认桶
	_, err = meter.Histogram("latency_seconds", "延迟", nil)
	require.NoError(t, err)
}

func TestDuplicateNameReturnsSameInstrument(t *testing.T) {
	meter := xerrors.Must(New(&Config{Namespace: "test"}))

	c1, err := meter.Counter("dup_total", "重复注册")
	require.NoError(t, err)
	c2, err := meter.Counter("dup_total", "重复注册")
	require.NoError(t, err)

	c1.Inc()
	c2.Inc()

	// 两次创建拿到同一底层计数器
	assert.Contains(t, scrape(t, meter), "test_dup_total 2")
}

func TestEmptyNameRejected(t *testing.T) {
	meter := xerrors.Must(New(&Config{Namespace: "test"}))

	_, err := meter.Counter("", "无名")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	_, err = meter.Gauge("", "无名")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	_, err = meter.Histogram("", "无名", nil)
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
}

func TestMissingLabelDefaultsToEmpty(t *testing.T) {
	meter := xerrors.Must(New(&Config{Namespace: "test"}))

	c, err := meter.Counter("partial_total", "部分标签", "source", "outcome")
	require.NoError(t, err)

	// 未提供的标签取空串，多余的标签被忽略
	c.Inc(L("source", "docker"), L("extra", "ignored"))

	assert.Contains(t, scrape(t, meter), `test_partial_total{outcome="",source="docker"} 1`)
}

func TestIsolatedRegistries(t *testing.T) {
	m1 := xerrors.Must(New(&Config{Namespace: "a"}))
	m2 := xerrors.Must(New(&Config{Namespace: "a"}))

	c1 := xerrors.Must(m1.Counter("same_total", "同名"))
	c1.Inc()
	_, err := m2.Counter("same_total", "同名")

	// 每个 Meter 使用独立 Registry，同名指标互不冲突
	require.NoError(t, err)
	assert.NotContains(t, scrape(t, m2), "a_same_total 1")
}

func TestDiscard(t *testing.T) {
	meter := Discard()

	c := xerrors.Must(meter.Counter("x", ""))
	g := xerrors.Must(meter.Gauge("y", ""))
	h := xerrors.Must(meter.Histogram("z", "", nil))

	// 空实现不 panic、不记录
	c.Inc()
	c.Add(1)
	g.Set(1)
	g.Inc()
	g.Dec()
	h.Observe(1)

	require.NotNil(t, meter.Handler())
}

// scrape 通过 Handler 抓取指标文本（内部使用）
func scrape(t *testing.T, m Meter) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(body))
}
