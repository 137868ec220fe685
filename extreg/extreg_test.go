package extreg

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// fakeSubAdapter 可编程的子适配器测试替身
type fakeSubAdapter struct {
	name    string
	records []service.Record
	err     error
	calls   int
}

func (f *fakeSubAdapter) Name() string                      { return f.name }
func (f *fakeSubAdapter) Type() string                      { return TypeConsul }
func (f *fakeSubAdapter) Connect(context.Context) error     { return f.err }
func (f *fakeSubAdapter) Discover(context.Context) ([]service.Record, error) {
	f.calls++
	return f.records, f.err
}

func TestNewValidatesEagerly(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{
			"未知类型",
			Config{Registries: []RegistryConfig{{Name: "r1", Type: "zookeeper"}}},
			ErrUnknownType,
		},
		{
			"缺少必填参数",
			Config{Registries: []RegistryConfig{{Name: "r1", Type: TypeConsul}}},
			ErrMissingParam,
		},
		{
			"重名注册中心",
			Config{Registries: []RegistryConfig{
				{Name: "r1", Type: TypeConsul, Params: map[string]string{"address": "127.0.0.1:8500"}},
				{Name: "r1", Type: TypeEureka, Params: map[string]string{"server_url": "http://e"}},
			}},
			ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&tt.cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			// 配置错误是致命错误
			assert.Equal(t, xerrors.CodeConfiguration, xerrors.GetCode(err))
		})
	}
}

func TestNewBuildsDeclaredAdapters(t *testing.T) {
	cfg := &Config{Registries: []RegistryConfig{
		{Name: "c1", Type: TypeConsul, Params: map[string]string{"address": "127.0.0.1:8500"}},
		{Name: "k1", Type: TypeKubernetes, Params: map[string]string{"api_server": "https://k8s:6443"}},
		{Name: "e1", Type: TypeEureka, Params: map[string]string{"server_url": "http://eureka:8761"}},
		{Name: "d1", Type: TypeEtcd, Params: map[string]string{"endpoints": "127.0.0.1:2379"}},
	}}

	a, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 4, a.Len())
}

func TestDiscoverIsolatesFailures(t *testing.T) {
	a, err := New(nil)
	require.NoError(t, err)

	good := &fakeSubAdapter{name: "good", records: []service.Record{service.NewRecord("svc-a", "")}}
	bad := &fakeSubAdapter{name: "bad", err: xerrors.New("connection refused")}
	require.NoError(t, a.Register(bad))
	require.NoError(t, a.Register(good))

	records, err := a.Discover(context.Background())

	// 失败的注册中心不影响其他注册中心的结果
	require.Len(t, records, 1)
	assert.Equal(t, service.ExternalSource("good"), records[0].Source)
	require.Error(t, err)
	assert.Equal(t, xerrors.CodeSourceUnavailable, xerrors.GetCode(err))
}

func TestBreakerShortCircuits(t *testing.T) {
	a, err := New(nil)
	require.NoError(t, err)

	failing := &fakeSubAdapter{name: "flaky", err: xerrors.New("timeout")}
	require.NoError(t, a.Register(failing))

	// 连续失败 3 次后熔断打开，后续调用不再到达后端
	for i := 0; i < 6; i++ {
		_, _ = a.Discover(context.Background())
	}
	assert.Equal(t, 3, failing.calls)
}

func TestEurekaDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/eureka/apps", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"applications":{"application":[
			{"name":"ORDERS","instance":[
				{"hostName":"host-1","status":"UP","port":{"$":8080},"healthCheckUrl":"http://host-1:8080/health"},
				{"hostName":"host-2","status":"DOWN","port":{"$":8080}}
			]}
		]}}`))
	}))
	defer srv.Close()

	sub := newEurekaAdapter(RegistryConfig{
		Name:   "e1",
		Type:   TypeEureka,
		Params: map[string]string{"server_url": srv.URL},
	})
	require.NoError(t, sub.Connect(context.Background()))

	records, err := sub.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "orders", rec.Name) // Eureka 应用名统一转小写
	assert.Equal(t, service.StatusRunning, rec.Status)
	assert.Equal(t, service.HealthHealthy, rec.HealthStatus)
	assert.Equal(t, "http://host-1:8080/health", rec.HealthEndpoint)
	assert.Len(t, rec.Endpoints, 2)
}

func TestKubernetesDiscover(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/namespaces/staging/services", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[
			{"metadata":{"name":"billing","labels":{"team":"pay"}},
			 "spec":{"type":"ClusterIP","clusterIP":"10.0.0.7",
			         "ports":[{"port":80,"protocol":"TCP"}],
			         "selector":{"app":"billing"}}}
		]}`))
	}))
	defer srv.Close()

	sub := newKubernetesAdapter(RegistryConfig{
		Name: "k1",
		Type: TypeKubernetes,
		Params: map[string]string{
			"api_server": srv.URL,
			"token":      "tok-123",
			"namespace":  "staging",
		},
	})

	records, err := sub.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "billing", rec.Name)
	assert.Equal(t, "pay", rec.Metadata["label.team"])
	assert.Equal(t, "staging", rec.Metadata["namespace"])
	require.Len(t, rec.Endpoints, 1)
	assert.Equal(t, "http://10.0.0.7:80", rec.Endpoints[0].URL)
}

func TestEurekaServerDown(t *testing.T) {
	sub := newEurekaAdapter(RegistryConfig{
		Name:   "e1",
		Type:   TypeEureka,
		Params: map[string]string{"server_url": "http://127.0.0.1:1"},
	})

	_, err := sub.Discover(context.Background())
	require.Error(t, err)
}
