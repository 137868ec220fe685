package docker

import (
	"context"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// fakeLister 固定返回给定容器列表的测试替身
type fakeLister struct {
	containers []container.Summary
	err        error
	lastOpts   container.ListOptions
}

func (f *fakeLister) ContainerList(ctx context.Context, opts container.ListOptions) ([]container.Summary, error) {
	f.lastOpts = opts
	return f.containers, f.err
}

func newSource(cfg *Config, lister containerLister) *Source {
	s := New(cfg, nil)
	s.lister = lister
	return s
}

func TestDiscoverFromLabels(t *testing.T) {
	lister := &fakeLister{containers: []container.Summary{{
		ID:     "abcdef1234567890",
		Names:  []string{"/ignored"},
		Image:  "registry.example.com/team/api:v2",
		State:  "running",
		Status: "Up 2 hours (healthy)",
		Labels: map[string]string{
			"service.name": "orders-api",
			"service.type": "app",
			"service.tags": "edge, v2",
			"team":         "payments",
		},
		Ports: []container.Port{{IP: "0.0.0.0", PrivatePort: 80, PublicPort: 8080, Type: "tcp"}},
	}}}

	s := newSource(&Config{}, lister)
	records, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "orders-api", rec.Name)
	assert.Equal(t, "app", rec.Type)
	assert.Equal(t, service.SourceDocker, rec.Source)
	assert.Equal(t, service.StatusRunning, rec.Status)
	assert.Equal(t, service.HealthHealthy, rec.HealthStatus)
	assert.Equal(t, []string{"edge", "v2"}, rec.Tags)
	assert.Equal(t, "payments", rec.Metadata["label.team"])
	assert.Equal(t, "abcdef123456", rec.Metadata["container_id"])

	require.Len(t, rec.Endpoints, 1)
	assert.Equal(t, "http://localhost:8080", rec.Endpoints[0].URL)
}

func TestDiscoverFallbacks(t *testing.T) {
	// 无标签时回退到容器名与镜像名启发式
	lister := &fakeLister{containers: []container.Summary{{
		ID:     "1234567890ab",
		Names:  []string{"/svc-a"},
		Image:  "nginx:latest",
		State:  "running",
		Status: "Up 5 minutes",
		Ports:  []container.Port{{PrivatePort: 80, PublicPort: 8080, Type: "tcp"}},
	}}}

	s := newSource(&Config{}, lister)
	records, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "svc-a", rec.Name)
	assert.Equal(t, service.TypeWebServer, rec.Type)
	assert.Equal(t, service.HealthUnknown, rec.HealthStatus)
}

func TestClassifyImage(t *testing.T) {
	tests := []struct {
		image string
		want  string
	}{
		{"nginx:latest", service.TypeWebServer},
		{"registry.io/library/postgres:16", service.TypeDatabase},
		{"redis", service.TypeCache},
		{"bitnami/kafka:3.7", service.TypeMessageQueue},
		{"ghcr.io/acme/billing:1.0", service.TypeApplication},
	}

	for _, tt := range tests {
		t.Run(tt.image, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyImage(tt.image))
		})
	}
}

func TestDiscoverStoppedContainers(t *testing.T) {
	lister := &fakeLister{containers: []container.Summary{{
		ID:     "deadbeef0000",
		Names:  []string{"/old-svc"},
		Image:  "mysql:8",
		State:  "exited",
		Status: "Exited (0) 3 days ago",
	}}}

	s := newSource(&Config{IncludeStopped: true}, lister)
	records, err := s.Discover(context.Background())
	require.NoError(t, err)

	assert.True(t, lister.lastOpts.All)
	require.Len(t, records, 1)
	assert.Equal(t, service.StatusStopped, records[0].Status)
	assert.Empty(t, records[0].Endpoints)
}

func TestDiscoverLabelFilters(t *testing.T) {
	lister := &fakeLister{}
	s := newSource(&Config{LabelFilters: map[string]string{"env": "prod"}}, lister)

	_, err := s.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"env=prod"}, lister.lastOpts.Filters.Get("label"))
}

func TestDiscoverDaemonUnreachable(t *testing.T) {
	lister := &fakeLister{err: xerrors.New("cannot connect to the docker daemon")}
	s := newSource(&Config{}, lister)

	records, err := s.Discover(context.Background())
	assert.Empty(t, records)
	require.Error(t, err)
	assert.Equal(t, xerrors.CodeSourceUnavailable, xerrors.GetCode(err))
}

func TestDiscoverWithoutConnection(t *testing.T) {
	s := New(&Config{}, nil)
	records, err := s.Discover(context.Background())

	assert.Empty(t, records)
	require.Error(t, err)
	assert.Equal(t, xerrors.CodeSourceUnavailable, xerrors.GetCode(err))
}
