package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func newScanner(t *testing.T, cfg *Config) *Scanner {
	t.Helper()
	s, err := New(cfg)
	require.NoError(t, err)
	return s
}

func TestScanPackageJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node-app"), "package.json",
		`{"name":"svc-a","version":"1.2.0","dependencies":{"express":"^4"}}`)

	s := newScanner(t, &Config{BaseDirectories: []string{root}})
	records, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "svc-a", rec.Name)
	assert.Equal(t, "nodejs", rec.Type)
	assert.Equal(t, service.SourceLocal, rec.Source)
	assert.Equal(t, "1.2.0", rec.Metadata["version"])
	assert.Equal(t, "express", rec.Metadata["framework"])
	assert.Contains(t, rec.ConfigFiles, "package.json")

	// express 约定端口 3000 与 /health
	require.Len(t, rec.Endpoints, 1)
	assert.Equal(t, 3000, rec.Endpoints[0].Port)
	assert.Equal(t, "http://localhost:3000/health", rec.HealthEndpoint)
}

func TestScanRulePrecedence(t *testing.T) {
	// 同一目录下显式清单优先于语言清单
	root := t.TempDir()
	dir := filepath.Join(root, "svc")
	writeFile(t, dir, "service.json", `{"name":"mcp-svc","type":"tooling","port":9000}`)
	writeFile(t, dir, "package.json", `{"name":"npm-svc"}`)

	s := newScanner(t, &Config{BaseDirectories: []string{root}})
	records, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "mcp-svc", records[0].Name)
	assert.Equal(t, "tooling", records[0].Type)
	// 两个标记文件都进 config_files
	assert.ElementsMatch(t, []string{"service.json", "package.json"}, records[0].ConfigFiles)
}

func TestScanMalformedManifest(t *testing.T) {
	// 损坏的清单仍产出记录，且不影响兄弟目录
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "broken"), "package.json", `{not json`)
	writeFile(t, filepath.Join(root, "healthy"), "package.json", `{"name":"svc-ok"}`)

	s := newScanner(t, &Config{BaseDirectories: []string{root}})
	records, err := s.Discover(context.Background())

	require.Error(t, err)
	assert.Equal(t, xerrors.CodeParse, xerrors.GetCode(err))
	require.Len(t, records, 2)

	names := []string{records[0].Name, records[1].Name}
	assert.Contains(t, names, "broken") // 名字回退为目录名
	assert.Contains(t, names, "svc-ok")
}

func TestScanDepthEnforcement(t *testing.T) {
	root := t.TempDir()
	// 深度恰好为 2 的服务可见，深度 3 的不可见
	writeFile(t, filepath.Join(root, "a", "at-depth-2"), "package.json", `{"name":"visible"}`)
	writeFile(t, filepath.Join(root, "a", "b", "at-depth-3"), "package.json", `{"name":"hidden"}`)

	s := newScanner(t, &Config{BaseDirectories: []string{root}, MaxDepth: 2})
	records, err := s.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "visible", records[0].Name)
}

func TestScanPythonRequirements(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "py-app"), "requirements.txt",
		"# web deps\nFlask==2.3.0\nrequests>=2.0\n")

	s := newScanner(t, &Config{BaseDirectories: []string{root}})
	records, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "python", rec.Type)
	assert.Equal(t, "flask,requests", rec.Metadata["dependencies"])
	require.Len(t, rec.Endpoints, 1)
	assert.Equal(t, 5000, rec.Endpoints[0].Port)
}

func TestScanPyproject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "py-api"), "pyproject.toml", `
[project]
name = "py-api"
version = "0.3.0"
dependencies = ["fastapi>=0.100", "pydantic"]
`)

	s := newScanner(t, &Config{BaseDirectories: []string{root}})
	records, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "py-api", rec.Name)
	assert.Equal(t, "0.3.0", rec.Metadata["version"])
	assert.Equal(t, "fastapi", rec.Metadata["framework"])
}

func TestScanCompose(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "stack"), "docker-compose.yml", `
services:
  web:
    image: nginx:latest
    ports:
      - "8080:80"
  db:
    image: postgres:16
`)

	s := newScanner(t, &Config{BaseDirectories: []string{root}})
	records, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "container", rec.Type)
	assert.Equal(t, "db,web", rec.Metadata["compose_services"])
	assert.Equal(t, "nginx:latest", rec.Metadata["image.web"])
	require.Len(t, rec.Endpoints, 1)
	assert.Equal(t, 8080, rec.Endpoints[0].Port)
}

func TestScanDockerfileExpose(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "img"), "Dockerfile",
		"FROM alpine\nEXPOSE 8080 9090/udp\n")

	s := newScanner(t, &Config{BaseDirectories: []string{root}})
	records, err := s.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.Len(t, records[0].Endpoints, 2)
	assert.Equal(t, 8080, records[0].Endpoints[0].Port)
	assert.Equal(t, "udp", records[0].Endpoints[1].Protocol)
}

func TestScanMissingBaseDirectory(t *testing.T) {
	s := newScanner(t, &Config{BaseDirectories: []string{"/does/not/exist"}})
	records, err := s.Discover(context.Background())

	assert.Empty(t, records)
	require.Error(t, err)
	assert.Equal(t, xerrors.CodeSourceUnavailable, xerrors.GetCode(err))
}

func TestScanSkipsHiddenAndVendorDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "leftpad"), "package.json", `{"name":"leftpad"}`)
	writeFile(t, filepath.Join(root, ".cache", "x"), "package.json", `{"name":"cached"}`)
	writeFile(t, filepath.Join(root, "app"), "package.json", `{"name":"real"}`)

	s := newScanner(t, &Config{BaseDirectories: []string{root}})
	records, err := s.Discover(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "real", records[0].Name)
}
