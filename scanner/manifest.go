package scanner

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// frameworkConvention Web 框架的默认端口与健康检查路径约定
type frameworkConvention struct {
	port           int
	healthEndpoint string
}

var frameworkConventions = map[string]frameworkConvention{
	"express": {3000, "/health"},
	"gin":     {8080, "/health"},
	"fastapi": {8000, "/health"},
	"uvicorn": {8000, "/health"},
	"flask":   {5000, "/health"},
	"django":  {8000, "/health"},
}

// applyConvention 按检测到的框架补全默认端点与健康检查路径
func applyConvention(rec *service.Record, framework string) {
	conv, ok := frameworkConventions[framework]
	if !ok {
		return
	}
	rec.SetMeta("framework", framework)
	rec.HealthEndpoint = "http://localhost:" + strconv.Itoa(conv.port) + conv.healthEndpoint
	rec.Endpoints = append(rec.Endpoints, service.NewEndpoint("http", "localhost", conv.port))
}

// serviceManifest 显式服务清单 (service.json)
type serviceManifest struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Description    string   `json:"description"`
	Type           string   `json:"type"`
	Port           int      `json:"port"`
	HealthEndpoint string   `json:"health_endpoint"`
	Tags           []string `json:"tags"`
}

func parseServiceManifest(dir, marker string, rec *service.Record) error {
	data, err := os.ReadFile(marker)
	if err != nil {
		return xerrors.Wrap(err, "read service manifest")
	}
	var m serviceManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return xerrors.Wrapf(err, "parse %s", filepath.Base(marker))
	}

	if m.Name != "" {
		rec.Name = m.Name
	}
	if m.Type != "" {
		rec.Type = m.Type
	}
	if m.Version != "" {
		rec.SetMeta("version", m.Version)
	}
	if m.Description != "" {
		rec.SetMeta("description", m.Description)
	}
	rec.Tags = append(rec.Tags, m.Tags...)
	if m.Port > 0 {
		rec.Endpoints = append(rec.Endpoints, service.NewEndpoint("http", "localhost", m.Port))
	}
	if m.HealthEndpoint != "" {
		rec.HealthEndpoint = m.HealthEndpoint
	}
	return nil
}

// packageJSON Node.js 清单
type packageJSON struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Description  string            `json:"description"`
	Dependencies map[string]string `json:"dependencies"`
	Scripts      map[string]string `json:"scripts"`
}

func parsePackageJSON(dir, marker string, rec *service.Record) error {
	data, err := os.ReadFile(marker)
	if err != nil {
		return xerrors.Wrap(err, "read package.json")
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return xerrors.Wrap(err, "parse package.json")
	}

	if pkg.Name != "" {
		rec.Name = pkg.Name
	}
	rec.SetMeta("language", "nodejs")
	if pkg.Version != "" {
		rec.SetMeta("version", pkg.Version)
	}
	if pkg.Description != "" {
		rec.SetMeta("description", pkg.Description)
	}
	if len(pkg.Dependencies) > 0 {
		rec.SetMeta("dependencies", joinKeys(pkg.Dependencies))
	}
	if len(pkg.Scripts) > 0 {
		rec.SetMeta("scripts", joinKeys(pkg.Scripts))
	}

	for _, fw := range []string{"express", "gin"} {
		if _, ok := pkg.Dependencies[fw]; ok {
			applyConvention(rec, fw)
			break
		}
	}
	return nil
}

// parsePythonManifest 解析 requirements.txt 或 pyproject.toml
func parsePythonManifest(dir, marker string, rec *service.Record) error {
	rec.SetMeta("language", "python")
	if strings.HasSuffix(marker, "pyproject.toml") {
		return parsePyproject(marker, rec)
	}
	return parseRequirements(marker, rec)
}

func parseRequirements(marker string, rec *service.Record) error {
	f, err := os.Open(marker)
	if err != nil {
		return xerrors.Wrap(err, "read requirements.txt")
	}
	defer f.Close()

	var deps []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// 截断版本约束，只留包名
		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == '=' || r == '>' || r == '<' || r == '~' || r == '!' || r == ' ' || r == '['
		})
		if len(fields) == 0 {
			continue
		}
		deps = append(deps, strings.ToLower(fields[0]))
	}
	if err := sc.Err(); err != nil {
		return xerrors.Wrap(err, "scan requirements.txt")
	}

	if len(deps) > 0 {
		rec.SetMeta("dependencies", strings.Join(deps, ","))
	}
	detectPythonFramework(rec, deps)
	return nil
}

// pyproject PEP 621 与 poetry 两种布局都支持
type pyproject struct {
	Project struct {
		Name         string   `toml:"name"`
		Version      string   `toml:"version"`
		Description  string   `toml:"description"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name         string         `toml:"name"`
			Version      string         `toml:"version"`
			Description  string         `toml:"description"`
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

func parsePyproject(marker string, rec *service.Record) error {
	data, err := os.ReadFile(marker)
	if err != nil {
		return xerrors.Wrap(err, "read pyproject.toml")
	}
	var p pyproject
	if err := toml.Unmarshal(data, &p); err != nil {
		return xerrors.Wrap(err, "parse pyproject.toml")
	}

	name, version, desc := p.Project.Name, p.Project.Version, p.Project.Description
	if name == "" {
		name, version, desc = p.Tool.Poetry.Name, p.Tool.Poetry.Version, p.Tool.Poetry.Description
	}
	if name != "" {
		rec.Name = name
	}
	if version != "" {
		rec.SetMeta("version", version)
	}
	if desc != "" {
		rec.SetMeta("description", desc)
	}

	var deps []string
	for _, d := range p.Project.Dependencies {
		fields := strings.FieldsFunc(d, func(r rune) bool {
			return r == '=' || r == '>' || r == '<' || r == '~' || r == '!' || r == ' ' || r == '['
		})
		if len(fields) > 0 {
			deps = append(deps, strings.ToLower(fields[0]))
		}
	}
	for k := range p.Tool.Poetry.Dependencies {
		if !strings.EqualFold(k, "python") {
			deps = append(deps, strings.ToLower(k))
		}
	}
	sort.Strings(deps)
	if len(deps) > 0 {
		rec.SetMeta("dependencies", strings.Join(deps, ","))
	}
	detectPythonFramework(rec, deps)
	return nil
}

func detectPythonFramework(rec *service.Record, deps []string) {
	set := make(map[string]bool, len(deps))
	for _, d := range deps {
		set[d] = true
	}
	for _, fw := range []string{"fastapi", "flask", "django", "uvicorn"} {
		if set[fw] {
			applyConvention(rec, fw)
			return
		}
	}
}

func joinKeys(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}
