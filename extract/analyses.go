package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// extractDependencies 从记录元数据里的依赖清单提取依赖图信息
func extractDependencies(rec *service.UnifiedRecord) (map[string]string, error) {
	deps := rec.Metadata["dependencies"]
	if deps == "" {
		return nil, nil
	}

	pkgs := strings.Split(deps, ",")
	data := map[string]string{
		"packages": deps,
		"count":    strconv.Itoa(len(pkgs)),
	}
	if lang := rec.Metadata["language"]; lang != "" {
		data["language"] = lang
	}
	if fw := rec.Metadata["framework"]; fw != "" {
		data["framework"] = fw
	}
	return data, nil
}

// secretKeyPattern 疑似凭据的元数据键
var secretKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|secret|password|passwd|token|credential)`)

// riskyPorts 不应公开暴露的端口
var riskyPorts = map[int]string{
	22:    "ssh",
	23:    "telnet",
	3306:  "mysql",
	5432:  "postgres",
	6379:  "redis",
	9200:  "elasticsearch",
	27017: "mongodb",
}

// detectSecuritySignals 检测安全相关信号：疑似暴露的凭据键、
// 未固定版本的镜像、公开暴露的高危端口。
func detectSecuritySignals(rec *service.UnifiedRecord) (map[string]string, error) {
	var signals []string

	for key := range rec.Metadata {
		if secretKeyPattern.MatchString(key) {
			signals = append(signals, "exposed_secret_key:"+key)
		}
	}

	for key, value := range rec.Metadata {
		if key != "image" && !strings.HasPrefix(key, "image.") {
			continue
		}
		if strings.HasSuffix(value, ":latest") || !strings.Contains(value, ":") {
			signals = append(signals, "unpinned_image:"+value)
		}
	}

	for _, ep := range rec.Endpoints {
		if name, risky := riskyPorts[ep.Port]; risky {
			signals = append(signals, fmt.Sprintf("exposed_port:%d(%s)", ep.Port, name))
		}
	}

	if len(signals) == 0 {
		return nil, nil
	}
	sort.Strings(signals)
	return map[string]string{
		"signals": strings.Join(signals, ","),
		"count":   strconv.Itoa(len(signals)),
	}, nil
}

// specFiles 可枚举的 API 规格文件名
var specFiles = []string{"openapi.json", "openapi.yaml", "openapi.yml", "swagger.json"}

// extractAPISurface 枚举可发现的 API 表面：健康端点与
// 本地目录下的 OpenAPI/Swagger 规格文件。
func extractAPISurface(rec *service.UnifiedRecord) (map[string]string, error) {
	data := map[string]string{}

	if rec.HealthEndpoint != "" {
		data["health_endpoint"] = rec.HealthEndpoint
	}

	if dir := rec.Metadata["path"]; dir != "" {
		for _, name := range specFiles {
			path := filepath.Join(dir, name)
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if info.IsDir() {
				return nil, xerrors.Wrapf(xerrors.ErrInvalidInput, "%s is a directory", path)
			}
			data["spec_file"] = name
			break
		}
	}

	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}
