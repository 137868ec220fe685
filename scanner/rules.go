package scanner

import (
	"os"
	"path/filepath"

	"github.com/ceyewan/scout/service"
)

// rule 目录分类规则：命中任一标记文件即匹配。
// 规则按声明顺序匹配，先命中者生效：
// 显式服务清单 > 容器清单 > 语言清单。
type rule struct {
	serviceType string
	markers     []string
	parse       func(dir, marker string, rec *service.Record) error
}

var rules = []rule{
	{
		serviceType: "mcp_service",
		markers:     []string{"service.json"},
		parse:       parseServiceManifest,
	},
	{
		serviceType: "container",
		markers:     []string{"Dockerfile", "docker-compose.yml", "docker-compose.yaml"},
		parse:       parseContainerManifest,
	},
	{
		serviceType: "nodejs",
		markers:     []string{"package.json"},
		parse:       parsePackageJSON,
	},
	{
		serviceType: "python",
		markers:     []string{"requirements.txt", "pyproject.toml"},
		parse:       parsePythonManifest,
	},
}

// classify 按规则顺序给目录分类，返回命中的规则与标记文件路径
func classify(dir string) (*rule, string, bool) {
	for i := range rules {
		for _, marker := range rules[i].markers {
			path := filepath.Join(dir, marker)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return &rules[i], path, true
			}
		}
	}
	return nil, "", false
}

// markerFiles 收集目录内所有已知标记文件，记录为 config_files
func markerFiles(dir string) []string {
	var found []string
	for i := range rules {
		for _, marker := range rules[i].markers {
			path := filepath.Join(dir, marker)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				found = append(found, marker)
			}
		}
	}
	return found
}
