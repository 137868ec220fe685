package docker

import (
	"strings"

	"github.com/ceyewan/scout/service"
)

// imageTypeHints 镜像名子串到服务类型的启发式映射
var imageTypeHints = []struct {
	substr string
	typ    string
}{
	{"nginx", service.TypeWebServer},
	{"caddy", service.TypeWebServer},
	{"traefik", service.TypeWebServer},
	{"httpd", service.TypeWebServer},
	{"mysql", service.TypeDatabase},
	{"mariadb", service.TypeDatabase},
	{"postgres", service.TypeDatabase},
	{"mongo", service.TypeDatabase},
	{"redis", service.TypeCache},
	{"memcached", service.TypeCache},
	{"rabbitmq", service.TypeMessageQueue},
	{"kafka", service.TypeMessageQueue},
	{"nats", service.TypeMessageQueue},
}

// classifyImage 从镜像名推断服务类型，未命中任何提示时归为通用应用
func classifyImage(image string) string {
	// 去掉仓库前缀和标签，只看镜像短名
	name := image
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, ":"); i >= 0 {
		name = name[:i]
	}
	name = strings.ToLower(name)

	for _, hint := range imageTypeHints {
		if strings.Contains(name, hint.substr) {
			return hint.typ
		}
	}
	return service.TypeApplication
}
