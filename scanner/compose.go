package scanner

import (
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// parseContainerManifest 解析 Dockerfile 或 docker-compose 清单
func parseContainerManifest(dir, marker string, rec *service.Record) error {
	if strings.HasSuffix(marker, "Dockerfile") {
		return parseDockerfile(marker, rec)
	}
	return parseCompose(marker, rec)
}

// parseDockerfile 只提取 EXPOSE 声明的端口
func parseDockerfile(marker string, rec *service.Record) error {
	f, err := os.Open(marker)
	if err != nil {
		return xerrors.Wrap(err, "read Dockerfile")
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 || !strings.EqualFold(fields[0], "EXPOSE") {
			continue
		}
		for _, spec := range fields[1:] {
			// 形如 "8080" 或 "8080/tcp"
			portStr, proto, _ := strings.Cut(spec, "/")
			port, err := strconv.Atoi(portStr)
			if err != nil {
				continue
			}
			if proto == "" {
				proto = "tcp"
			}
			rec.Endpoints = append(rec.Endpoints, service.NewEndpoint(proto, "localhost", port))
		}
	}
	return xerrors.Wrap(sc.Err(), "scan Dockerfile")
}

// composeFile docker-compose 清单中本扫描器关心的字段
type composeFile struct {
	Services map[string]struct {
		Image         string   `yaml:"image"`
		ContainerName string   `yaml:"container_name"`
		Ports         []string `yaml:"ports"`
	} `yaml:"services"`
}

func parseCompose(marker string, rec *service.Record) error {
	data, err := os.ReadFile(marker)
	if err != nil {
		return xerrors.Wrap(err, "read compose file")
	}
	var cf composeFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return xerrors.Wrap(err, "parse compose file")
	}

	names := make([]string, 0, len(cf.Services))
	for name := range cf.Services {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		rec.SetMeta("compose_services", strings.Join(names, ","))
	}

	for _, name := range names {
		svc := cf.Services[name]
		if svc.Image != "" {
			rec.SetMeta("image."+name, svc.Image)
		}
		for _, p := range svc.Ports {
			if ep, ok := parseComposePort(p); ok {
				rec.Endpoints = append(rec.Endpoints, ep)
			}
		}
	}
	return nil
}

// parseComposePort 解析 "8080:80"、"127.0.0.1:8080:80"、"80" 等端口映射，
// 对外端点取宿主机侧端口。
func parseComposePort(spec string) (service.Endpoint, bool) {
	parts := strings.Split(strings.TrimSpace(spec), ":")
	host := "localhost"
	var portStr string
	switch len(parts) {
	case 1:
		portStr = parts[0]
	case 2:
		portStr = parts[0]
	case 3:
		if parts[0] != "" && parts[0] != "0.0.0.0" {
			host = parts[0]
		}
		portStr = parts[1]
	default:
		return service.Endpoint{}, false
	}

	portStr, _, _ = strings.Cut(portStr, "/")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return service.Endpoint{}, false
	}
	return service.NewEndpoint("http", host, port), true
}
