package extreg

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// kubernetesAdapter 通过 Kubernetes REST API 枚举 Service 对象。
// 只依赖 /api/v1 的 Service 列表接口，不引入完整的 client-go。
type kubernetesAdapter struct {
	rc        RegistryConfig
	base      string
	token     string
	namespace string
	httpc     *http.Client
}

func newKubernetesAdapter(rc RegistryConfig) *kubernetesAdapter {
	a := &kubernetesAdapter{
		rc:        rc,
		base:      strings.TrimSuffix(rc.Params["api_server"], "/"),
		token:     rc.Params["token"],
		namespace: rc.Params["namespace"],
	}
	if a.namespace == "" {
		a.namespace = "default"
	}

	transport := &http.Transport{}
	if rc.Params["insecure_skip_verify"] == "true" {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	a.httpc = &http.Client{Timeout: 10 * time.Second, Transport: transport}
	return a
}

func (a *kubernetesAdapter) Name() string { return a.rc.Name }
func (a *kubernetesAdapter) Type() string { return TypeKubernetes }

func (a *kubernetesAdapter) Connect(ctx context.Context) error {
	// 版本接口可达即认为连接成功
	_, err := a.get(ctx, a.base+"/version")
	return xerrors.Wrapf(err, "kubernetes %q: unreachable", a.rc.Name)
}

// serviceList /api/v1 Service 列表中本适配器关心的字段
type serviceList struct {
	Items []struct {
		Metadata struct {
			Name   string            `json:"name"`
			Labels map[string]string `json:"labels"`
		} `json:"metadata"`
		Spec struct {
			Type      string `json:"type"`
			ClusterIP string `json:"clusterIP"`
			Ports     []struct {
				Port     int    `json:"port"`
				NodePort int    `json:"nodePort"`
				Protocol string `json:"protocol"`
			} `json:"ports"`
			Selector map[string]string `json:"selector"`
		} `json:"spec"`
	} `json:"items"`
}

func (a *kubernetesAdapter) Discover(ctx context.Context) ([]service.Record, error) {
	url := fmt.Sprintf("%s/api/v1/namespaces/%s/services", a.base, a.namespace)
	body, err := a.get(ctx, url)
	if err != nil {
		return nil, xerrors.Wrapf(err, "kubernetes %q: list services", a.rc.Name)
	}

	var list serviceList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, xerrors.Wrapf(err, "kubernetes %q: decode service list", a.rc.Name)
	}

	var records []service.Record
	for _, item := range list.Items {
		rec := service.NewRecord(item.Metadata.Name, "")
		rec.Type = service.TypeApplication
		rec.Status = service.StatusRunning
		rec.SetMeta("namespace", a.namespace)
		rec.SetMeta("k8s_service_type", item.Spec.Type)
		for k, v := range item.Metadata.Labels {
			rec.SetMeta("label."+k, v)
		}
		for k, v := range item.Spec.Selector {
			rec.SetMeta("selector."+k, v)
		}

		host := item.Spec.ClusterIP
		if host == "" || host == "None" {
			host = item.Metadata.Name + "." + a.namespace
		}
		for _, p := range item.Spec.Ports {
			proto := "http"
			if p.Protocol == "UDP" {
				proto = "udp"
			}
			rec.Endpoints = append(rec.Endpoints, service.NewEndpoint(proto, host, p.Port))
		}
		records = append(records, rec)
	}
	return records, nil
}

func (a *kubernetesAdapter) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}
