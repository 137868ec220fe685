package extreg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// eurekaAdapter 通过 Eureka REST API (/eureka/apps) 枚举实例注册表
type eurekaAdapter struct {
	rc    RegistryConfig
	base  string
	httpc *http.Client
}

func newEurekaAdapter(rc RegistryConfig) *eurekaAdapter {
	return &eurekaAdapter{
		rc:    rc,
		base:  strings.TrimSuffix(rc.Params["server_url"], "/"),
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *eurekaAdapter) Name() string { return a.rc.Name }
func (a *eurekaAdapter) Type() string { return TypeEureka }

func (a *eurekaAdapter) Connect(ctx context.Context) error {
	_, err := a.fetchApps(ctx)
	return xerrors.Wrapf(err, "eureka %q: unreachable", a.rc.Name)
}

// eurekaApps Eureka 应用注册表的 JSON 形状
type eurekaApps struct {
	Applications struct {
		Application []struct {
			Name     string           `json:"name"`
			Instance []eurekaInstance `json:"instance"`
		} `json:"application"`
	} `json:"applications"`
}

type eurekaInstance struct {
	HostName string `json:"hostName"`
	IPAddr   string `json:"ipAddr"`
	Status   string `json:"status"` // UP / DOWN / STARTING / OUT_OF_SERVICE
	Port     struct {
		Value int `json:"$"`
	} `json:"port"`
	HealthCheckURL string `json:"healthCheckUrl"`
}

func (a *eurekaAdapter) Discover(ctx context.Context) ([]service.Record, error) {
	apps, err := a.fetchApps(ctx)
	if err != nil {
		return nil, xerrors.Wrapf(err, "eureka %q: list applications", a.rc.Name)
	}

	var records []service.Record
	for _, app := range apps.Applications.Application {
		rec := service.NewRecord(strings.ToLower(app.Name), "")
		rec.Type = service.TypeApplication
		rec.SetMeta("instance_count", fmt.Sprintf("%d", len(app.Instance)))

		anyUp := false
		for _, inst := range app.Instance {
			host := inst.HostName
			if host == "" {
				host = inst.IPAddr
			}
			if inst.Port.Value > 0 {
				rec.Endpoints = append(rec.Endpoints, service.NewEndpoint("http", host, inst.Port.Value))
			}
			if inst.Status == "UP" {
				anyUp = true
			}
			if rec.HealthEndpoint == "" && inst.HealthCheckURL != "" {
				rec.HealthEndpoint = inst.HealthCheckURL
			}
		}

		if anyUp {
			rec.Status = service.StatusRunning
			rec.HealthStatus = service.HealthHealthy
		} else {
			rec.Status = service.StatusStopped
			rec.HealthStatus = service.HealthUnhealthy
		}
		records = append(records, rec)
	}
	return records, nil
}

func (a *eurekaAdapter) fetchApps(ctx context.Context) (*eurekaApps, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.base+"/eureka/apps", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from eureka", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var apps eurekaApps
	if err := json.Unmarshal(body, &apps); err != nil {
		return nil, xerrors.Wrap(err, "decode eureka response")
	}
	return &apps, nil
}
