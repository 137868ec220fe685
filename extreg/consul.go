package extreg

import (
	"context"

	"github.com/hashicorp/consul/api"

	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// consulAdapter 把 Consul 服务目录 (服务名 + tags + 实例) 翻译为观测记录
type consulAdapter struct {
	rc     RegistryConfig
	client *api.Client
}

func newConsulAdapter(rc RegistryConfig) *consulAdapter {
	return &consulAdapter{rc: rc}
}

func (c *consulAdapter) Name() string { return c.rc.Name }
func (c *consulAdapter) Type() string { return TypeConsul }

func (c *consulAdapter) Connect(ctx context.Context) error {
	cfg := api.DefaultConfig()
	cfg.Address = c.rc.Params["address"]
	if dc := c.rc.Params["datacenter"]; dc != "" {
		cfg.Datacenter = dc
	}
	if token := c.rc.Params["token"]; token != "" {
		cfg.Token = token
	}

	client, err := api.NewClient(cfg)
	if err != nil {
		return xerrors.Wrapf(err, "consul %q: create client", c.rc.Name)
	}
	if _, err := client.Status().Leader(); err != nil {
		return xerrors.Wrapf(err, "consul %q: unreachable", c.rc.Name)
	}

	c.client = client
	return nil
}

func (c *consulAdapter) Discover(ctx context.Context) ([]service.Record, error) {
	if c.client == nil {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}

	opts := (&api.QueryOptions{}).WithContext(ctx)
	catalog, _, err := c.client.Catalog().Services(opts)
	if err != nil {
		return nil, xerrors.Wrapf(err, "consul %q: list services", c.rc.Name)
	}

	var records []service.Record
	for name, tags := range catalog {
		if name == "consul" {
			continue
		}

		entries, _, err := c.client.Catalog().Service(name, "", opts)
		if err != nil {
			return nil, xerrors.Wrapf(err, "consul %q: service %s", c.rc.Name, name)
		}

		rec := service.NewRecord(name, "")
		rec.Type = service.TypeApplication
		rec.Status = service.StatusRunning // 进入目录即视为存活
		rec.Tags = tags
		for _, e := range entries {
			host := e.ServiceAddress
			if host == "" {
				host = e.Address
			}
			rec.Endpoints = append(rec.Endpoints, service.NewEndpoint("http", host, e.ServicePort))
			for k, v := range e.ServiceMeta {
				rec.SetMeta(k, v)
			}
		}
		if typ := rec.Metadata["service-type"]; typ != "" {
			rec.Type = typ
		}
		records = append(records, rec)
	}
	return records, nil
}
