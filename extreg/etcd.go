package extreg

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/ceyewan/scout/service"
	"github.com/ceyewan/scout/xerrors"
)

// etcdAdapter 读取 etcd 前缀下的服务实例。
// 键布局约定为 <prefix><服务名>/<实例ID>，值是实例信息 JSON。
type etcdAdapter struct {
	rc     RegistryConfig
	prefix string
	client *clientv3.Client
}

func newEtcdAdapter(rc RegistryConfig) *etcdAdapter {
	prefix := rc.Params["prefix"]
	if prefix == "" {
		prefix = "/services/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &etcdAdapter{rc: rc, prefix: prefix}
}

func (a *etcdAdapter) Name() string { return a.rc.Name }
func (a *etcdAdapter) Type() string { return TypeEtcd }

func (a *etcdAdapter) Connect(ctx context.Context) error {
	if a.client != nil {
		return nil
	}

	endpoints := strings.Split(a.rc.Params["endpoints"], ",")
	for i := range endpoints {
		endpoints[i] = strings.TrimSpace(endpoints[i])
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return xerrors.Wrapf(err, "etcd %q: create client", a.rc.Name)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := client.Status(checkCtx, endpoints[0]); err != nil {
		_ = client.Close()
		return xerrors.Wrapf(err, "etcd %q: unreachable", a.rc.Name)
	}

	a.client = client
	return nil
}

// instanceInfo etcd 中一个服务实例的 JSON 形状
type instanceInfo struct {
	Name     string            `json:"name"`
	Host     string            `json:"host"`
	Port     int               `json:"port"`
	Metadata map[string]string `json:"metadata"`
}

func (a *etcdAdapter) Discover(ctx context.Context) ([]service.Record, error) {
	if err := a.Connect(ctx); err != nil {
		return nil, err
	}

	resp, err := a.client.Get(ctx, a.prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, xerrors.Wrapf(err, "etcd %q: get prefix %s", a.rc.Name, a.prefix)
	}

	// 按服务名聚合多个实例
	byName := map[string]*service.Record{}
	for _, kv := range resp.Kvs {
		var inst instanceInfo
		if err := json.Unmarshal(kv.Value, &inst); err != nil {
			continue // 非本布局的键，跳过
		}
		name := inst.Name
		if name == "" {
			name = serviceNameFromKey(string(kv.Key), a.prefix)
		}
		if name == "" {
			continue
		}

		rec, ok := byName[name]
		if !ok {
			r := service.NewRecord(name, "")
			r.Type = service.TypeApplication
			r.Status = service.StatusRunning
			byName[name] = &r
			rec = &r
		}
		if inst.Host != "" && inst.Port > 0 {
			rec.Endpoints = append(rec.Endpoints, service.NewEndpoint("http", inst.Host, inst.Port))
		}
		for k, v := range inst.Metadata {
			rec.SetMeta(k, v)
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	records := make([]service.Record, 0, len(names))
	for _, name := range names {
		records = append(records, *byName[name])
	}
	return records, nil
}

// serviceNameFromKey 从 <prefix><服务名>/<实例ID> 中取服务名
func serviceNameFromKey(key, prefix string) string {
	rest := strings.TrimPrefix(key, prefix)
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[:i]
	}
	return rest
}
