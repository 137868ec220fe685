package leader

import (
	"context"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/connector"
	"github.com/ceyewan/scout/xerrors"
)

type etcdElector struct {
	client *clientv3.Client
	cfg    *Config
	logger clog.Logger

	mu      sync.Mutex
	session *concurrency.Session
	mutex   *concurrency.Mutex
	leading bool
}

// NewEtcd 创建 Etcd 选举器，基于 session 租约，租约由
// etcd 客户端自动续期。借用调用方的连接器。
func NewEtcd(conn connector.EtcdConnector, cfg *Config, opts ...Option) (Elector, error) {
	if conn == nil {
		return nil, ErrConnectorNil
	}
	if cfg == nil {
		cfg = &Config{Driver: DriverEtcd}
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &etcdElector{
		client: conn.GetClient(),
		cfg:    cfg,
		logger: opt.logger,
	}, nil
}

func (e *etcdElector) Campaign(ctx context.Context) error {
	return campaign(ctx, e, e.cfg.RetryInterval)
}

func (e *etcdElector) TryAcquire(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.leading {
		return false, ErrAlreadyLeader
	}

	// session 的租约保活不能随本次调用的 ctx 结束，这里不传 ctx
	session, err := concurrency.NewSession(e.client,
		concurrency.WithTTL(int(e.cfg.TTL.Seconds())))
	if err != nil {
		return false, xerrors.Wrap(err, "leader: create session")
	}

	mutex := concurrency.NewMutex(session, e.cfg.Key)
	if err := mutex.TryLock(ctx); err != nil {
		_ = session.Close()
		if xerrors.Is(err, concurrency.ErrLocked) {
			return false, nil
		}
		return false, xerrors.Wrap(err, "leader: acquire")
	}

	e.session = session
	e.mutex = mutex
	e.leading = true

	e.logger.Info("leadership acquired", clog.String("key", e.cfg.Key))
	return true, nil
}

func (e *etcdElector) Resign(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.leading {
		return ErrNotLeader
	}
	e.leading = false

	err := e.mutex.Unlock(ctx)
	_ = e.session.Close()
	e.session = nil
	e.mutex = nil
	if err != nil {
		return xerrors.Wrap(err, "leader: resign")
	}

	e.logger.Info("leadership resigned", clog.String("key", e.cfg.Key))
	return nil
}

func (e *etcdElector) IsLeader() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.leading {
		return false
	}
	// session 结束意味着租约丢失
	select {
	case <-e.session.Done():
		e.leading = false
		return false
	default:
		return true
	}
}

// Close 让出已持有的领导权并关闭 session
func (e *etcdElector) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.Resign(ctx); err != nil && !xerrors.Is(err, ErrNotLeader) {
		return err
	}
	return nil
}
