package leader

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/connector"
	"github.com/ceyewan/scout/xerrors"
)

// releaseScript 只有仍持有令牌的实例才能删除领导权键
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`

// renewScript 持有令牌时续期，令牌不匹配说明领导权已丢失
const renewScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
else
	return 0
end
`

type redisElector struct {
	client *redis.Client
	cfg    *Config
	logger clog.Logger

	leading atomic.Bool

	mu        sync.Mutex
	token     string
	renewStop chan struct{}
	renewDone chan struct{}
}

// NewRedis 创建 Redis 选举器。借用调用方的连接器，
// 生命周期归调用方。
func NewRedis(conn connector.RedisConnector, cfg *Config, opts ...Option) (Elector, error) {
	if conn == nil {
		return nil, ErrConnectorNil
	}
	if cfg == nil {
		cfg = &Config{Driver: DriverRedis}
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

	return &redisElector{
		client: conn.GetClient(),
		cfg:    cfg,
		logger: opt.logger,
	}, nil
}

func (e *redisElector) Campaign(ctx context.Context) error {
	return campaign(ctx, e, e.cfg.RetryInterval)
}

func (e *redisElector) TryAcquire(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.leading.Load() {
		return false, ErrAlreadyLeader
	}

	token, err := newToken()
	if err != nil {
		return false, err
	}

	ok, err := e.client.SetNX(ctx, e.cfg.Key, token, e.cfg.TTL).Result()
	if err != nil {
		return false, xerrors.Wrap(err, "leader: acquire")
	}
	if !ok {
		return false, nil
	}

	e.token = token
	e.renewStop = make(chan struct{})
	e.renewDone = make(chan struct{})
	e.leading.Store(true)
	go e.watchdog(e.renewStop, e.renewDone, token)

	e.logger.Info("leadership acquired", clog.String("key", e.cfg.Key))
	return true, nil
}

func (e *redisElector) Resign(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.leading.Load() {
		return ErrNotLeader
	}
	e.stopWatchdog()
	e.leading.Store(false)

	res, err := e.client.Eval(ctx, releaseScript, []string{e.cfg.Key}, e.token).Result()
	if err != nil {
		return xerrors.Wrap(err, "leader: resign")
	}
	if n, _ := res.(int64); n == 0 {
		return xerrors.Wrapf(ErrNotLeader, "key %s expired remotely", e.cfg.Key)
	}

	e.logger.Info("leadership resigned", clog.String("key", e.cfg.Key))
	return nil
}

func (e *redisElector) IsLeader() bool {
	return e.leading.Load()
}

// Close 让出已持有的领导权。底层连接归连接器所有，不在此关闭。
func (e *redisElector) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := e.Resign(ctx); err != nil && !xerrors.Is(err, ErrNotLeader) {
		return err
	}
	return nil
}

// watchdog 按 TTL/3 周期续期，续期失败或令牌丢失时放弃领导权
func (e *redisElector) watchdog(stop, done chan struct{}, token string) {
	defer close(done)

	interval := e.cfg.TTL / 3
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			res, err := e.client.Eval(ctx, renewScript,
				[]string{e.cfg.Key}, token, e.cfg.TTL.Milliseconds()).Result()
			cancel()

			if err != nil {
				e.logger.Error("leadership renew failed", clog.String("key", e.cfg.Key), clog.Error(err))
				e.leading.Store(false)
				return
			}
			if n, _ := res.(int64); n == 0 {
				e.logger.Warn("leadership lost", clog.String("key", e.cfg.Key))
				e.leading.Store(false)
				return
			}
		}
	}
}

// stopWatchdog 调用方必须持有 e.mu
func (e *redisElector) stopWatchdog() {
	if e.renewStop != nil {
		close(e.renewStop)
		<-e.renewDone
		e.renewStop = nil
		e.renewDone = nil
	}
}

func newToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", xerrors.Wrap(err, "leader: generate token")
	}
	return hex.EncodeToString(buf), nil
}
