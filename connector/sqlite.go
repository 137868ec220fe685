package connector

import (
	"context"
	"sync"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ceyewan/scout/clog"
	"github.com/ceyewan/scout/xerrors"
)

type sqliteConnector struct {
	cfg     *SQLiteConfig
	logger  clog.Logger
	healthy atomic.Bool

	mu sync.Mutex
	db *gorm.DB
}

// NewSQLite 创建 SQLite 连接器（基于 GORM）
//
// registry 组件的持久化模式借用此连接器。
func NewSQLite(cfg *SQLiteConfig, opts ...Option) (SQLiteConnector, error) {
	if cfg == nil {
		cfg = &SQLiteConfig{}
	}
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Wrap(err, "invalid sqlite config")
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	return &sqliteConnector{
		cfg:    cfg,
		logger: opt.logger.With(clog.String("connector", "sqlite"), clog.String("name", cfg.Name)),
	}, nil
}

// Connect 打开数据库，幂等
func (c *sqliteConnector) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return nil
	}

	db, err := gorm.Open(sqlite.Open(c.cfg.Path), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		c.logger.Error("failed to open sqlite database", clog.Error(err), clog.String("path", c.cfg.Path))
		return xerrors.Wrapf(err, "sqlite connector[%s]: open failed", c.cfg.Name)
	}

	c.db = db
	c.healthy.Store(true)
	c.logger.Info("sqlite database opened", clog.String("path", c.cfg.Path))
	return nil
}

// Close 关闭数据库
func (c *sqliteConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.healthy.Store(false)
	if c.db == nil {
		return nil
	}

	sqlDB, err := c.db.DB()
	if err != nil {
		return xerrors.Wrap(err, "get underlying sql.DB")
	}
	c.db = nil
	return sqlDB.Close()
}

// HealthCheck 检查连接健康状态
func (c *sqliteConnector) HealthCheck(ctx context.Context) error {
	c.mu.Lock()
	db := c.db
	c.mu.Unlock()

	if db == nil {
		return ErrClientNil
	}
	sqlDB, err := db.DB()
	if err != nil {
		c.healthy.Store(false)
		return xerrors.Wrap(err, "get underlying sql.DB")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		c.healthy.Store(false)
		return xerrors.Wrapf(err, "sqlite connector[%s]: ping failed", c.cfg.Name)
	}
	c.healthy.Store(true)
	return nil
}

func (c *sqliteConnector) IsHealthy() bool {
	return c.healthy.Load()
}

func (c *sqliteConnector) Name() string {
	return c.cfg.Name
}

func (c *sqliteConnector) GetClient() *gorm.DB {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db
}
