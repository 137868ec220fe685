// Package registry 实现去重的服务目录存储。
//
// 以归一化服务名为身份键，注册时保证身份永不重复，并报告
// 本次变更是新建、更新还是无变化。提供纯内存模式 (进程内
// 读己之写) 与可选的 SQLite 持久化模式，后者借用调用方的
// 数据库连接器。
package registry

import (
	"context"

	"gorm.io/gorm"

	"github.com/ceyewan/scout/service"
)

// Store 服务目录的读写契约。
// 编排器是唯一写入方，其余消费者都是读者。
type Store interface {
	// Register 注册或更新统一记录，按归一化名称去重
	Register(ctx context.Context, rec *service.UnifiedRecord) (service.RegistrationResult, error)
	// Get 按 ID 取记录
	Get(ctx context.Context, id string) (*service.UnifiedRecord, error)
	// GetByName 按归一化名称取记录
	GetByName(ctx context.Context, name string) (*service.UnifiedRecord, error)
	// List 按过滤条件列出记录，零值过滤器返回全部
	List(ctx context.Context, filter service.Filter) ([]*service.UnifiedRecord, error)
	// Search 在名称、描述、标签上做子串匹配
	Search(ctx context.Context, term string) ([]*service.UnifiedRecord, error)
	// Deregister 按 ID 移除记录
	Deregister(ctx context.Context, id string) error
	// Count 记录总数
	Count(ctx context.Context) (int, error)
}

// Config 服务目录配置
type Config struct {
	// StoragePath SQLite 数据库文件路径，持久化模式使用
	StoragePath string `mapstructure:"storage_path"`
	// EnablePersistence 为 true 时使用 SQLite 持久化存储
	EnablePersistence bool `mapstructure:"enable_persistence"`
	// EnableDeduplication 为 false 时按 ID 直存，不做名称去重
	EnableDeduplication bool `mapstructure:"enable_deduplication"`
}

// New 按配置创建存储。持久化模式需要调用方传入已连接的
// 数据库句柄 (借用模型，生命周期归调用方)。
func New(cfg *Config, db *gorm.DB, opts ...Option) (Store, error) {
	if cfg == nil {
		cfg = &Config{EnableDeduplication: true}
	}

	opt := &options{}
	for _, o := range opts {
		o(opt)
	}
	opt.applyDefaults()

	if cfg.EnablePersistence {
		if db == nil {
			return nil, ErrNilDB
		}
		return newGormStore(cfg, db, opt.logger)
	}
	return newMemoryStore(cfg, opt.logger), nil
}
