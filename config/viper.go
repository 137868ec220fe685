package config

import (
	"context"
	"os"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/scout/xerrors"
)

// loader 实现 Loader 接口
type loader struct {
	v      *viper.Viper
	opts   *Options
	loaded atomic.Bool

	mu       sync.RWMutex
	watches  map[string][]chan Event
	lastSeen map[string]any
}

// newLoader 创建配置加载器（内部使用）
func newLoader(opts *Options) (Loader, error) {
	return &loader{
		v:        viper.New(),
		opts:     opts,
		watches:  make(map[string][]chan Event),
		lastSeen: make(map[string]any),
	}, nil
}

// Load 初始化并从所有来源加载配置
//
// 加载顺序：.env 文件 -> 环境变量绑定 -> 配置文件。
// 配置文件不存在不是致命错误，此时仅使用环境变量。
func (l *loader) Load(ctx context.Context) error {
	l.v.SetConfigName(l.opts.Name)
	l.v.SetConfigType(l.opts.FileType)
	for _, path := range l.opts.Paths {
		l.v.AddConfigPath(path)
	}

	// .env 文件（不存在时静默忽略）
	if l.opts.EnvFile != "" {
		if _, err := os.Stat(l.opts.EnvFile); err == nil {
			if err := godotenv.Load(l.opts.EnvFile); err != nil {
				return xerrors.Wrap(err, "load .env file")
			}
		}
	}

	// 环境变量优先级最高
	l.v.SetEnvPrefix(l.opts.EnvPrefix)
	l.v.SetEnvKeyReplacer(newEnvReplacer())
	l.v.AutomaticEnv()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !xerrors.As(err, &notFound) {
			return xerrors.Wrap(err, "read config file")
		}
	}

	// 热更新：文件变化时对比监听 key 并派发事件
	l.v.OnConfigChange(func(_ fsnotify.Event) {
		l.dispatchChanges()
	})
	l.v.WatchConfig()

	l.loaded.Store(true)
	return nil
}

// Get 获取原始配置值
func (l *loader) Get(key string) any {
	return l.v.Get(key)
}

// Unmarshal 将整个配置反序列化到结构体
func (l *loader) Unmarshal(v any) error {
	if !l.loaded.Load() {
		return ErrNotLoaded
	}
	return xerrors.Wrap(l.v.Unmarshal(v), "unmarshal config")
}

// UnmarshalKey 将指定 Key 的配置反序列化到结构体
func (l *loader) UnmarshalKey(key string, v any) error {
	if !l.loaded.Load() {
		return ErrNotLoaded
	}
	return xerrors.Wrapf(l.v.UnmarshalKey(key, v), "unmarshal config key %s", key)
}

// Watch 监听指定 Key 的配置变化
func (l *loader) Watch(ctx context.Context, key string) (<-chan Event, error) {
	if !l.loaded.Load() {
		return nil, ErrNotLoaded
	}

	ch := make(chan Event, 4)

	l.mu.Lock()
	l.watches[key] = append(l.watches[key], ch)
	l.lastSeen[key] = l.v.Get(key)
	l.mu.Unlock()

	// context 取消时移除并关闭通道
	go func() {
		<-ctx.Done()
		l.mu.Lock()
		defer l.mu.Unlock()
		chans := l.watches[key]
		for i, c := range chans {
			if c == ch {
				l.watches[key] = append(chans[:i], chans[i+1:]...)
				close(ch)
				break
			}
		}
	}()

	return ch, nil
}

// dispatchChanges 对比监听 key 的新旧值并派发事件（内部使用）
func (l *loader) dispatchChanges() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, chans := range l.watches {
		newVal := l.v.Get(key)
		oldVal := l.lastSeen[key]
		if reflect.DeepEqual(newVal, oldVal) {
			continue
		}
		l.lastSeen[key] = newVal

		ev := Event{
			Key:       key,
			Value:     newVal,
			OldValue:  oldVal,
			Timestamp: time.Now(),
		}
		for _, ch := range chans {
			select {
			case ch <- ev:
			default:
				// 消费不及时则丢弃，配置事件允许有损
			}
		}
	}
}
