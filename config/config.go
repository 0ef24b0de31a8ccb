// Package config 加载 gamerec 的运行配置。
//
// 配置分三层，后者覆盖前者：
//  1. 代码中的默认值（Default）
//  2. 可选的 YAML 配置文件
//  3. 以 GAMEREC_ 为前缀的环境变量，层级用双下划线分隔，
//     例如 GAMEREC_ENGINE__DEFAULT_K=20、GAMEREC_STORE__REDIS__ADDR=redis:6379
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/engine"
	"github.com/rushteam/gamerec/pkg/logging"
)

// EnvPrefix 是环境变量前缀。
const EnvPrefix = "GAMEREC_"

// PathEnvVar 指定配置文件路径，命令行 --config 优先。
const PathEnvVar = "GAMEREC_CONFIG"

// Config 是完整配置。
type Config struct {
	Log     LogConfig      `koanf:"log"`
	Store   StoreConfig    `koanf:"store"`
	Catalog CatalogConfig  `koanf:"catalog"`
	Model   ModelConfig    `koanf:"model"`
	Engine  engine.Options `koanf:"engine"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Logging 转换为 logging.Config。
func (c LogConfig) Logging() logging.Config {
	return logging.Config{Level: c.Level, Format: c.Format, Caller: c.Caller}
}

// StoreConfig 是用户事件与目录快照的外部存储。
type StoreConfig struct {
	Backend string        `koanf:"backend" validate:"oneof=memory badger redis"`
	Dir     string        `koanf:"dir" validate:"required_if=Backend badger"` // badger 数据目录
	Redis   RedisConfig   `koanf:"redis"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db" validate:"gte=0"`
	Prefix   string `koanf:"prefix"`
}

// BreakerConfig 远程存储的熔断配置，只对 redis 生效。
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	FailureThreshold uint32        `koanf:"failure_threshold"`
	Timeout          time.Duration `koanf:"timeout" validate:"gte=0"`
}

// CatalogConfig 目录来源
type CatalogConfig struct {
	Path        string        `koanf:"path"` // JSON / JSONL / YAML 文件
	SnapshotKey string        `koanf:"snapshot_key"`
	Debounce    time.Duration `koanf:"debounce" validate:"gte=0"`
}

// ModelConfig 离线协同过滤模型，Path 为空时用目录内容向量代替。
type ModelConfig struct {
	Path string `koanf:"path"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "json"},
		Store: StoreConfig{
			Backend: "memory",
			Redis:   RedisConfig{Addr: "127.0.0.1:6379", Prefix: "gamerec:"},
			Breaker: BreakerConfig{Enabled: true, FailureThreshold: 5, Timeout: 10 * time.Second},
		},
		Catalog: CatalogConfig{SnapshotKey: catalog.DefaultSnapshotKey, Debounce: 200 * time.Millisecond},
		Engine:  engine.DefaultOptions(),
	}
}

// Load 按 默认值 → 配置文件 → 环境变量 的顺序加载并校验配置。
// path 为空时依次尝试 $GAMEREC_CONFIG 与 ./gamerec.yaml，都不存在则只使用默认值与环境变量。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := splitIDs(k, "engine.blacklist"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func findFile() string {
	for _, p := range []string{os.Getenv(PathEnvVar), "gamerec.yaml", "gamerec.yml"} {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// envKey 把 GAMEREC_ENGINE__DEFAULT_K 转换为 engine.default_k。
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// splitIDs 把环境变量中逗号分隔的 ID 列表转换为切片，配置文件中的列表保持不变。
func splitIDs(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid id %q", path, part)
		}
		ids = append(ids, id)
	}
	return k.Set(path, ids)
}

// Validate 校验配置。
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Store.Backend == "redis" && c.Store.Redis.Addr == "" {
		return fmt.Errorf("store.redis.addr is required for the redis backend")
	}
	return nil
}
