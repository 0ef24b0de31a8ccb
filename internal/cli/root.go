// Package cli 实现 gamerec 的子命令。
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/config"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/engine"
	"github.com/rushteam/gamerec/model"
	"github.com/rushteam/gamerec/pkg/logging"
	"github.com/rushteam/gamerec/store"
)

// NewRootCmd 创建根命令。
func NewRootCmd(version string) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "gamerec",
		Short:         "Hybrid game recommendation engine",
		Long:          "gamerec recommends games by blending collaborative filtering, content similarity and popularity.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $GAMEREC_CONFIG or ./gamerec.yaml)")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		logging.Init(cfg.Log.Logging())
		return cfg, nil
	}

	root.AddCommand(newRecommendCmd(load))
	root.AddCommand(newRecordCmd(load))
	root.AddCommand(newCatalogCmd(load))
	return root
}

type loader func() (*config.Config, error)

// runtime 是一次命令执行所需的全部组件。
type runtime struct {
	cfg    *config.Config
	store  core.Store
	engine *engine.Engine
	logger zerolog.Logger
}

func (r *runtime) Close() error {
	return r.store.Close()
}

// openStore 按配置创建外部存储。
func openStore(ctx context.Context, cfg config.StoreConfig) (core.Store, error) {
	switch cfg.Backend {
	case "badger":
		return store.OpenBadgerStore(cfg.Dir)
	case "redis":
		rs, err := store.NewRedisStore(ctx, store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		if !cfg.Breaker.Enabled {
			return rs, nil
		}
		return store.NewBreakerStore(rs, store.BreakerConfig{
			FailureThreshold: cfg.Breaker.FailureThreshold,
			Timeout:          cfg.Breaker.Timeout,
		}), nil
	default:
		return store.NewMemoryStore(), nil
	}
}

// open 创建存储与引擎并加载目录。
//
// 目录优先从 catalog.path 读取，成功后写入存储作为快照；
// 未配置路径时从存储中的快照恢复。
func open(ctx context.Context, load loader) (*runtime, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logging.Component("cli")}

	rt.store, err = openStore(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	var cf *model.Collaborative
	if cfg.Model.Path != "" {
		if cf, err = model.LoadCollaborative(cfg.Model.Path); err != nil {
			_ = rt.Close()
			return nil, err
		}
	}
	rt.engine, err = engine.New(cfg.Engine, rt.store, cf)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}

	cat, err := rt.loadCatalog(ctx)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	if err := rt.engine.SwapCatalog(ctx, cat); err != nil {
		_ = rt.Close()
		return nil, err
	}
	return rt, nil
}

func (r *runtime) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	if r.cfg.Catalog.Path == "" {
		cat, err := catalog.Restore(ctx, r.store, r.cfg.Catalog.SnapshotKey)
		if err != nil {
			return nil, fmt.Errorf("no catalog.path configured and no stored snapshot: %w", err)
		}
		return cat, nil
	}
	cat, err := catalog.LoadFile(r.cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	if err := catalog.Persist(ctx, r.store, r.cfg.Catalog.SnapshotKey, cat); err != nil {
		r.logger.Warn().Err(err).Msg("persist catalog snapshot failed")
	}
	return cat, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
