// Package engine 是混合推荐引擎：按用户数据是否充足在协同过滤、内容相似度与热度之间选择并融合。
//
// 目录、向量索引与文本编码器组成一个不可变快照，放在 atomic.Pointer 中；
// 每个请求在开始时取一次快照，目录重载只替换指针，不影响进行中的请求。
package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/filter"
	"github.com/rushteam/gamerec/model"
	"github.com/rushteam/gamerec/pkg/logging"
	"github.com/rushteam/gamerec/pkg/metrics"
	"github.com/rushteam/gamerec/profile"
	"github.com/rushteam/gamerec/recall"
	"github.com/rushteam/gamerec/vector"
)

// snapshot 是一次目录加载得到的全部只读结构。
type snapshot struct {
	catalog *catalog.Catalog
	index   *vector.Index
	text    *recall.TextEncoder
	cf      *model.Collaborative
}

// Engine 是推荐引擎，可被并发使用。
type Engine struct {
	opts      Options
	profiles  *profile.Store
	model     *model.Collaborative // 离线模型；nil 时每个快照用目录向量构建
	blacklist *filter.BlacklistFilter
	validate  *validator.Validate
	logger    zerolog.Logger

	snap atomic.Pointer[snapshot]
}

// New 创建引擎。backend 为用户事件的外部存储（nil 表示仅内存），
// cf 为离线训练的协同过滤模型（nil 表示用目录内容向量作为嵌入）。
// 在调用 LoadCatalog 之前引擎不可用（见 Ready）。
func New(opts Options, backend core.Store, cf *model.Collaborative) (*Engine, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(opts); err != nil {
		return nil, core.WrapDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput, "engine options", err)
	}
	if cf != nil {
		cf.MinEvents = opts.MinEventsForCF
		cf.HalfLife = opts.HalfLife
	}
	e := &Engine{
		opts:     opts,
		profiles: profile.NewStore(backend, profile.Options{HalfLife: opts.HalfLife}),
		model:    cf,
		validate: v,
		logger:   logging.Component("engine"),
	}
	if len(opts.Blacklist) > 0 {
		e.blacklist = filter.NewBlacklistFilter(opts.Blacklist)
	}
	return e, nil
}

// Options 返回引擎参数。
func (e *Engine) Options() Options { return e.opts }

// Profiles 返回偏好存储。
func (e *Engine) Profiles() *profile.Store { return e.profiles }

// Catalog 返回当前目录快照，未加载时返回 nil。
func (e *Engine) Catalog() *catalog.Catalog {
	if s := e.snap.Load(); s != nil {
		return s.catalog
	}
	return nil
}

// LoadCatalog 从原始记录构建新快照并原子替换。
// 构建失败（DATA_INTEGRITY）或目录为空（EMPTY_INDEX）时保留旧快照。
func (e *Engine) LoadCatalog(ctx context.Context, records []core.GameRecord) (*catalog.Catalog, error) {
	cat, err := catalog.Build(records)
	if err != nil {
		metrics.ObserveReload(0, err)
		return nil, err
	}
	if err := e.SwapCatalog(ctx, cat); err != nil {
		metrics.ObserveReload(0, err)
		return nil, err
	}
	metrics.ObserveReload(cat.Len(), nil)
	return cat, nil
}

// SwapCatalog 用已构建的目录替换当前快照，供 catalog.Watcher 回调使用。
func (e *Engine) SwapCatalog(_ context.Context, cat *catalog.Catalog) error {
	if cat.Len() == 0 {
		return fmt.Errorf("load catalog: %w", core.ErrEmptyIndex)
	}
	start := time.Now()
	s := &snapshot{
		catalog: cat,
		index:   vector.Build(cat),
		text:    recall.NewTextEncoder(cat),
		cf:      e.model,
	}
	if s.cf == nil {
		s.cf = model.FromCatalog(cat)
		s.cf.MinEvents = e.opts.MinEventsForCF
		s.cf.HalfLife = e.opts.HalfLife
	}
	e.snap.Store(s)
	e.logger.Info().
		Int("games", cat.Len()).
		Int("dim", cat.Dim()).
		Uint64("version", cat.Version()).
		Int("vocabulary", s.text.Vocabulary()).
		Dur("took", time.Since(start)).
		Msg("catalog snapshot swapped")
	return nil
}

// Ready 在引擎可以提供服务时返回 nil。
func (e *Engine) Ready() error {
	s := e.snap.Load()
	if s == nil || s.catalog.Len() == 0 {
		return core.ErrEmptyIndex
	}
	return nil
}

// RecordEvent 为用户追加一条交互事件，并使其缓存的偏好向量失效。
// 游戏不在当前目录中时返回 NOT_FOUND。
func (e *Engine) RecordEvent(ctx context.Context, userID string, gameID int64, signal core.Signal, rating *float64) (*core.Ack, error) {
	s := e.snap.Load()
	if s == nil {
		return nil, core.ErrEmptyIndex
	}
	if _, err := s.catalog.Lookup(gameID); err != nil {
		return nil, err
	}
	ack, err := e.profiles.Append(ctx, userID, core.Event{GameID: gameID, Signal: signal, Rating: rating})
	if err != nil {
		return nil, err
	}
	metrics.EventsRecorded.WithLabelValues(string(signal)).Inc()
	e.logger.Debug().
		Str("user_id", userID).
		Int64("game_id", gameID).
		Str("signal", string(signal)).
		Int("seq", ack.Seq).
		Msg("event recorded")
	return ack, nil
}
