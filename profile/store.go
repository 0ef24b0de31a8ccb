// Package profile 是用户偏好存储：每个用户一个只追加的事件序列，
// 以及由事件序列派生、按需计算并缓存的偏好向量。
package profile

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/logging"
)

// KeyPrefix 是画像在外部存储中的 key 前缀。
const KeyPrefix = "profile:"

// Key 返回用户画像的存储 key。
func Key(userID string) string { return KeyPrefix + userID }

// entry 是单个用户的状态，由自己的锁保护。同一用户的写入串行，不同用户互不影响。
type entry struct {
	mu     sync.Mutex
	loaded bool
	events []core.Event

	// 偏好向量缓存，append 或目录版本变化时失效
	vec        []float64
	vecVersion uint64
	vecValid   bool
}

// Options 配置偏好派生。
type Options struct {
	Weights  core.SignalWeights
	HalfLife time.Duration
	Now      func() time.Time // 事件时间戳来源，测试可替换
}

// Store 管理所有用户的画像。Backend 为空时只保存在内存中。
type Store struct {
	Backend core.Store
	opts    Options
	logger  zerolog.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

// NewStore 创建偏好存储。
func NewStore(backend core.Store, opts Options) *Store {
	if opts.Weights == nil {
		opts.Weights = core.DefaultSignalWeights
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		Backend: backend,
		opts:    opts,
		logger:  logging.Component("profile"),
		entries: make(map[string]*entry),
	}
}

func (s *Store) entry(userID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &entry{}
		s.entries[userID] = e
	}
	return e
}

// existing 是读路径使用的 entry：内存与外部存储中都没有该用户时返回 nil。
// 只读请求不创建空条目。
func (s *Store) existing(ctx context.Context, userID string) (*entry, error) {
	s.mu.Lock()
	e, ok := s.entries[userID]
	s.mu.Unlock()
	if ok || s.Backend == nil {
		return e, nil
	}

	events, found, err := s.fetch(ctx, userID)
	if err != nil || !found {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// 期间有写入创建了条目时以它为准
	if e, ok := s.entries[userID]; ok {
		return e, nil
	}
	e = &entry{events: events, loaded: true}
	s.entries[userID] = e
	return e, nil
}

// fetch 从外部存储读取用户的事件序列。
func (s *Store) fetch(ctx context.Context, userID string) ([]core.Event, bool, error) {
	data, err := s.Backend.Get(ctx, Key(userID))
	switch {
	case core.IsStoreNotFound(err):
		return nil, false, nil
	case err != nil:
		return nil, false, core.WrapDomainError(core.ModuleProfile, core.ErrorCodeUnavailable, "load profile "+userID, err)
	}
	var events []core.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, false, core.WrapDomainError(core.ModuleProfile, core.ErrorCodeDataIntegrity, "decode profile "+userID, err)
	}
	return events, true, nil
}

// load 在持有 e.mu 时调用，首次访问时从外部存储读取历史事件。
func (s *Store) load(ctx context.Context, userID string, e *entry) error {
	if e.loaded {
		return nil
	}
	if s.Backend == nil {
		e.loaded = true
		return nil
	}
	events, _, err := s.fetch(ctx, userID)
	if err != nil {
		return err
	}
	e.events = events
	e.loaded = true
	return nil
}

// Validate 校验事件本身（信号类型、评分范围），不检查游戏是否存在。
func Validate(ev core.Event) error {
	if !ev.Signal.Valid() {
		return core.NewDomainError(core.ModuleProfile, core.ErrorCodeInvalidInput, fmt.Sprintf("unknown signal %q", ev.Signal))
	}
	if ev.Signal == core.SignalRated {
		if ev.Rating == nil {
			return core.NewDomainError(core.ModuleProfile, core.ErrorCodeInvalidInput, "rated event requires a rating")
		}
		if r := *ev.Rating; r < core.MinRating || r > core.MaxRating {
			return core.NewDomainError(core.ModuleProfile, core.ErrorCodeInvalidInput, fmt.Sprintf("rating %v out of range [1,5]", r))
		}
	} else if ev.Rating != nil {
		return core.NewDomainError(core.ModuleProfile, core.ErrorCodeInvalidInput, "rating is only allowed on rated events")
	}
	return nil
}

// Append 追加一条事件。
//
// 先把完整事件序列写入外部存储，成功后才在内存中提交；
// 写入失败时画像保持不变。ID 与时间戳为空时自动填充。
func (s *Store) Append(ctx context.Context, userID string, ev core.Event) (*core.Ack, error) {
	if userID == "" {
		return nil, core.NewDomainError(core.ModuleProfile, core.ErrorCodeInvalidInput, "user id is required")
	}
	if err := Validate(ev); err != nil {
		return nil, err
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.opts.Now().UTC()
	}

	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := s.load(ctx, userID, e); err != nil {
		return nil, err
	}

	next := append(slices.Clip(e.events), ev)
	if s.Backend != nil {
		data, err := json.Marshal(next)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleProfile, core.ErrorCodeInternalError, "encode profile", err)
		}
		if err := s.Backend.Set(ctx, Key(userID), data); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("persist profile failed, event dropped")
			return nil, core.WrapDomainError(core.ModuleProfile, core.ErrorCodeUnavailable, "persist profile "+userID, err)
		}
	}

	e.events = next
	e.vecValid = false
	return &core.Ack{UserID: userID, EventID: ev.ID, Seq: len(next)}, nil
}

// Snapshot 返回用户画像的副本；未知用户返回空画像。
func (s *Store) Snapshot(ctx context.Context, userID string) (*core.UserProfile, error) {
	p := core.NewUserProfile(userID)
	if userID == "" {
		return p, nil
	}
	e, err := s.existing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return p, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.load(ctx, userID, e); err != nil {
		return nil, err
	}
	p.Events = slices.Clone(e.events)
	return p, nil
}

// VectorSource 提供游戏向量与其版本号，通常是当前目录快照。
type VectorSource interface {
	Vector(id int64) []float64
	Version() uint64
}

// PreferenceVector 返回用户的偏好向量；用户没有任何可用事件时返回 nil。
// 结果按 (用户, 目录版本) 缓存，返回值为只读共享切片。
func (s *Store) PreferenceVector(ctx context.Context, userID string, src VectorSource) ([]float64, error) {
	if userID == "" {
		return nil, nil
	}
	e, err := s.existing(ctx, userID)
	if err != nil || e == nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.load(ctx, userID, e); err != nil {
		return nil, err
	}
	if e.vecValid && e.vecVersion == src.Version() {
		return e.vec, nil
	}
	vec, _ := core.WeightedCentroid(e.events, s.opts.Weights, s.opts.HalfLife, src.Vector)
	e.vec, e.vecVersion, e.vecValid = vec, src.Version(), true
	return vec, nil
}
