package store

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/rushteam/gamerec/core"
)

// BreakerConfig 熔断配置
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // 半开状态允许的探测请求数
	Interval         time.Duration // 闭合状态下计数清零周期
	Timeout          time.Duration // 打开状态持续时间
	FailureThreshold uint32        // 连续失败多少次后打开
}

// BreakerStore 为远程 Store（如 Redis）加熔断：后端持续失败时快速返回 UNAVAILABLE，
// 而不是让每个请求都等待超时。key 不存在不计为失败。
type BreakerStore struct {
	inner core.Store
	cb    *gobreaker.CircuitBreaker[[]byte]
}

// NewBreakerStore 包装 inner。
func NewBreakerStore(inner core.Store, cfg BreakerConfig) *BreakerStore {
	if cfg.Name == "" {
		cfg.Name = inner.Name()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || core.IsStoreNotFound(err) || errors.Is(err, context.Canceled)
		},
	}
	return &BreakerStore{inner: inner, cb: gobreaker.NewCircuitBreaker[[]byte](settings)}
}

func (b *BreakerStore) Name() string { return b.inner.Name() }

// State 返回熔断器状态（closed / half-open / open）。
func (b *BreakerStore) State() string { return b.cb.State().String() }

func (b *BreakerStore) do(fn func() ([]byte, error)) ([]byte, error) {
	val, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, core.WrapDomainError(core.ModuleStore, core.ErrorCodeUnavailable, b.inner.Name()+" circuit open", err)
	}
	return val, err
}

func (b *BreakerStore) Get(ctx context.Context, key string) ([]byte, error) {
	return b.do(func() ([]byte, error) { return b.inner.Get(ctx, key) })
}

func (b *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	_, err := b.do(func() ([]byte, error) { return nil, b.inner.Set(ctx, key, value, ttl...) })
	return err
}

func (b *BreakerStore) Delete(ctx context.Context, key string) error {
	_, err := b.do(func() ([]byte, error) { return nil, b.inner.Delete(ctx, key) })
	return err
}

func (b *BreakerStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	var out map[string][]byte
	_, err := b.do(func() ([]byte, error) {
		var err error
		out, err = b.inner.BatchGet(ctx, keys)
		return nil, err
	})
	return out, err
}

func (b *BreakerStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	_, err := b.do(func() ([]byte, error) { return nil, b.inner.BatchSet(ctx, kvs, ttl...) })
	return err
}

func (b *BreakerStore) Close() error { return b.inner.Close() }

var _ core.Store = (*BreakerStore)(nil)
