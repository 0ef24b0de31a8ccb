package engine

import (
	"time"

	"github.com/rushteam/gamerec/model"
	"github.com/rushteam/gamerec/rank"
	"github.com/rushteam/gamerec/recall"
)

// Options 是引擎的可调参数。阈值与权重都是经验默认值，应按实际数据调整。
type Options struct {
	DefaultK int `koanf:"default_k" validate:"gte=1"`
	MaxK     int `koanf:"max_k" validate:"gtefield=DefaultK"`

	// Alpha 是 WARM 状态下协同过滤的权重，内容得分权重为 1-Alpha
	Alpha          float64 `koanf:"alpha" validate:"gte=0,lte=1"`
	MinEventsForCF int     `koanf:"min_events_for_cf" validate:"gte=1"`

	PreferenceWeight    float64 `koanf:"preference_weight" validate:"gte=0"`
	TextWeight          float64 `koanf:"text_weight" validate:"gte=0"`
	RetrievalMultiplier int     `koanf:"retrieval_multiplier" validate:"gte=1"`

	// HalfLife > 0 时启用偏好的时间衰减
	HalfLife time.Duration `koanf:"half_life" validate:"gte=0"`

	// Deadline 是单次推荐的总时限，0 表示只受调用方 ctx 约束
	Deadline time.Duration `koanf:"deadline" validate:"gte=0"`

	FillWithPopularity bool `koanf:"fill_with_popularity"`
	DedupTitles        bool `koanf:"dedup_titles"`
	ExcludeInteracted  bool `koanf:"exclude_interacted"` // 排除已喜欢/购买/不喜欢的游戏
	ExcludeMentioned   bool `koanf:"exclude_mentioned"`  // 排除查询文本中提到的游戏

	// Blacklist 中的游戏永不推荐
	Blacklist []int64 `koanf:"blacklist"`

	MaxConcurrent int `koanf:"max_concurrent" validate:"gte=0"`
}

// DefaultOptions 返回默认参数。
func DefaultOptions() Options {
	return Options{
		DefaultK:            10,
		MaxK:                100,
		Alpha:               rank.DefaultAlpha,
		MinEventsForCF:      model.DefaultMinEvents,
		PreferenceWeight:    recall.DefaultPreferenceWeight,
		TextWeight:          recall.DefaultTextWeight,
		RetrievalMultiplier: recall.DefaultRetrievalMultiplier,
		FillWithPopularity:  true,
		DedupTitles:         true,
		ExcludeInteracted:   true,
		ExcludeMentioned:    true,
	}
}
