package core

// 发布年份比较方式
const (
	YearAfter  = "after"
	YearBefore = "before"
	YearExact  = "exact"
)

// Filters 是请求携带的硬过滤条件，命中即剔除，与分数无关。
//
// Genres / Tags 为“任意命中”语义：游戏的类型或标签中出现其中任意一个即可。
// 所有字符串在使用前会经过与目录相同的归一化。
type Filters struct {
	Genres        []string `json:"genres,omitempty" validate:"dive,required"`
	Tags          []string `json:"tags,omitempty" validate:"dive,required"`
	ExcludeGenres []string `json:"exclude_genres,omitempty" validate:"dive,required"`
	ExcludeTags   []string `json:"exclude_tags,omitempty" validate:"dive,required"`

	MaxPrice *float64 `json:"max_price,omitempty" validate:"omitempty,gte=0"` // 价格上限
	MinPrice *float64 `json:"min_price,omitempty" validate:"omitempty,gte=0"`

	Platforms []string `json:"platforms,omitempty" validate:"dive,required"` // 接受别名，如 pc、macos、deck

	ReleaseYear    int    `json:"release_year,omitempty" validate:"omitempty,gte=1970,lte=2100"`
	YearComparator string `json:"year_comparator,omitempty" validate:"omitempty,oneof=after before exact"`
	// StartYear / EndYear 是闭区间，可只给一端
	StartYear int `json:"start_year,omitempty" validate:"omitempty,gte=1970,lte=2100"`
	EndYear   int `json:"end_year,omitempty" validate:"omitempty,gte=1970,lte=2100"`

	MinPlaytime int `json:"min_playtime,omitempty" validate:"gte=0"` // 平均游玩时长下限（分钟）

	MinPositiveRatio float64 `json:"min_positive_ratio,omitempty" validate:"gte=0,lte=100"`
	MinUserReviews   int     `json:"min_user_reviews,omitempty" validate:"gte=0"`

	IncludeDLC bool    `json:"include_dlc,omitempty"`
	ExcludeIDs []int64 `json:"exclude_ids,omitempty"`

	// Expr 是可选的 CEL 布尔表达式，例如 `game.price < 20.0 && "co-op" in game.tags`
	Expr string `json:"expr,omitempty"`
}

// Active 判断是否存在用户显式指定的过滤条件（决定 FILTER_ONLY 状态）。
// DLC 默认剔除属于系统策略，不计入。
func (f Filters) Active() bool {
	return len(f.Genres) > 0 || len(f.Tags) > 0 ||
		len(f.ExcludeGenres) > 0 || len(f.ExcludeTags) > 0 ||
		f.MaxPrice != nil || f.MinPrice != nil ||
		len(f.Platforms) > 0 || f.ReleaseYear > 0 ||
		f.StartYear > 0 || f.EndYear > 0 || f.MinPlaytime > 0 ||
		f.MinPositiveRatio > 0 || f.MinUserReviews > 0 ||
		len(f.ExcludeIDs) > 0 || f.Expr != ""
}

// Request 是推荐请求。UserID 为空表示冷启动；K 为 0 时使用默认值。
type Request struct {
	UserID  string  `json:"user_id,omitempty"`
	Query   string  `json:"query,omitempty"`
	Filters Filters `json:"filters"`
	K       int     `json:"k" validate:"gte=0"`
}

// State 是 Ranker 针对单次请求选择的状态。
type State string

const (
	StateColdStart  State = "COLD_START"
	StateTextOnly   State = "TEXT_ONLY"
	StateWarm       State = "WARM"
	StateFilterOnly State = "FILTER_ONLY"
)

// Strategy 是打分策略标签，也用作推荐结果的解释标签。
type Strategy string

const (
	StrategyCollaborative Strategy = "collaborative"
	StrategyContent       Strategy = "content"
	StrategyHybrid        Strategy = "hybrid"
	StrategyPopularity    Strategy = "popularity"
)

// 结果级标签
const (
	TagPrimary           = "primary"
	TagFallback          = "fallback"
	TagFallbackExhausted = "fallback-exhausted"
)

// 降级原因
const (
	DegradedDeadline = "deadline"
	DegradedError    = "error"
)

// Recommendation 是结果中的一项。
type Recommendation struct {
	Game        *Game
	Score       float64
	Explanation Strategy
}

// Result 是一次推荐的有序结果，长度不超过 K，且不含重复游戏。
type Result struct {
	Entries  []Recommendation
	State    State
	Tag      string
	Degraded string
}

// IDs 返回结果中的游戏 ID 序列。
func (r *Result) IDs() []int64 {
	if r == nil {
		return nil
	}
	ids := make([]int64, len(r.Entries))
	for i, e := range r.Entries {
		ids[i] = e.Game.ID
	}
	return ids
}
