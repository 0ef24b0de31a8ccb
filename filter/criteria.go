package filter

import (
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/dsl"
)

// TermFilter 按类型/标签过滤，Terms 已归一化。
//
// 原始数据中类型与标签经常混用，包含与排除都按 HasTerm 匹配，
// 保证同一个词不会既满足包含条件又逃过排除条件。
//   - 包含模式：出现任意一个词即保留
//   - 排除模式（Exclude）：出现任意一个词即过滤
type TermFilter struct {
	Terms   []string
	Field   string // genre / tag，只影响 Name
	Exclude bool
}

func (f *TermFilter) Name() string {
	switch {
	case f.Exclude && f.Field == "genre":
		return "filter.exclude_genre"
	case f.Exclude:
		return "filter.exclude_tag"
	case f.Field == "tag":
		return "filter.tag"
	default:
		return "filter.genre"
	}
}

func (f *TermFilter) ShouldFilter(g *core.Game) bool {
	for _, t := range f.Terms {
		if g.HasTerm(t) {
			return f.Exclude
		}
	}
	return !f.Exclude
}

// PriceFilter 按价格区间过滤，边界包含在内。
type PriceFilter struct {
	Min, Max *float64
}

func (f *PriceFilter) Name() string { return "filter.price" }

func (f *PriceFilter) ShouldFilter(g *core.Game) bool {
	if f.Max != nil && g.Price > *f.Max {
		return true
	}
	return f.Min != nil && g.Price < *f.Min
}

// PlatformFilter 要求游戏支持任意一个指定平台。
type PlatformFilter struct {
	Platforms []string
}

func (f *PlatformFilter) Name() string { return "filter.platform" }

func (f *PlatformFilter) ShouldFilter(g *core.Game) bool {
	for _, p := range f.Platforms {
		if g.SupportsPlatform(p) {
			return false
		}
	}
	return true
}

// YearFilter 按发布年份过滤；after / before 为严格比较。发布年份未知的游戏被过滤。
type YearFilter struct {
	Year       int
	Comparator string
}

func (f *YearFilter) Name() string { return "filter.release_year" }

func (f *YearFilter) ShouldFilter(g *core.Game) bool {
	if g.ReleaseYear == 0 {
		return true
	}
	switch f.Comparator {
	case core.YearAfter:
		return g.ReleaseYear <= f.Year
	case core.YearBefore:
		return g.ReleaseYear >= f.Year
	default:
		return g.ReleaseYear != f.Year
	}
}

// YearRangeFilter 按发布年份闭区间过滤，0 表示该端不限。发布年份未知的游戏被过滤。
type YearRangeFilter struct {
	Start, End int
}

func (f *YearRangeFilter) Name() string { return "filter.release_year_range" }

func (f *YearRangeFilter) ShouldFilter(g *core.Game) bool {
	if g.ReleaseYear == 0 {
		return true
	}
	return (f.Start > 0 && g.ReleaseYear < f.Start) || (f.End > 0 && g.ReleaseYear > f.End)
}

// PlaytimeFilter 按平均游玩时长下限过滤，时长未知视为 0。
type PlaytimeFilter struct {
	Min int
}

func (f *PlaytimeFilter) Name() string { return "filter.playtime" }

func (f *PlaytimeFilter) ShouldFilter(g *core.Game) bool { return g.AvgPlaytime < f.Min }

// RatingFilter 按好评率与评测数下限过滤。
type RatingFilter struct {
	MinPositiveRatio float64
	MinUserReviews   int
}

func (f *RatingFilter) Name() string { return "filter.rating" }

func (f *RatingFilter) ShouldFilter(g *core.Game) bool {
	return g.PositiveRatio < f.MinPositiveRatio || g.UserReviews < f.MinUserReviews
}

// DLCFilter 过滤 DLC、原声、扩展包等附加内容。
type DLCFilter struct{}

func (DLCFilter) Name() string { return "filter.dlc" }

func (DLCFilter) ShouldFilter(g *core.Game) bool { return g.DLC }

// ExprFilter 用 CEL 表达式过滤：表达式为 false 或求值出错时过滤。
type ExprFilter struct {
	Program *dsl.Program
}

func (f *ExprFilter) Name() string { return "filter.expr" }

func (f *ExprFilter) ShouldFilter(g *core.Game) bool {
	ok, err := f.Program.Match(g)
	return err != nil || !ok
}
