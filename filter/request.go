package filter

import (
	"fmt"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/dsl"
)

func invalid(format string, args ...any) error {
	return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidRequest, fmt.Sprintf(format, args...))
}

// FromRequest 把请求中的过滤条件编译为过滤链。
// 字段级校验（取值范围、枚举）由 engine 用 validator 完成，这里做跨字段检查与表达式编译，
// 失败时返回 INVALID_REQUEST。ExcludeIDs 不在这里处理，由 engine 并入 rctx.Exclude。
func FromRequest(f core.Filters) (Chain, error) {
	var chain Chain

	if terms := catalog.NormalizeTerms(f.Genres); len(terms) > 0 {
		chain = append(chain, &TermFilter{Terms: terms, Field: "genre"})
	}
	if terms := catalog.NormalizeTerms(f.Tags); len(terms) > 0 {
		chain = append(chain, &TermFilter{Terms: terms, Field: "tag"})
	}
	if terms := catalog.NormalizeTerms(f.ExcludeGenres); len(terms) > 0 {
		chain = append(chain, &TermFilter{Terms: terms, Field: "genre", Exclude: true})
	}
	if terms := catalog.NormalizeTerms(f.ExcludeTags); len(terms) > 0 {
		chain = append(chain, &TermFilter{Terms: terms, Field: "tag", Exclude: true})
	}

	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return nil, invalid("min price %v exceeds max price %v", *f.MinPrice, *f.MaxPrice)
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		chain = append(chain, &PriceFilter{Min: f.MinPrice, Max: f.MaxPrice})
	}

	for _, p := range f.Platforms {
		if catalog.NormalizePlatform(p) == "" {
			return nil, invalid("unknown platform %q", p)
		}
	}
	if platforms := catalog.NormalizePlatforms(f.Platforms); len(platforms) > 0 {
		chain = append(chain, &PlatformFilter{Platforms: platforms})
	}

	if f.YearComparator != "" && f.ReleaseYear == 0 {
		return nil, invalid("year comparator %q without release year", f.YearComparator)
	}
	if f.ReleaseYear > 0 {
		chain = append(chain, &YearFilter{Year: f.ReleaseYear, Comparator: f.YearComparator})
	}
	if f.StartYear > 0 && f.EndYear > 0 && f.StartYear > f.EndYear {
		return nil, invalid("start year %d after end year %d", f.StartYear, f.EndYear)
	}
	if f.StartYear > 0 || f.EndYear > 0 {
		chain = append(chain, &YearRangeFilter{Start: f.StartYear, End: f.EndYear})
	}
	if f.MinPlaytime > 0 {
		chain = append(chain, &PlaytimeFilter{Min: f.MinPlaytime})
	}

	if f.MinPositiveRatio > 0 || f.MinUserReviews > 0 {
		chain = append(chain, &RatingFilter{MinPositiveRatio: f.MinPositiveRatio, MinUserReviews: f.MinUserReviews})
	}

	if !f.IncludeDLC {
		chain = append(chain, DLCFilter{})
	}

	if f.Expr != "" {
		prg, err := dsl.Compile(f.Expr)
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleEngine, core.ErrorCodeInvalidRequest, "filter expression", err)
		}
		chain = append(chain, &ExprFilter{Program: prg})
	}
	return chain, nil
}
