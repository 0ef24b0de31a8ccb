package filter

import "github.com/rushteam/gamerec/core"

// BlacklistFilter 是黑名单过滤器，过滤掉黑名单中的游戏（例如已下架、运营屏蔽）。
type BlacklistFilter struct {
	ids map[int64]struct{}
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(ids []int64) *BlacklistFilter {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &BlacklistFilter{ids: set}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(g *core.Game) bool {
	_, ok := f.ids[g.ID]
	return ok
}

// Len 返回黑名单大小。
func (f *BlacklistFilter) Len() int { return len(f.ids) }
