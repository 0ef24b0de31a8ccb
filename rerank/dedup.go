package rerank

import (
	"context"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
)

// Dedup 去重节点：按 ID 去重，Titles 为 true 时还会合并近似标题
// （"DOOM Eternal" 与 "DOOM Eternal Deluxe Edition"），保留排序靠前的一个。
// 输入应已排序。
type Dedup struct {
	Titles bool
}

func (n *Dedup) Name() string        { return "rerank.dedup" }
func (n *Dedup) Kind() pipeline.Kind { return pipeline.KindReRank }

func (n *Dedup) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	seen := newSeenSet(n.Titles)
	out := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.Game == nil || !seen.add(it.Game) {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

// seenSet 记录已出现的游戏 ID 与标题键。
type seenSet struct {
	ids    map[int64]struct{}
	titles map[string]struct{} // nil 表示不按标题去重
}

func newSeenSet(titles bool) *seenSet {
	s := &seenSet{ids: make(map[int64]struct{})}
	if titles {
		s.titles = make(map[string]struct{})
	}
	return s
}

// add 在游戏未出现过时记录并返回 true。
func (s *seenSet) add(g *core.Game) bool {
	if _, ok := s.ids[g.ID]; ok {
		return false
	}
	var key string
	if s.titles != nil {
		key = catalog.TitleKey(g.Title)
		if _, ok := s.titles[key]; ok {
			return false
		}
		s.titles[key] = struct{}{}
	}
	s.ids[g.ID] = struct{}{}
	return true
}
