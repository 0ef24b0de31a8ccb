package rerank

import (
	"context"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/utils"
	"github.com/rushteam/gamerec/recall"
)

// Fill 是补足节点：主策略结果不足 K 条时，用满足过滤条件的热门游戏补齐。
// 补入的候选解释为 popularity，排在主策略结果之后；最终分数为 0，
// Scored 为 true 时为 热度/最大热度（用作整体兜底结果）。
type Fill struct {
	Catalog *catalog.Catalog
	Titles  bool // 与 Dedup.Titles 保持一致
	Scored  bool
}

// FillSource 是补足候选 strategy label 的 Source。
const FillSource = "rerank.fill"

func (n *Fill) Name() string        { return FillSource }
func (n *Fill) Kind() pipeline.Kind { return pipeline.KindPostProcess }

func (n *Fill) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) >= rctx.K {
		return items, nil
	}
	seen := newSeenSet(n.Titles)
	for _, it := range items {
		seen.add(it.Game)
	}
	for g := range n.Catalog.ByPopularity() {
		if len(items) >= rctx.K {
			break
		}
		if !rctx.Eligible(g) || !seen.add(g) {
			continue
		}
		if n.Scored {
			items = append(items, recall.PopularityItem(g, n.Catalog.MaxPopularity()))
			continue
		}
		it := core.NewItem(g)
		it.SetLabel(core.LabelStrategy, utils.NewLabel(string(core.StrategyPopularity), n.Name()))
		items = append(items, it)
	}
	return items, nil
}
