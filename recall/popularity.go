package recall

import (
	"context"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/utils"
)

// Popularity 是热度策略：按热度降序取满足过滤条件的游戏，分数为 热度/最大热度。
// Popularity 同时实现了 Source 和 Node 接口，可以直接在 Pipeline 中使用。
type Popularity struct {
	Catalog *catalog.Catalog

	// Limit 返回数量上限，0 表示取 rctx 的 pool_size，再不存在时取 K
	Limit int
}

func (r *Popularity) Name() string        { return "recall.popularity" }
func (r *Popularity) Kind() pipeline.Kind { return pipeline.KindRecall }

// Process 实现 Node 接口，直接调用 Recall
func (r *Popularity) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	return r.Recall(ctx, rctx)
}

// Recall 实现 Source 接口
func (r *Popularity) Recall(_ context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	limit := r.Limit
	if limit <= 0 {
		limit = rctx.ParamInt(ParamPoolSize, rctx.K)
	}
	maxPop := r.Catalog.MaxPopularity()

	out := make([]*core.Item, 0, limit)
	for g := range r.Catalog.ByPopularity() {
		if len(out) >= limit {
			break
		}
		if !rctx.Eligible(g) {
			continue
		}
		out = append(out, PopularityItem(g, maxPop))
	}
	return out, nil
}

// PopularityItem 构造热度候选。
func PopularityItem(g *core.Game, maxPop float64) *core.Item {
	it := core.NewItem(g)
	if maxPop > 0 {
		it.Score = g.Popularity / maxPop
	}
	it.Features[core.FeaturePopularity] = it.Score
	it.SetLabel(core.LabelStrategy, utils.NewLabel(string(core.StrategyPopularity), "recall.popularity"))
	return it
}

var (
	_ Source        = (*Popularity)(nil)
	_ pipeline.Node = (*Popularity)(nil)
)
