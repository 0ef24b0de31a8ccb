package recall

import (
	"context"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/model"
)

// Collaborative 把协同过滤模型包装为打分策略。
//
// 候选池为满足过滤条件的全部目录游戏，打分后保留前 pool_size 个。
// 历史不足时返回 core.ErrInsufficientHistory，由 engine 改走其他状态。
type Collaborative struct {
	Catalog *catalog.Catalog
	Model   *model.Collaborative
}

func (r *Collaborative) Name() string { return "recall.collaborative" }

func (r *Collaborative) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Model == nil {
		return nil, core.ErrInsufficientHistory
	}
	var candidates []int64
	for g := range r.Catalog.Filter(rctx.Eligible) {
		candidates = append(candidates, g.ID)
	}
	scores, err := r.Model.Score(ctx, rctx.Profile, candidates)
	if err != nil {
		return nil, err
	}
	items := toItems(func(id int64) *core.Game {
		g, _ := r.Catalog.Lookup(id)
		return g
	}, scores, core.StrategyCollaborative, core.FeatureCollaborative, r.Name())

	if pool := rctx.ParamInt(ParamPoolSize, 0); pool > 0 && len(items) > pool {
		items = items[:pool]
	}
	return items, nil
}

var _ Source = (*Collaborative)(nil)
