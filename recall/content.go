package recall

import (
	"context"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/vector"
)

// 内容打分默认参数
const (
	DefaultPreferenceWeight    = 0.5
	DefaultTextWeight          = 0.5
	DefaultRetrievalMultiplier = 5
)

// Content 是基于内容的打分策略（Content-Based Recommendation）。
//
// 核心思想："用户喜欢具有某些特征的游戏，推荐内容向量相近的其他游戏"
//
// 查询向量来自两部分：
//  1. 用户偏好向量（rctx.Preference，由 profile 派生）
//  2. 自由文本经 TextEncoder 编码后的向量
//
// 两者都存在时按 PreferenceWeight / TextWeight 加权平均。
// 在索引中取 K × RetrievalMultiplier 个最近邻，过滤条件在检索时生效；
// 分数为 1/(1+d)，再除以最优候选的值，落在 (0,1]。
type Content struct {
	Catalog *catalog.Catalog
	Index   *vector.Index
	Text    *TextEncoder

	PreferenceWeight    float64
	TextWeight          float64
	RetrievalMultiplier int
}

func (r *Content) Name() string { return "recall.content" }

func (r *Content) weights() (float64, float64) {
	pw, tw := r.PreferenceWeight, r.TextWeight
	if pw <= 0 && tw <= 0 {
		return DefaultPreferenceWeight, DefaultTextWeight
	}
	return pw, tw
}

// QueryVector 组合偏好向量与文本向量，都不存在时返回 nil。
func (r *Content) QueryVector(rctx *core.RecommendContext) []float64 {
	var text []float64
	if tq, ok := rctx.Params[ParamTextQuery].(TextQuery); ok {
		text = tq.Vector
	} else if r.Text != nil && rctx.Query() != "" {
		text = r.Text.Encode(rctx.Query()).Vector
	}
	pref := rctx.Preference
	switch {
	case pref == nil:
		return text
	case text == nil:
		return pref
	}

	pw, tw := r.weights()
	pref, text = vector.Normalize(pref), vector.Normalize(text)
	out := make([]float64, len(pref))
	for i := range out {
		out[i] = (pw*pref[i] + tw*text[i]) / (pw + tw)
	}
	return out
}

func (r *Content) poolSize(rctx *core.RecommendContext) int {
	mult := r.RetrievalMultiplier
	if mult <= 0 {
		mult = DefaultRetrievalMultiplier
	}
	return rctx.ParamInt(ParamPoolSize, rctx.K*mult)
}

// Score 返回候选游戏的内容分数；没有查询向量时返回空表。
func (r *Content) Score(ctx context.Context, rctx *core.RecommendContext) (map[int64]float64, error) {
	q := r.QueryVector(rctx)
	if q == nil || r.Index == nil || r.Index.Len() == 0 {
		return map[int64]float64{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	neighbors, err := r.Index.NearestNeighbors(q, r.poolSize(rctx), rctx.Exclude, rctx.Allow)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]float64, len(neighbors))
	if len(neighbors) == 0 {
		return out, nil
	}
	best := 1 / (1 + neighbors[0].Distance)
	for _, n := range neighbors {
		out[n.ID] = (1 / (1 + n.Distance)) / best
	}
	return out, nil
}

// Recall 实现 Source 接口
func (r *Content) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	scores, err := r.Score(ctx, rctx)
	if err != nil {
		return nil, err
	}
	return toItems(r.lookup, scores, core.StrategyContent, core.FeatureContent, r.Name()), nil
}

func (r *Content) lookup(id int64) *core.Game {
	g, err := r.Catalog.Lookup(id)
	if err != nil {
		return nil
	}
	return g
}

var _ Source = (*Content)(nil)
