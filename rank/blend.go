// Package rank 融合各策略的原始分数并排序。
package rank

import (
	"context"
	"slices"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/utils"
)

// DefaultAlpha 是 WARM 状态下协同过滤的权重。
const DefaultAlpha = 0.6

var featureStrategy = map[string]core.Strategy{
	core.FeatureCollaborative: core.StrategyCollaborative,
	core.FeatureContent:       core.StrategyContent,
	core.FeaturePopularity:    core.StrategyPopularity,
}

// BlendNode 按 Weights 线性融合 Features：final = Σ w_f · feature_f，缺失的特征按 0 计。
//
//   - 写入 labels：strategy（单一策略贡献时为该策略，多个策略贡献时为 hybrid）
//   - 更新 item.Score 并按 分数降序、热度降序、ID 升序 排序
type BlendNode struct {
	Weights map[string]float64
}

// Hybrid 返回 WARM 状态使用的融合：alpha·cf + (1-alpha)·content。
func Hybrid(alpha float64) *BlendNode {
	return &BlendNode{Weights: map[string]float64{
		core.FeatureCollaborative: alpha,
		core.FeatureContent:       1 - alpha,
	}}
}

// Single 返回只使用一个特征的融合。
func Single(feature string) *BlendNode {
	return &BlendNode{Weights: map[string]float64{feature: 1}}
}

func (n *BlendNode) Name() string        { return "rank.blend" }
func (n *BlendNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *BlendNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}
	// 按固定顺序遍历特征，保证浮点累加结果与 map 遍历顺序无关
	features := make([]string, 0, len(n.Weights))
	for f := range n.Weights {
		features = append(features, f)
	}
	slices.Sort(features)

	out := items[:0]
	for _, it := range items {
		if it == nil {
			continue
		}
		var (
			score       float64
			present     []string
			contributed []string
		)
		for _, f := range features {
			v, ok := it.Features[f]
			if !ok {
				continue
			}
			present = append(present, f)
			w := n.Weights[f]
			score += w * v
			if w != 0 {
				contributed = append(contributed, f)
			}
		}
		if len(present) == 0 {
			continue // 不是任何参与融合的策略召回的
		}
		// 只被权重为 0 的策略召回时分数为 0，仍保留
		if len(contributed) == 0 {
			contributed = present
		}
		it.Score = score

		strategy := core.StrategyHybrid
		if len(contributed) == 1 {
			strategy = featureStrategy[contributed[0]]
		}
		it.SetLabel(core.LabelStrategy, utils.NewLabel(string(strategy), n.Name()))
		out = append(out, it)
	}
	core.SortItems(out)
	return out, nil
}

var _ pipeline.Node = (*BlendNode)(nil)
