package recall

import (
	"context"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/utils"
)

// Source 表示一个可复用的打分策略（协同过滤/内容/热度）。
// 你可以把它理解为“可并发 fan-out 的策略单元”。
//
// 返回的候选已满足 rctx 的过滤与排除条件，Score 与 Features[策略名] 为该策略的原始分数。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// Parameter keys（RecommendContext.Params）
const (
	ParamPoolSize  = "pool_size"  // 每个策略返回的候选数上限
	ParamTextQuery = "text_query" // 预先编码的 TextQuery，避免重复编码
)

// toItems 把分数表转换为候选列表，按分数降序、热度降序、ID 升序排列。
func toItems(games func(int64) *core.Game, scores map[int64]float64, strategy core.Strategy, feature, source string) []*core.Item {
	out := make([]*core.Item, 0, len(scores))
	for id, s := range scores {
		g := games(id)
		if g == nil {
			continue
		}
		it := core.NewItem(g)
		it.Score = s
		it.Features[feature] = s
		it.PutLabel(core.LabelStrategy, utils.NewLabel(string(strategy), source))
		out = append(out, it)
	}
	core.SortItems(out)
	return out
}
