package filter

import (
	"context"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/utils"
)

// FilterNode 是过滤 Node：剔除不满足 Filters 或在 rctx.Exclude 中的候选。
// 各策略已在召回时应用过滤谓词，这里保证合并后的候选集同样满足约束。
type FilterNode struct {
	Filters Chain
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	out := make([]*core.Item, 0, len(items))
	for _, item := range items {
		if item == nil || item.Game == nil {
			continue
		}
		reason := ""
		if _, excluded := rctx.Exclude[item.ID]; excluded {
			reason = "exclude"
		} else if name, rejected := n.Filters.Reject(item.Game); rejected {
			reason = name
		}
		if reason != "" {
			// 记录过滤原因（用于调试/观测）
			item.PutLabel(core.LabelFiltered, utils.Label{Value: "true", Source: reason})
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
