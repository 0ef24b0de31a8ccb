package pipeline

import (
	"context"
	"fmt"

	"github.com/rushteam/gamerec/core"
)

// Pipeline 把一次推荐拆成可组合的 Node 链。
//
// 每个 Node 执行前检查 ctx：截止时间已过时立即返回 ctx.Err()，
// 由调用方决定使用哪个兜底结果。
type Pipeline struct {
	Nodes []Node

	// Hook 在每个 Node 完成后调用（可选），用于日志与观测。
	Hook func(node Node, in, out int)
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", node.Name(), err)
		}
		if p.Hook != nil {
			p.Hook(node, len(cur), len(next))
		}
		cur = next
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return cur, nil
}
