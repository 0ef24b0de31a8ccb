package recall

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/utils"
)

// Fanout 是一个 Recall Node：并发执行多个策略，并合并结果。
//
// 合并结果按 Sources 顺序拼接后再去重，与各策略的完成顺序无关；
// 同一游戏出现在多个策略中时合并 Features 与 Labels，Score 取最先出现的。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个策略的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）

	// FailFast 为 true 时任何一个策略失败都会取消其余策略并返回该错误；
	// 否则失败的策略被跳过，原因记录在 rctx 的 recall_errors label 中。
	FailFast bool
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	results := make([][]*core.Item, len(n.Sources))
	errs := make([]error, len(n.Sources))

	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}
	for i, src := range n.Sources {
		eg.Go(func() error {
			// 超时控制
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := src.Recall(recallCtx, rctx)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", src.Name(), err)
				if n.FailFast {
					return errs[i]
				}
				return nil
			}

			// 记录召回来源 label，方便 explain / 观测
			for _, it := range items {
				it.PutLabel(core.LabelRecallSource, utils.Label{Value: src.Name(), Source: "recall"})
				it.PutLabel("recall_priority", utils.Label{Value: strconv.Itoa(i), Source: "recall"})
			}
			results[i] = items
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []*core.Item
	for i, items := range results {
		if errs[i] != nil {
			rctx.PutLabel("recall_errors", utils.NewLabel(errs[i].Error(), n.Name()))
		}
		all = append(all, items...)
	}
	return merge(all), nil
}

// merge 按 ID 去重，保留第一个出现的，并累积其余来源的特征与标签。
func merge(all []*core.Item) []*core.Item {
	seen := make(map[int64]*core.Item, len(all))
	out := make([]*core.Item, 0, len(all))
	for _, it := range all {
		if it == nil {
			continue
		}
		if old, ok := seen[it.ID]; ok {
			for k, v := range it.Features {
				if _, exists := old.Features[k]; !exists {
					old.Features[k] = v
				}
			}
			for k, v := range it.Labels {
				old.PutLabel(k, v)
			}
			continue
		}
		seen[it.ID] = it
		out = append(out, it)
	}
	return out
}

var _ pipeline.Node = (*Fanout)(nil)
