package engine

import (
	"context"
	"errors"
	"time"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/filter"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/pkg/metrics"
	"github.com/rushteam/gamerec/pkg/utils"
	"github.com/rushteam/gamerec/rank"
	"github.com/rushteam/gamerec/recall"
	"github.com/rushteam/gamerec/rerank"
)

// interactedSignals 是视为“已表态”的信号，这些游戏默认不再推荐。
var interactedSignals = []core.Signal{core.SignalLiked, core.SignalPurchased, core.SignalDisliked}

// Recommend 返回推荐结果。
//
// 只有请求本身不合法（INVALID_REQUEST）时返回错误；
// 其余失败（画像读取失败、超时、策略出错）都返回按热度排序的兜底结果，并在 Result.Degraded 中注明原因。
func (e *Engine) Recommend(ctx context.Context, req core.Request) (*core.Result, error) {
	start := time.Now()

	if err := e.validate.Struct(req); err != nil {
		return nil, core.WrapDomainError(core.ModuleEngine, core.ErrorCodeInvalidRequest, "invalid request", err)
	}
	k := req.K
	if k == 0 {
		k = e.opts.DefaultK
	}
	if k > e.opts.MaxK {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidRequest, "k exceeds maximum")
	}
	chain, err := filter.FromRequest(req.Filters)
	if err != nil {
		return nil, err
	}
	if e.blacklist != nil {
		chain = append(chain, e.blacklist)
	}

	s := e.snap.Load()
	if s == nil {
		e.logger.Warn().Msg("recommend called before catalog load")
		return e.finish(start, &core.Result{State: core.StateColdStart, Tag: core.TagFallbackExhausted, Degraded: core.DegradedError}), nil
	}

	if e.opts.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Deadline)
		defer cancel()
	}

	rctx := &core.RecommendContext{
		UserID:  req.UserID,
		Request: &req,
		State:   core.StateColdStart,
		K:       k,
		Profile: core.NewUserProfile(req.UserID),
		Allow:   chain.Allow,
		Exclude: make(map[int64]struct{}, len(req.Filters.ExcludeIDs)),
		Params:  map[string]any{recall.ParamPoolSize: k * e.opts.RetrievalMultiplier},
	}
	for _, id := range req.Filters.ExcludeIDs {
		rctx.Exclude[id] = struct{}{}
	}
	log := e.logger.With().Str("user_id", req.UserID).Int("k", k).Logger()

	// 1. 画像
	p, perr := e.profiles.Snapshot(ctx, req.UserID)
	if perr == nil {
		rctx.Profile = p
		if e.opts.ExcludeInteracted {
			for id := range p.Interacted(interactedSignals...) {
				rctx.Exclude[id] = struct{}{}
			}
		}
	}

	// 2. 文本
	var tq recall.TextQuery
	if req.Query != "" {
		tq = s.text.Encode(req.Query)
		rctx.Params[recall.ParamTextQuery] = tq
		for _, term := range tq.Terms {
			rctx.PutLabel("query_terms", utils.NewLabel(term, "text"))
		}
		if e.opts.ExcludeMentioned {
			for _, id := range tq.Titles {
				rctx.Exclude[id] = struct{}{}
			}
		}
	}

	// 3. 兜底结果在任何打分之前算好，超时时直接使用
	fallbackNode := &rerank.Fill{Catalog: s.catalog, Titles: e.opts.DedupTitles, Scored: true}
	fallback, _ := fallbackNode.Process(context.Background(), rctx, nil)
	if len(fallback) == 0 && !req.Filters.Active() {
		// 用户没有指定过滤条件时，系统排除项（DLC、黑名单、已交互）不能让结果为空
		fallback = relaxedFallback(fallbackNode, rctx)
		log.Debug().Int("games", len(fallback)).Msg("system exclusions emptied the fallback, relaxed")
	}
	exhausted := len(fallback) < k

	degrade := func(reason string, cause error) (*core.Result, error) {
		metrics.RecommendDegraded.WithLabelValues(reason).Inc()
		log.Warn().Err(cause).Str("reason", reason).Str("state", string(rctx.State)).Msg("serving popularity fallback")
		return e.finish(start, e.result(rctx.State, fallback, core.TagFallback, reason, exhausted)), nil
	}

	if perr != nil {
		return degrade(reasonOf(ctx), perr)
	}
	pref, err := e.profiles.PreferenceVector(ctx, req.UserID, s.catalog)
	if err != nil {
		return degrade(reasonOf(ctx), err)
	}
	rctx.Preference = pref

	sig := signals{
		cfReady:    req.UserID != "" && s.cf.Sufficient(rctx.Profile),
		hasHistory: pref != nil,
		hasText:    tq.Vector != nil,
		hasFilters: req.Filters.Active(),
	}

	// 4. 状态机
	var items []*core.Item
	for {
		rctx.State = decide(sig)
		log.Debug().
			Str("state", string(rctx.State)).
			Str("strategy", string(strategyOf(rctx.State, sig))).
			Int("events", rctx.Profile.Len()).
			Strs("filters", chain.Names()).
			Msg("state selected")

		items, err = e.pipelineFor(s, rctx.State, sig, chain).Run(ctx, rctx, nil)
		if rctx.State == core.StateWarm && errors.Is(err, core.ErrInsufficientHistory) {
			sig.cfReady = false
			continue
		}
		break
	}
	switch {
	case err != nil:
		return degrade(reasonOf(ctx), err)
	case blended(items) == 0:
		log.Debug().Str("state", string(rctx.State)).Msg("no eligible candidates, falling back to popularity")
		return e.finish(start, e.result(rctx.State, fallback, core.TagFallback, "", exhausted)), nil
	}

	tag := core.TagPrimary
	if rctx.State == core.StateColdStart {
		tag = core.TagFallback
	}
	return e.finish(start, e.result(rctx.State, items, tag, "", exhausted)), nil
}

// pipelineFor 构建状态对应的 Node 链。
func (e *Engine) pipelineFor(s *snapshot, state core.State, sig signals, chain filter.Chain) *pipeline.Pipeline {
	content := &recall.Content{
		Catalog:             s.catalog,
		Index:               s.index,
		Text:                s.text,
		PreferenceWeight:    e.opts.PreferenceWeight,
		TextWeight:          e.opts.TextWeight,
		RetrievalMultiplier: e.opts.RetrievalMultiplier,
	}
	popularity := &recall.Popularity{Catalog: s.catalog}

	var (
		sources []recall.Source
		blend   *rank.BlendNode
	)
	switch {
	case state == core.StateWarm:
		sources = []recall.Source{&recall.Collaborative{Catalog: s.catalog, Model: s.cf}, content}
		blend = rank.Hybrid(e.opts.Alpha)
	case state == core.StateTextOnly, state == core.StateColdStart && sig.hasHistory:
		sources = []recall.Source{content}
		blend = rank.Single(core.FeatureContent)
	default:
		sources = []recall.Source{popularity}
		blend = rank.Single(core.FeaturePopularity)
	}

	nodes := []pipeline.Node{
		&recall.Fanout{Sources: sources, FailFast: true, MaxConcurrent: e.opts.MaxConcurrent},
		&filter.FilterNode{Filters: chain},
		blend,
		&rerank.Dedup{Titles: e.opts.DedupTitles},
		&rerank.TopNNode{},
	}
	if e.opts.FillWithPopularity {
		nodes = append(nodes, &rerank.Fill{Catalog: s.catalog, Titles: e.opts.DedupTitles})
	}
	return &pipeline.Pipeline{
		Nodes: nodes,
		Hook: func(node pipeline.Node, in, out int) {
			e.logger.Trace().Str("node", node.Name()).Str("kind", string(node.Kind())).Int("in", in).Int("out", out).Msg("node done")
		},
	}
}

// relaxedFallback 先去掉硬过滤谓词，仍为空时再去掉排除集合。
func relaxedFallback(fill *rerank.Fill, rctx *core.RecommendContext) []*core.Item {
	relaxed := *rctx
	relaxed.Allow = nil
	items, _ := fill.Process(context.Background(), &relaxed, nil)
	if len(items) > 0 {
		return items
	}
	relaxed.Exclude = nil
	items, _ = fill.Process(context.Background(), &relaxed, nil)
	return items
}

func reasonOf(ctx context.Context) string {
	if ctx.Err() != nil {
		return core.DegradedDeadline
	}
	return core.DegradedError
}

// blended 返回由主策略（而不是补足）产生的候选数。
func blended(items []*core.Item) int {
	n := 0
	for _, it := range items {
		if it.Labels[core.LabelStrategy].Source != rerank.FillSource {
			n++
		}
	}
	return n
}

// result 把候选转换为结果。候选数不足 K 且满足条件的游戏已经取尽时标记为 fallback-exhausted。
func (e *Engine) result(state core.State, items []*core.Item, tag, degraded string, exhausted bool) *core.Result {
	res := &core.Result{
		Entries:  make([]core.Recommendation, 0, len(items)),
		State:    state,
		Tag:      tag,
		Degraded: degraded,
	}
	for _, it := range items {
		strategy := it.Strategy()
		if strategy == "" {
			strategy = core.StrategyPopularity
		}
		res.Entries = append(res.Entries, core.Recommendation{Game: it.Game, Score: it.Score, Explanation: strategy})
	}
	if exhausted {
		res.Tag = core.TagFallbackExhausted
	}
	return res
}

func (e *Engine) finish(start time.Time, res *core.Result) *core.Result {
	metrics.ObserveRecommend(string(res.State), res.Tag, time.Since(start))
	return res
}
