// Package gamerec 是一个混合游戏推荐引擎。
//
// 设计要点：
// - State-first: 每个请求按用户数据的充足程度选择状态（WARM / TEXT_ONLY / FILTER_ONLY / COLD_START）
// - Pipeline-first: 每个状态都是一条 Node 链（Recall → Filter → Rank → ReRank → PostProcess）
// - Snapshot: 目录、向量索引与文本编码器组成不可变快照，重载时整体替换
// - Always answer: 除非请求本身不合法，否则总能返回结果（最差为热度兜底）
package gamerec

import (
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/engine"
	"github.com/rushteam/gamerec/pipeline"
)

// 轻量 facade：便于直接 import "gamerec" 使用核心抽象。
type (
	Engine  = engine.Engine
	Options = engine.Options
	Request = core.Request
	Filters = core.Filters
	Result  = core.Result
	Signal  = core.Signal

	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
)

var (
	New            = engine.New
	DefaultOptions = engine.DefaultOptions
)
