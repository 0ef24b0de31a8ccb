package core

import "github.com/rushteam/gamerec/pkg/utils"

// RecommendContext 承载单次请求的用户、状态与过滤信息，贯穿整个 Pipeline 透传。
//
// 由 engine 在请求开始时构造，各 Node / Source 只读使用；
// Allow 是编译好的硬过滤谓词，Exclude 是需要排除的游戏 ID（已交互、请求显式排除）。
type RecommendContext struct {
	UserID  string
	Request *Request
	State   State
	K       int

	// Profile 是用户事件快照，冷启动时为空画像（非 nil）
	Profile *UserProfile

	// Preference 是派生出的偏好向量，nil 表示用户没有可用的历史
	Preference []float64

	Allow   func(*Game) bool
	Exclude map[int64]struct{}

	// Labels 是请求级标签，例如降级原因、命中的文本词
	Labels map[string]utils.Label

	// Params 请求级参数：候选池大小、融合权重等
	Params map[string]any
}

// Eligible 判断游戏是否满足过滤条件且未被排除。
func (rctx *RecommendContext) Eligible(g *Game) bool {
	if g == nil {
		return false
	}
	if _, ok := rctx.Exclude[g.ID]; ok {
		return false
	}
	if rctx.Allow != nil && !rctx.Allow(g) {
		return false
	}
	return true
}

// Query 返回请求中的自由文本。
func (rctx *RecommendContext) Query() string {
	if rctx.Request == nil {
		return ""
	}
	return rctx.Request.Query
}

// PutLabel 写入请求级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}

// ParamInt 读取整数参数，不存在时返回默认值。
func (rctx *RecommendContext) ParamInt(key string, def int) int {
	if v, ok := rctx.Params[key].(int); ok {
		return v
	}
	return def
}
