package engine

import "github.com/rushteam/gamerec/core"

// signals 是决定状态所需的请求特征。
type signals struct {
	cfReady    bool // 协同过滤历史充足（且本次未被模型拒绝）
	hasHistory bool // 用户存在可用的偏好向量
	hasText    bool // 文本编码得到了查询向量
	hasFilters bool // 用户显式指定了过滤条件
}

// decide 按优先级选择状态：WARM > TEXT_ONLY > FILTER_ONLY > COLD_START。
// FILTER_ONLY 只在既没有文本也没有任何历史时使用；有少量历史时走 COLD_START，
// 用偏好向量在过滤条件内做内容打分。
func decide(s signals) core.State {
	switch {
	case s.cfReady:
		return core.StateWarm
	case s.hasText:
		return core.StateTextOnly
	case s.hasFilters && !s.hasHistory:
		return core.StateFilterOnly
	default:
		return core.StateColdStart
	}
}

// strategyOf 返回状态的主策略，用于日志。
func strategyOf(state core.State, s signals) core.Strategy {
	switch state {
	case core.StateWarm:
		return core.StrategyHybrid
	case core.StateTextOnly:
		return core.StrategyContent
	case core.StateColdStart:
		if s.hasHistory {
			return core.StrategyContent
		}
	}
	return core.StrategyPopularity
}
