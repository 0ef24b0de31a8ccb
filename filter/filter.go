// Package filter 实现硬过滤：命中即剔除，与分数无关。
//
// 过滤在打分之前生效：engine 把 Chain.Allow 作为谓词传给相似度索引与目录扫描，
// 因此过滤条件不会让结果被截断到少于 K 条（只要满足条件的游戏足够多）。
package filter

import "github.com/rushteam/gamerec/core"

// Filter 是过滤器的抽象接口，用于判断一个游戏是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断游戏是否应该被过滤
	ShouldFilter(g *core.Game) bool
}

// Chain 是多个过滤器的组合，任意一个命中即过滤。
type Chain []Filter

// Allow 判断游戏是否通过全部过滤器，可直接作为 RecommendContext.Allow。
func (c Chain) Allow(g *core.Game) bool {
	_, rejected := c.Reject(g)
	return !rejected
}

// Reject 返回第一个命中的过滤器名称。
func (c Chain) Reject(g *core.Game) (string, bool) {
	if g == nil {
		return "nil", true
	}
	for _, f := range c {
		if f.ShouldFilter(g) {
			return f.Name(), true
		}
	}
	return "", false
}

// Names 返回过滤器名称列表，用于日志。
func (c Chain) Names() []string {
	out := make([]string, len(c))
	for i, f := range c {
		out[i] = f.Name()
	}
	return out
}
