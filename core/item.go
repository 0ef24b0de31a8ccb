package core

import (
	"sort"

	"github.com/rushteam/gamerec/pkg/utils"
)

// Feature keys：各策略的原始分数写入 Item.Features，融合阶段按 key 读取。
const (
	FeatureCollaborative = "collaborative"
	FeatureContent       = "content"
	FeaturePopularity    = "popularity"
)

// Label keys
const (
	LabelStrategy     = "strategy"
	LabelRecallSource = "recall_source"
	LabelFiltered     = "filtered"
)

// Item 是推荐链路中的统一承载结构（即候选 ScoredCandidate）：特征、分数、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策；Game 指向当前目录快照中的游戏。
type Item struct {
	ID       int64
	Score    float64
	Game     *Game
	Features map[string]float64
	Labels   map[string]utils.Label
}

func NewItem(game *Game) *Item {
	return &Item{
		ID:       game.ID,
		Game:     game,
		Features: make(map[string]float64),
		Labels:   make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// SetLabel 覆盖写入 Label。
func (it *Item) SetLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	it.Labels[key] = lbl
}

// Strategy 返回候选的策略标签。
func (it *Item) Strategy() Strategy {
	if lbl, ok := it.Labels[LabelStrategy]; ok {
		return Strategy(lbl.Value)
	}
	return ""
}

// Popularity 返回候选游戏的热度，用于排序时的次级比较。
func (it *Item) Popularity() float64 {
	if it.Game == nil {
		return 0
	}
	return it.Game.Popularity
}

// SortItems 按最终排序规则排序：分数降序、热度降序、ID 升序。结果与输入顺序无关。
func SortItems(items []*Item) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Popularity() != b.Popularity() {
			return a.Popularity() > b.Popularity()
		}
		return a.ID < b.ID
	})
}
