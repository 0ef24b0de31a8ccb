// Package vector 提供目录内容向量上的相似度索引。
//
// Index 是精确检索（全量扫描 + 有界堆），结果完全确定：
// 距离升序，距离相同按游戏 ID 升序。
package vector

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/core"
)

// Neighbor 是一条检索结果。Distance 为余弦距离，范围 [0, 2]。
type Neighbor struct {
	ID       int64
	Distance float64
}

type entry struct {
	game *core.Game
	unit []float64 // 归一化后的向量，零向量保持全 0
}

// Index 是构建后只读的向量索引，可被并发查询。
type Index struct {
	entries []entry // 按 ID 升序，与目录一致
	dim     int
}

// Build 为目录构建索引，O(n·d)。
func Build(cat *catalog.Catalog) *Index {
	idx := &Index{entries: make([]entry, 0, cat.Len()), dim: cat.Dim()}
	for g := range cat.All() {
		idx.entries = append(idx.entries, entry{game: g, unit: Normalize(g.Vector)})
	}
	return idx
}

// Len 返回索引中的游戏数。
func (idx *Index) Len() int { return len(idx.entries) }

// Dim 返回向量维度。
func (idx *Index) Dim() int { return idx.dim }

// NearestNeighbors 返回与 vec 最近的至多 k 个游戏。
//
// exclude 中的 ID 与 allow 返回 false 的游戏不参与打分，
// 因此过滤条件不会让结果少于 k（只要满足条件的游戏足够多）。
func (idx *Index) NearestNeighbors(vec []float64, k int, exclude map[int64]struct{}, allow func(*core.Game) bool) ([]Neighbor, error) {
	if len(idx.entries) == 0 {
		return nil, core.ErrEmptyIndex
	}
	if len(vec) != idx.dim {
		return nil, core.NewDomainError(core.ModuleIndex, core.ErrorCodeInvalidInput,
			fmt.Sprintf("query dimension %d, index dimension %d", len(vec), idx.dim))
	}
	if k <= 0 {
		return nil, nil
	}
	q := Normalize(vec)

	h := make(neighborHeap, 0, k)
	for i := range idx.entries {
		e := &idx.entries[i]
		if _, skip := exclude[e.game.ID]; skip {
			continue
		}
		if allow != nil && !allow(e.game) {
			continue
		}
		n := Neighbor{ID: e.game.ID, Distance: 1 - dot(q, e.unit)}
		if len(h) < k {
			heap.Push(&h, n)
			continue
		}
		if closer(n, h[0]) {
			h[0] = n
			heap.Fix(&h, 0)
		}
	}

	out := make([]Neighbor, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(Neighbor)
	}
	return out, nil
}

// closer 定义结果顺序：距离小的在前，距离相同 ID 小的在前。
func closer(a, b Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.ID < b.ID
}

// neighborHeap 是以“最远”为堆顶的大顶堆，用于保留最近的 k 个。
type neighborHeap []Neighbor

func (h neighborHeap) Len() int           { return len(h) }
func (h neighborHeap) Less(i, j int) bool { return closer(h[j], h[i]) }
func (h neighborHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x any)        { *h = append(*h, x.(Neighbor)) }
func (h *neighborHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}

// Normalize 返回单位向量副本；零向量返回全 0 副本。
func Normalize(v []float64) []float64 {
	out := make([]float64, len(v))
	var norm float64
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return out
	}
	norm = math.Sqrt(norm)
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// Cosine 计算余弦相似度，任一向量为零向量或维度不同时返回 0。
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var ab, aa, bb float64
	for i := range a {
		ab += a[i] * b[i]
		aa += a[i] * a[i]
		bb += b[i] * b[i]
	}
	if aa == 0 || bb == 0 {
		return 0
	}
	return ab / (math.Sqrt(aa) * math.Sqrt(bb))
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
