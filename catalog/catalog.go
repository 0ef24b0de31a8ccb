// Package catalog 是游戏目录：加载后不可变的内存索引。
//
// 目录只在构建时做完整性校验，之后没有任何修改接口；
// 刷新目录意味着构建新的 *Catalog 并整体替换（见 engine.LoadCatalog 与 Watcher）。
package catalog

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/conv"
)

var versionSeq atomic.Uint64

// Catalog 是一次加载得到的目录快照，可被任意多个请求并发只读。
type Catalog struct {
	games   []*core.Game // 按 ID 升序
	byID    map[int64]*core.Game
	byPop   []*core.Game // 热度降序，热度相同按 ID 升序
	byTitle map[string][]*core.Game
	dim     int
	maxPop  float64
	version uint64
}

// Build 从原始记录构建目录快照。
//
// 以下情况返回 DATA_INTEGRITY 错误，整个目录不可用：
//   - ID 重复
//   - 标题为空
//   - 向量为空、维度与首条记录不一致、包含 NaN/Inf
//   - 热度为负数或非有限值
//   - 价格无法解析
//
// 空输入得到空目录（查询相似度索引时会返回 EMPTY_INDEX）。
func Build(records []core.GameRecord) (*Catalog, error) {
	c := &Catalog{
		games:   make([]*core.Game, 0, len(records)),
		byID:    make(map[int64]*core.Game, len(records)),
		byTitle: make(map[string][]*core.Game),
	}

	for i := range records {
		g, err := c.newGame(&records[i])
		if err != nil {
			return nil, err
		}
		c.byID[g.ID] = g
		c.games = append(c.games, g)
		if g.Popularity > c.maxPop {
			c.maxPop = g.Popularity
		}
	}

	sort.Slice(c.games, func(i, j int) bool { return c.games[i].ID < c.games[j].ID })

	c.byPop = slices.Clone(c.games)
	sort.SliceStable(c.byPop, func(i, j int) bool {
		a, b := c.byPop[i], c.byPop[j]
		if a.Popularity != b.Popularity {
			return a.Popularity > b.Popularity
		}
		return a.ID < b.ID
	})

	for _, g := range c.games {
		key := TitleKey(g.Title)
		c.byTitle[key] = append(c.byTitle[key], g)
	}

	c.version = versionSeq.Add(1)
	return c, nil
}

func integrityError(id int64, format string, args ...any) error {
	msg := fmt.Sprintf("game %d: ", id) + fmt.Sprintf(format, args...)
	return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeDataIntegrity, msg)
}

func (c *Catalog) newGame(r *core.GameRecord) (*core.Game, error) {
	if _, dup := c.byID[r.ID]; dup {
		return nil, integrityError(r.ID, "duplicate id")
	}
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return nil, integrityError(r.ID, "missing title")
	}

	// 1. 向量校验
	if len(r.Vector) == 0 {
		return nil, integrityError(r.ID, "missing content vector")
	}
	if c.dim == 0 {
		c.dim = len(r.Vector)
	} else if len(r.Vector) != c.dim {
		return nil, integrityError(r.ID, "vector dimension %d, want %d", len(r.Vector), c.dim)
	}
	for _, v := range r.Vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, integrityError(r.ID, "non-finite vector value")
		}
	}

	// 2. 数值字段
	if r.Popularity < 0 || math.IsNaN(r.Popularity) || math.IsInf(r.Popularity, 0) {
		return nil, integrityError(r.ID, "invalid popularity %v", r.Popularity)
	}
	var price float64
	if r.Price != nil {
		p, ok := conv.ParsePrice(r.Price)
		if !ok {
			return nil, integrityError(r.ID, "unparseable price %v", r.Price)
		}
		price = p
	}
	year := r.ReleaseYear
	if year == 0 && r.ReleaseDate != "" {
		year, _ = conv.YearFromDate(r.ReleaseDate)
	}

	return &core.Game{
		ID:            r.ID,
		Title:         title,
		Genres:        NormalizeTerms(r.Genres),
		Tags:          NormalizeTerms(r.Tags),
		Vector:        slices.Clone(r.Vector),
		Popularity:    r.Popularity,
		Price:         price,
		Platforms:     NormalizePlatforms(r.Platforms),
		ReleaseYear:   year,
		PositiveRatio: r.PositiveRatio,
		UserReviews:   r.UserReviews,
		AvgPlaytime:   r.AvgPlaytime,
		DLC:           IsDLCTitle(title),
	}, nil
}

// Lookup 按 ID 查找游戏，不存在时返回 NOT_FOUND。
func (c *Catalog) Lookup(id int64) (*core.Game, error) {
	if g, ok := c.byID[id]; ok {
		return g, nil
	}
	return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotFound, fmt.Sprintf("game %d not found", id))
}

// Contains 判断 ID 是否在目录中。
func (c *Catalog) Contains(id int64) bool {
	_, ok := c.byID[id]
	return ok
}

// All 按 ID 升序遍历全部游戏，可重复遍历。
func (c *Catalog) All() iter.Seq[*core.Game] {
	return func(yield func(*core.Game) bool) {
		for _, g := range c.games {
			if !yield(g) {
				return
			}
		}
	}
}

// Filter 按 ID 升序遍历满足谓词的游戏，惰性求值。
func (c *Catalog) Filter(pred func(*core.Game) bool) iter.Seq[*core.Game] {
	return func(yield func(*core.Game) bool) {
		for _, g := range c.games {
			if pred != nil && !pred(g) {
				continue
			}
			if !yield(g) {
				return
			}
		}
	}
}

// ByPopularity 按热度降序（热度相同按 ID 升序）遍历全部游戏。
func (c *Catalog) ByPopularity() iter.Seq[*core.Game] {
	return func(yield func(*core.Game) bool) {
		for _, g := range c.byPop {
			if !yield(g) {
				return
			}
		}
	}
}

// Len 返回游戏数。
func (c *Catalog) Len() int { return len(c.games) }

// Dim 返回内容向量维度，空目录为 0。
func (c *Catalog) Dim() int { return c.dim }

// MaxPopularity 返回目录中的最大热度，用于把热度归一化到 [0,1]。
func (c *Catalog) MaxPopularity() float64 { return c.maxPop }

// Version 返回快照序号，每次 Build 单调递增，用于缓存失效。
func (c *Catalog) Version() uint64 { return c.version }

// Vector 返回游戏的内容向量，游戏不存在时返回 nil。
func (c *Catalog) Vector(id int64) []float64 {
	if g, ok := c.byID[id]; ok {
		return g.Vector
	}
	return nil
}

// Records 把快照还原成原始记录，用于持久化。
func (c *Catalog) Records() []core.GameRecord {
	out := make([]core.GameRecord, len(c.games))
	for i, g := range c.games {
		out[i] = core.GameRecord{
			ID:            g.ID,
			Title:         g.Title,
			Genres:        slices.Clone(g.Genres),
			Tags:          slices.Clone(g.Tags),
			Price:         g.Price,
			Platforms:     slices.Clone(g.Platforms),
			ReleaseYear:   g.ReleaseYear,
			PositiveRatio: g.PositiveRatio,
			UserReviews:   g.UserReviews,
			AvgPlaytime:   g.AvgPlaytime,
			Popularity:    g.Popularity,
			Vector:        slices.Clone(g.Vector),
		}
	}
	return out
}
