package core

import "slices"

// 平台常量
const (
	PlatformWindows   = "windows"
	PlatformMac       = "mac"
	PlatformLinux     = "linux"
	PlatformSteamDeck = "steam_deck"
)

// Game 是目录中的一个游戏。加载后不可变，所有请求共享同一实例。
//
// Genres / Tags 在加载时已归一化（小写、同义词合并）；
// Vector 是固定维度的内容向量，维度由所在目录决定。
type Game struct {
	ID         int64
	Title      string
	Genres     []string
	Tags       []string
	Vector     []float64
	Popularity float64

	Price         float64
	Platforms     []string
	ReleaseYear   int
	PositiveRatio float64 // 好评率（0-100）
	UserReviews   int
	AvgPlaytime   int  // 平均游玩时长（分钟），0 表示未知
	DLC           bool // 由标题关键字推断：DLC、原声、扩展包、Mod 等
}

// HasGenre 判断游戏是否包含某个类型（已归一化的小写值）。
func (g *Game) HasGenre(genre string) bool {
	return slices.Contains(g.Genres, genre)
}

// HasTag 判断游戏是否包含某个标签。
func (g *Game) HasTag(tag string) bool {
	return slices.Contains(g.Tags, tag)
}

// HasTerm 判断类型或标签中是否出现该词。
// 原始数据中类型与标签经常混用，按任意一方命中处理。
func (g *Game) HasTerm(term string) bool {
	return g.HasGenre(term) || g.HasTag(term)
}

// SupportsPlatform 判断游戏是否支持指定平台。
func (g *Game) SupportsPlatform(platform string) bool {
	return slices.Contains(g.Platforms, platform)
}

// GameRecord 是目录加载协作方提供的原始记录。
// Price 可以是数字或 "$9.99"、"Free" 之类的字符串；Vector 必须已向量化。
type GameRecord struct {
	ID            int64     `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Genres        []string  `json:"genres" yaml:"genres"`
	Tags          []string  `json:"tags" yaml:"tags"`
	Price         any       `json:"price,omitempty" yaml:"price,omitempty"`
	Platforms     []string  `json:"platforms,omitempty" yaml:"platforms,omitempty"`
	ReleaseDate   string    `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	ReleaseYear   int       `json:"release_year,omitempty" yaml:"release_year,omitempty"`
	PositiveRatio float64   `json:"positive_ratio,omitempty" yaml:"positive_ratio,omitempty"`
	UserReviews   int       `json:"user_reviews,omitempty" yaml:"user_reviews,omitempty"`
	AvgPlaytime   int       `json:"average_playtime,omitempty" yaml:"average_playtime,omitempty"`
	Popularity    float64   `json:"popularity" yaml:"popularity"`
	Vector        []float64 `json:"vector" yaml:"vector"`
}
