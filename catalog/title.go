package catalog

import (
	"slices"
	"strings"
	"unicode"

	"github.com/rushteam/gamerec/core"
)

// editionWords 在比较标题时忽略，使不同版本归为同一款游戏。
var editionWords = map[string]struct{}{
	"edition": {}, "remastered": {}, "definitive": {}, "goty": {}, "deluxe": {},
	"complete": {}, "ultimate": {}, "enhanced": {}, "anniversary": {}, "collection": {},
	"the": {},
}

func titleTokens(title string) []string {
	return strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TitleKey 返回用于近似去重的标题键：小写、去标点、去版本词、按词排序。
// "DOOM Eternal - Deluxe Edition" 与 "Doom Eternal" 得到相同的键。
func TitleKey(title string) string {
	toks := titleTokens(title)
	out := toks[:0]
	for _, t := range toks {
		if _, ok := editionWords[t]; ok {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		out = titleTokens(title)
	}
	slices.Sort(out)
	return strings.Join(out, " ")
}

// tokenSimilarity 是两组词的 Dice 系数（0-1），对词序不敏感。
func tokenSimilarity(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	counts := make(map[string]int, len(a))
	for _, t := range a {
		counts[t]++
	}
	common := 0
	for _, t := range b {
		if counts[t] > 0 {
			counts[t]--
			common++
		}
	}
	return 2 * float64(common) / float64(len(a)+len(b))
}

// MinTitleSimilarity 是标题模糊匹配的最低相似度。
const MinTitleSimilarity = 0.8

// MatchTitle 按标题查找游戏：先精确匹配标题键，再按词相似度取最优（不低于 MinTitleSimilarity）。
// 相似度相同时取 ID 较小者。
func (c *Catalog) MatchTitle(title string) (*core.Game, error) {
	key := TitleKey(title)
	if key == "" {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "empty title")
	}
	if games := c.byTitle[key]; len(games) > 0 {
		return games[0], nil
	}

	query := strings.Fields(key)
	var (
		best      *core.Game
		bestScore float64
	)
	for _, g := range c.games {
		s := tokenSimilarity(query, strings.Fields(TitleKey(g.Title)))
		if s > bestScore {
			best, bestScore = g, s
		}
	}
	if best == nil || bestScore < MinTitleSimilarity {
		return nil, core.NewDomainError(core.ModuleCatalog, core.ErrorCodeNotFound, "no game matches title: "+title)
	}
	return best, nil
}

// Phrase 把文本切成小写的字母数字词并以单个空格连接，
// 用于在自由文本中按整词匹配标题与类型/标签："Co-op RPG!" → "co op rpg"。
func Phrase(s string) string {
	return strings.Join(titleTokens(s), " ")
}
