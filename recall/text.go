package recall

import (
	"maps"
	"slices"
	"strings"

	"github.com/rushteam/gamerec/catalog"
	"github.com/rushteam/gamerec/vector"
)

// maxPhraseTokens 是匹配标题/类型短语时的最长词数。
const maxPhraseTokens = 8

// phraseHit 是短语表中的一项：类型/标签词，或一组同名游戏。
type phraseHit struct {
	term  string
	games []int64
}

// TextQuery 是自由文本编码的结果。
type TextQuery struct {
	Vector []float64 // 命中词/标题的向量中心，无命中时为 nil
	Terms  []string  // 命中的类型/标签（归一化写法），按出现顺序
	Titles []int64   // 文本中提到的游戏
}

// TextEncoder 把自由文本编码到目录内容向量空间。
//
// 词表来自目录中出现的全部类型/标签及其同义词，外加游戏标题；
// 文本按整词做最长匹配，每个命中的类型/标签贡献拥有该词的游戏的单位向量中心，
// 每个命中的标题贡献该游戏的单位向量，查询向量是所有命中的平均。
// 构建后只读，随目录快照一起替换。
type TextEncoder struct {
	phrases   map[string]phraseHit
	centroids map[string][]float64
	units     map[int64][]float64
	dim       int
}

// NewTextEncoder 为目录构建文本编码器。
func NewTextEncoder(cat *catalog.Catalog) *TextEncoder {
	enc := &TextEncoder{
		phrases:   make(map[string]phraseHit),
		centroids: make(map[string][]float64),
		units:     make(map[int64][]float64, cat.Len()),
		dim:       cat.Dim(),
	}

	sums := make(map[string][]float64)
	for g := range cat.All() {
		unit := vector.Normalize(g.Vector)
		enc.units[g.ID] = unit
		// 同一个词可能同时出现在类型与标签中，只计一次
		for _, term := range catalog.NormalizeTerms(slices.Concat(g.Genres, g.Tags)) {
			sum, ok := sums[term]
			if !ok {
				sum = make([]float64, len(unit))
				sums[term] = sum
			}
			for i, x := range unit {
				sum[i] += x
			}
		}
	}
	for _, term := range slices.Sorted(maps.Keys(sums)) {
		enc.centroids[term] = vector.Normalize(sums[term])
		p := catalog.Phrase(term)
		if _, taken := enc.phrases[p]; !taken {
			enc.phrases[p] = phraseHit{term: term}
		}
	}
	for alias, canonical := range catalog.Synonyms() {
		if _, ok := sums[canonical]; !ok {
			continue
		}
		p := catalog.Phrase(alias)
		if _, taken := enc.phrases[p]; !taken {
			enc.phrases[p] = phraseHit{term: canonical}
		}
	}

	// 标题：类型/标签优先；过短的单词标题容易误命中，跳过
	for g := range cat.All() {
		p := catalog.Phrase(g.Title)
		if p == "" || (!strings.Contains(p, " ") && len(p) < 4) {
			continue
		}
		hit, taken := enc.phrases[p]
		if taken && hit.term != "" {
			continue
		}
		hit.games = append(hit.games, g.ID)
		enc.phrases[p] = hit
	}
	return enc
}

// Encode 编码自由文本。结果与词表遍历顺序无关：文本从左到右扫描，每个位置取最长命中。
func (enc *TextEncoder) Encode(text string) TextQuery {
	var q TextQuery
	tokens := strings.Fields(catalog.Phrase(text))
	if len(tokens) == 0 || enc.dim == 0 {
		return q
	}

	var (
		sum  = make([]float64, enc.dim)
		hits int
		seen = make(map[string]struct{})
	)
	add := func(unit []float64) {
		for i, x := range unit {
			sum[i] += x
		}
		hits++
	}

	for i := 0; i < len(tokens); {
		matched := 0
		for n := min(maxPhraseTokens, len(tokens)-i); n >= 1; n-- {
			hit, ok := enc.phrases[strings.Join(tokens[i:i+n], " ")]
			if !ok {
				continue
			}
			matched = n
			if hit.term != "" {
				if _, dup := seen[hit.term]; !dup {
					seen[hit.term] = struct{}{}
					q.Terms = append(q.Terms, hit.term)
					add(enc.centroids[hit.term])
				}
			}
			for _, id := range hit.games {
				if !slices.Contains(q.Titles, id) {
					q.Titles = append(q.Titles, id)
					add(enc.units[id])
				}
			}
			break
		}
		if matched == 0 {
			matched = 1
		}
		i += matched
	}

	if hits == 0 {
		return q
	}
	for i := range sum {
		sum[i] /= float64(hits)
	}
	q.Vector = sum
	return q
}

// Vocabulary 返回词表大小（短语数），用于日志。
func (enc *TextEncoder) Vocabulary() int { return len(enc.phrases) }

// Terms 返回可识别的类型/标签，升序。
func (enc *TextEncoder) Terms() []string {
	return slices.Sorted(maps.Keys(enc.centroids))
}
