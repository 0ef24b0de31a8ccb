package catalog

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/rushteam/gamerec/core"
)

// termSynonyms 把常见缩写/别名归一到目录里使用的写法。
var termSynonyms = map[string]string{
	"rpg":                "role-playing",
	"rpgs":               "role-playing",
	"role playing":       "role-playing",
	"roleplaying":        "role-playing",
	"fps":                "shooter",
	"first-person":       "first person",
	"shooters":           "shooter",
	"coop":               "co-op",
	"co op":              "co-op",
	"cooperative":        "co-op",
	"sim":                "simulation",
	"simulator":          "simulation",
	"roguelite":          "roguelike",
	"rogue-like":         "roguelike",
	"rogue-lite":         "roguelike",
	"f2p":                "free to play",
	"free-to-play":       "free to play",
	"mmo":                "massively multiplayer",
	"mmorpg":             "massively multiplayer",
	"platformers":        "platformer",
	"puzzles":            "puzzle",
	"strategies":         "strategy",
	"rts":                "real-time strategy",
	"real time strategy": "real-time strategy",
	"metroidvanias":      "metroidvania",
	"openworld":          "open world",
	"open-world":         "open world",
	"horror games":       "horror",
}

// NormalizeTerm 归一化类型/标签：小写、去首尾空白、合并空白、同义词替换。
func NormalizeTerm(s string) string {
	s = strings.Join(strings.Fields(strings.ToLower(s)), " ")
	if syn, ok := termSynonyms[s]; ok {
		return syn
	}
	return s
}

// Synonyms 按别名升序遍历同义词表（别名 → 归一化写法）。
func Synonyms() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, alias := range slices.Sorted(maps.Keys(termSynonyms)) {
			if !yield(alias, termSynonyms[alias]) {
				return
			}
		}
	}
}

// NormalizeTerms 归一化并去重，保留首次出现的顺序，空值被丢弃。
func NormalizeTerms(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		t := NormalizeTerm(s)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// NormalizePlatform 将平台别名映射到 core 中的平台常量，未知平台返回 ""。
func NormalizePlatform(s string) string {
	switch strings.Join(strings.Fields(strings.ToLower(s)), " ") {
	case "win", "windows", "pc":
		return core.PlatformWindows
	case "mac", "macos", "osx", "os x":
		return core.PlatformMac
	case "linux", "steamos", "steam os":
		return core.PlatformLinux
	case "steam_deck", "steam deck", "steamdeck", "deck":
		return core.PlatformSteamDeck
	}
	return ""
}

// NormalizePlatforms 归一化平台列表，丢弃未知值。
func NormalizePlatforms(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		p := NormalizePlatform(s)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// dlcMarkers 出现在标题中即视为附加内容而非独立游戏。
var dlcMarkers = []string{
	"soundtrack", "dlc", "bonus content", "expansion", "season pass", "artbook", "art book",
}

// IsDLCTitle 判断标题是否为 DLC、原声、扩展包或 Mod。
func IsDLCTitle(title string) bool {
	t := strings.ToLower(title)
	for _, m := range dlcMarkers {
		if strings.Contains(t, m) {
			return true
		}
	}
	for _, tok := range titleTokens(title) {
		if tok == "mod" {
			return true
		}
	}
	return false
}
