package utils

import "strings"

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// Value 与 Source 的语义由调用方定义，例如 strategy=content / source=recall.content。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"`
}

// NewLabel 创建一个 Label。
func NewLabel(value, source string) Label {
	return Label{Value: value, Source: source}
}

// MergeLabel 合并同名 Label，保留历史来源：
// - Value: 以 '|' 累积，已出现的值不重复追加
// - Source: 以 ',' 累积，同样去重
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}
	return Label{
		Value:  appendUnique(existing.Value, incoming.Value, "|"),
		Source: appendUnique(existing.Source, incoming.Source, ","),
	}
}

// Values 返回 Label 中累积的所有值。
func (l Label) Values() []string {
	if l.Value == "" {
		return nil
	}
	return strings.Split(l.Value, "|")
}

func appendUnique(joined, v, sep string) string {
	if v == "" {
		return joined
	}
	if joined == "" {
		return v
	}
	for _, part := range strings.Split(joined, sep) {
		if part == v {
			return joined
		}
	}
	return joined + sep + v
}
