// Package conv 提供宽松的类型转换工具，用于解析目录原始记录中类型不固定的字段。
package conv

import (
	"regexp"
	"strconv"
	"strings"
)

// ToFloat64 将 any 转为 float64。
// 支持各类数值与数字字符串；bool 视为 1.0/0.0。
func ToFloat64(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case bool:
		if val {
			return 1.0, true
		}
		return 0.0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToInt 将 any 转为 int。
func ToInt(v any) (int, bool) {
	f, ok := ToFloat64(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

var priceNumber = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)?`)

// ParsePrice 解析价格字段：数字、"$9.99"、"9,99€"、"Free" / "Free to Play"。
// 无法识别时返回 (0, false)。
func ParsePrice(v any) (float64, bool) {
	if f, ok := ToFloat64(v); ok {
		return f, f >= 0
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	if strings.HasPrefix(s, "free") {
		return 0, true
	}
	m := priceNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var yearPattern = regexp.MustCompile(`\b(19[7-9][0-9]|2[0-9]{3})\b`)

// YearFromDate 从 "Oct 21, 2008"、"2008-10-21"、"2008" 等格式中提取年份。
func YearFromDate(s string) (int, bool) {
	m := yearPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// ConvertSlice 将 []T 按 convert 转为 []U，convert 返回 false 的元素被跳过。
func ConvertSlice[T, U any](s []T, convert func(T) (U, bool)) []U {
	if s == nil {
		return nil
	}
	out := make([]U, 0, len(s))
	for _, v := range s {
		if u, ok := convert(v); ok {
			out = append(out, u)
		}
	}
	return out
}
