package core

import (
	"math"
	"time"
)

// SignalWeights 定义各信号对偏好的贡献权重，负值表示“推远”。
// rated 的实际权重为 w[rated] * (rating-3)/2，即 1 分 -1、3 分 0、5 分 +1。
type SignalWeights map[Signal]float64

// DefaultSignalWeights 是默认信号权重。
var DefaultSignalWeights = SignalWeights{
	SignalViewed:    0.3,
	SignalLiked:     1.0,
	SignalPurchased: 0.8,
	SignalRated:     1.0,
	SignalDisliked:  -1.0,
}

// Of 返回单条事件的权重。
func (w SignalWeights) Of(ev Event) float64 {
	if ev.Signal == SignalRated {
		if ev.Rating == nil {
			return 0
		}
		return w[SignalRated] * (*ev.Rating - 3) / 2
	}
	return w[ev.Signal]
}

// WeightedCentroid 按信号权重对事件关联的向量做加权平均：sum(w·v) / sum(|w|)。
//
// vectorOf 返回 nil 的事件（游戏不在目录或没有向量）被跳过。
// halfLife > 0 时按半衰期衰减，年龄相对于序列中最新事件的时间戳计算，与当前时间无关。
// used 为实际参与计算的事件数；没有可用事件或权重全为 0 时返回 (nil, used)。
func WeightedCentroid(events []Event, w SignalWeights, halfLife time.Duration, vectorOf func(int64) []float64) (vec []float64, used int) {
	if w == nil {
		w = DefaultSignalWeights
	}
	var latest time.Time
	if halfLife > 0 {
		for _, ev := range events {
			if ev.Timestamp.After(latest) {
				latest = ev.Timestamp
			}
		}
	}

	var total float64
	for _, ev := range events {
		v := vectorOf(ev.GameID)
		if len(v) == 0 {
			continue
		}
		if vec == nil {
			vec = make([]float64, len(v))
		} else if len(v) != len(vec) {
			continue
		}
		used++

		weight := w.Of(ev)
		if halfLife > 0 {
			age := latest.Sub(ev.Timestamp)
			weight *= math.Pow(0.5, float64(age)/float64(halfLife))
		}
		if weight == 0 {
			continue
		}
		for i, x := range v {
			vec[i] += weight * x
		}
		total += math.Abs(weight)
	}
	if total == 0 {
		return nil, used
	}
	for i := range vec {
		vec[i] /= total
	}
	return vec, used
}
