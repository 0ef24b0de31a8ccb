// Package metrics 定义推荐引擎的 Prometheus 指标。
//
// 指标分类：
//   - 请求：按状态与结果标签计数、耗时直方图
//   - 事件：按信号类型计数
//   - 目录：当前游戏数、重载次数
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendRequests 按状态（COLD_START/TEXT_ONLY/WARM/FILTER_ONLY）与结果标签计数。
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"state", "tag"},
	)

	// RecommendDuration 推荐耗时。
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamerec_recommend_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"state"},
	)

	// RecommendDegraded 降级次数（deadline / error）。
	RecommendDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_recommend_degraded_total",
			Help: "Total number of recommendations answered by the popularity fallback after a failure",
		},
		[]string{"reason"},
	)

	// EventsRecorded 按信号类型计数。
	EventsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_events_recorded_total",
			Help: "Total number of recorded user interaction events",
		},
		[]string{"signal"},
	)

	// CatalogGames 当前目录快照中的游戏数。
	CatalogGames = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamerec_catalog_games",
			Help: "Number of games in the active catalog snapshot",
		},
	)

	// CatalogReloads 目录重载次数（result=ok/error）。
	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_catalog_reloads_total",
			Help: "Total number of catalog reload attempts",
		},
		[]string{"result"},
	)
)

// ObserveRecommend 记录一次推荐请求。
func ObserveRecommend(state, tag string, d time.Duration) {
	RecommendRequests.WithLabelValues(state, tag).Inc()
	RecommendDuration.WithLabelValues(state).Observe(d.Seconds())
}

// ObserveReload 记录一次目录重载。
func ObserveReload(games int, err error) {
	if err != nil {
		CatalogReloads.WithLabelValues("error").Inc()
		return
	}
	CatalogReloads.WithLabelValues("ok").Inc()
	CatalogGames.Set(float64(games))
}
