package utils

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ReqCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_request_duration_seconds",
			Help: "Request duration seconds",
		},
		[]string{"method", "path"},
	)

	ErrorCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_errors_total",
			Help: "Total app errors",
		},
		[]string{"handler", "type"},
	)

	PointsAwarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_points_awarded_total",
			Help: "Points awarded to users, by action",
		},
		[]string{"action"},
	)

	PointsRefunded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_points_refunded_total",
			Help: "Points refunded on content deletion, by action",
		},
		[]string{"action"},
	)

	RateLimitRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_rate_limit_rejections_total",
			Help: "Content creations rejected by the hourly rate limiter",
		},
		[]string{"action"},
	)

	AchievementsUnlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_achievements_unlocked_total",
			Help: "Achievements unlocked",
		},
		[]string{"achievement"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(
		ReqCount,
		ReqDuration,
		ErrorCount,
		PointsAwarded,
		PointsRefunded,
		RateLimitRejections,
		AchievementsUnlocked,
	)
}
