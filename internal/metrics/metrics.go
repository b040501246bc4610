// Package metrics defines the Prometheus collectors for task completion,
// XP, store retries, badges, and inactive goals.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "momentum"

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// TasksCompleted counts false->true completions. Labels: priority.
	TasksCompleted *prometheus.CounterVec
	XPAwarded      prometheus.Counter
	StoreRetries   prometheus.Counter
	// BadgesEarned counts newly earned badges. Labels: badge.
	BadgesEarned  *prometheus.CounterVec
	InactiveGoals prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		TasksCompleted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_completed_total",
			Help:      "Tasks marked completed, by priority",
		}, []string{"priority"}),
		XPAwarded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "xp_awarded_total",
			Help:      "XP awarded to goals for completed tasks",
		}),
		StoreRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_write_retries_total",
			Help:      "Store writes retried after a failed attempt",
		}),
		BadgesEarned: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "badges_earned_total",
			Help:      "Badges newly earned by goals, by badge",
		}, []string{"badge"}),
		InactiveGoals: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inactive_goals",
			Help:      "Goals currently past the inactivity threshold",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// TaskCompleted records one completion and the XP it earned.
func (m *Metrics) TaskCompleted(priority string, xp int) {
	if m == nil {
		return
	}
	m.TasksCompleted.WithLabelValues(priority).Inc()
	m.XPAwarded.Add(float64(xp))
}

// BadgeEarned records a newly earned badge.
func (m *Metrics) BadgeEarned(badge string) {
	if m == nil {
		return
	}
	m.BadgesEarned.WithLabelValues(badge).Inc()
}

// StoreRetry records a retried store write.
func (m *Metrics) StoreRetry() {
	if m == nil {
		return
	}
	m.StoreRetries.Inc()
}

// SetInactiveGoals publishes the current inactive-goal count.
func (m *Metrics) SetInactiveGoals(n int) {
	if m == nil {
		return
	}
	m.InactiveGoals.Set(float64(n))
}
