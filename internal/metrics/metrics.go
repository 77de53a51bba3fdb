// Package metrics exposes engine activity as Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpggio/eggsim/internal/domain/progression"
)

const namespace = "eggsim"

// Metrics owns a registry with the game collectors.
type Metrics struct {
	registry *prometheus.Registry

	clicks         *prometheus.CounterVec
	clickResource  prometheus.Counter
	purchases      *prometheus.CounterVec
	rejections     *prometheus.CounterVec
	tierUnlocks    *prometheus.CounterVec
	achievements   *prometheus.CounterVec
	prestiges      prometheus.Counter
	offlineCredit  prometheus.Counter
	saves          *prometheus.CounterVec
	resource       prometheus.Gauge
	productionRate prometheus.Gauge
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clicks_total",
			Help:      "Resolved clicks by outcome.",
		}, []string{"outcome"}),
		clickResource: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "click_resource_total",
			Help:      "Resource earned from clicks.",
		}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purchases_total",
			Help:      "Accepted purchases by kind and item.",
		}, []string{"kind", "item"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transition_rejections_total",
			Help:      "Rejected transitions by operation and reason.",
		}, []string{"op", "reason"}),
		tierUnlocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tier_unlocks_total",
			Help:      "Tier unlocks by tier.",
		}, []string{"tier"}),
		achievements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievement_unlocks_total",
			Help:      "Achievement unlocks by achievement.",
		}, []string{"achievement"}),
		prestiges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prestiges_total",
			Help:      "Completed prestige resets.",
		}),
		offlineCredit: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offline_credit_total",
			Help:      "Resource credited for offline time.",
		}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "saves_total",
			Help:      "Save attempts by result.",
		}, []string{"result"}),
		resource: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_resource",
			Help:      "Spendable resource held by the player.",
		}),
		productionRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "production_rate",
			Help:      "Passive resource per second.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.clicks,
		m.clickResource,
		m.purchases,
		m.rejections,
		m.tierUnlocks,
		m.achievements,
		m.prestiges,
		m.offlineCredit,
		m.saves,
		m.resource,
		m.productionRate,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe records one drained engine event.
func (m *Metrics) Observe(ev progression.Event) {
	switch data := ev.Data.(type) {
	case progression.ClickResult:
		outcome := "normal"
		if data.IsCritical {
			outcome = "critical"
		} else if data.IsGolden {
			outcome = "golden"
		}
		m.clicks.WithLabelValues(outcome).Inc()
		m.clickResource.Add(data.Amount)
	case progression.UpgradePurchasedData:
		m.purchases.WithLabelValues("upgrade", string(data.Upgrade)).Inc()
	case progression.ProducerPurchasedData:
		m.purchases.WithLabelValues("producer", string(data.Producer)).Inc()
	case progression.TierUnlockedData:
		m.tierUnlocks.WithLabelValues(string(data.Tier.ID)).Inc()
	case progression.AchievementUnlockedData:
		m.achievements.WithLabelValues(string(data.Achievement.ID)).Inc()
	case progression.PrestigePerformedData:
		m.prestiges.Inc()
	case progression.WelcomeBackData:
		m.offlineCredit.Add(data.Credited)
	}
}

// TransitionRejected implements progression.Recorder.
func (m *Metrics) TransitionRejected(op string, err error) {
	m.rejections.WithLabelValues(op, reason(err)).Inc()
}

// SaveCompleted records the result of a save attempt.
func (m *Metrics) SaveCompleted(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.saves.WithLabelValues(result).Inc()
}

// SetProgress updates the resource and production gauges.
func (m *Metrics) SetProgress(resource, rate float64) {
	m.resource.Set(resource)
	m.productionRate.Set(rate)
}

func reason(err error) string {
	switch {
	case errors.Is(err, progression.ErrUnknownUpgrade), errors.Is(err, progression.ErrUnknownProducer):
		return "unknown_item"
	case errors.Is(err, progression.ErrMaxLevel):
		return "max_level"
	case errors.Is(err, progression.ErrInsufficientResource):
		return "insufficient_resource"
	case errors.Is(err, progression.ErrTierLocked):
		return "tier_locked"
	case errors.Is(err, progression.ErrPrestigeUnavailable):
		return "prestige_unavailable"
	}
	return "other"
}
