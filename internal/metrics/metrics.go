package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Grid metrics
var (
	ItemsPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsPlaced,
			Help: HelpTextItemsPlaced,
		},
		[]string{LabelGrid},
	)

	ItemsDisplaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsDisplaced,
			Help: HelpTextItemsDisplaced,
		},
		[]string{LabelGrid},
	)

	ItemsCombined = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsCombined,
			Help: HelpTextItemsCombined,
		},
		[]string{LabelSourceItem, LabelResultItem},
	)

	ItemsDestroyed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsDestroyed,
			Help: HelpTextItemsDestroyed,
		},
		[]string{LabelReason},
	)
)

// Shop metrics
var (
	ShopRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameShopRefreshes,
			Help: HelpTextShopRefreshes,
		},
	)

	ItemsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsGenerated,
			Help: HelpTextItemsGenerated,
		},
		[]string{LabelRarity},
	)

	RevealsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRevealsCompleted,
			Help: HelpTextRevealsCompleted,
		},
		[]string{LabelRarity},
	)

	RevealQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameRevealQueueDepth,
			Help: HelpTextRevealQueueDepth,
		},
	)

	PhaseChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePhaseChanges,
			Help: HelpTextPhaseChanges,
		},
		[]string{LabelPhase},
	)
)
