package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	PlotActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePlotActions,
			Help: HelpTextPlotActions,
		},
		[]string{LabelAction},
	)

	TheftsAttempted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTheftsAttempted,
			Help: HelpTextTheftsAttempted,
		},
	)

	TheftsSucceeded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTheftsSucceeded,
			Help: HelpTextTheftsSucceeded,
		},
	)

	CoinsStolen = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCoinsStolen,
			Help: HelpTextCoinsStolen,
		},
	)

	LevelUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLevelUps,
			Help: HelpTextLevelUps,
		},
	)

	RealtimeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameRealtimeSessions,
			Help: HelpTextRealtimeSessions,
		},
	)
)
