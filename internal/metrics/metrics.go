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
	CapturesVerified = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCapturesVerified,
			Help: HelpTextCapturesVerified,
		},
	)

	CapturesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCapturesRejected,
			Help: HelpTextCapturesRejected,
		},
		[]string{LabelReason},
	)

	PointsAwarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsAwarded,
			Help: HelpTextPointsAwarded,
		},
	)

	PointsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsSpent,
			Help: HelpTextPointsSpent,
		},
	)

	PurchasesCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePurchasesCompleted,
			Help: HelpTextPurchasesCompleted,
		},
	)

	ReservationConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameReservationConflicts,
			Help: HelpTextReservationConflicts,
		},
	)

	AntiCheatFailOpen = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAntiCheatFailOpen,
			Help: HelpTextAntiCheatFailOpen,
		},
	)

	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSideEffectFailures,
			Help: HelpTextSideEffectFailures,
		},
		[]string{LabelTask},
	)

	SideEffectsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSideEffectsDropped,
			Help: HelpTextSideEffectsDropped,
		},
	)
)
