package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameCapturesVerified     = "captures_verified_total"
	MetricNameCapturesRejected     = "captures_rejected_total"
	MetricNamePointsAwarded        = "points_awarded_total"
	MetricNamePointsSpent          = "points_spent_total"
	MetricNamePurchasesCompleted   = "purchases_completed_total"
	MetricNameReservationConflicts = "stock_reservation_conflicts_total"
	MetricNameAntiCheatFailOpen    = "anticheat_fail_open_total"
	MetricNameSideEffectFailures   = "side_effect_failures_total"
	MetricNameSideEffectsDropped   = "side_effects_dropped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextCapturesVerified     = "Total number of verified prize captures"
	HelpTextCapturesRejected     = "Total number of rejected capture attempts by reason code"
	HelpTextPointsAwarded        = "Total points awarded through captures"
	HelpTextPointsSpent          = "Total points spent in the marketplace"
	HelpTextPurchasesCompleted   = "Total number of completed marketplace purchases"
	HelpTextReservationConflicts = "Total number of stock reservations lost to a concurrent request"
	HelpTextAntiCheatFailOpen    = "Total number of attempts allowed through because the anti-cheat state store was unreachable"
	HelpTextSideEffectFailures   = "Total number of failed post-commit side-effect tasks by task type"
	HelpTextSideEffectsDropped   = "Total number of side-effect tasks dropped because the queue was full"
)

// Label names
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelType   = "type"
	LabelReason = "reason"
	LabelTask   = "task"
)

// HTTPLatencyBuckets are the histogram buckets for request latency
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
