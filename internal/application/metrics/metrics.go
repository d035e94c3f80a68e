package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the application lifecycle.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	Transitions           *prometheus.CounterVec
	OpinionsIssued        *prometheus.CounterVec
	Rejections            *prometheus.CounterVec
	OperationDuration     *prometheus.HistogramVec
	ChecklistDegraded     prometheus.Counter
	NotificationsSent     prometheus.Counter
	NotificationsFailed   prometheus.Counter
	NotificationsDropped  prometheus.Counter
}

// New creates and registers the collectors with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the collectors with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ApplicationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "bolsas_applications_submitted_total",
			Help: "Total number of applications submitted by candidates",
		}),
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bolsas_status_transitions_total",
			Help: "Accepted status transitions by source and target status",
		}, []string{"from", "to"}),
		OpinionsIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bolsas_opinions_issued_total",
			Help: "Opinions issued by kind",
		}, []string{"kind"}),
		Rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bolsas_operation_rejections_total",
			Help: "Rejected operations by operation and error code",
		}, []string{"operation", "code"}),
		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bolsas_operation_duration_seconds",
			Help:    "Service operation latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"operation"}),
		ChecklistDegraded: factory.NewCounter(prometheus.CounterOpts{
			Name: "bolsas_checklist_degraded_total",
			Help: "Reads served without a document checklist because the collaborator failed",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "bolsas_notifications_delivered_total",
			Help: "Lifecycle notifications delivered to the sink",
		}),
		NotificationsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "bolsas_notifications_failed_total",
			Help: "Lifecycle notifications the sink rejected",
		}),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "bolsas_notifications_dropped_total",
			Help: "Lifecycle notifications discarded because the buffer was full",
		}),
	}
}

// IncrementSubmitted counts one accepted submission.
func (m *Metrics) IncrementSubmitted() {
	if m == nil {
		return
	}
	m.ApplicationsSubmitted.Inc()
}

// IncrementTransition counts one accepted status change.
func (m *Metrics) IncrementTransition(from, to string) {
	if m == nil {
		return
	}
	m.Transitions.WithLabelValues(from, to).Inc()
}

// IncrementOpinion counts one issued opinion.
func (m *Metrics) IncrementOpinion(kind string) {
	if m == nil {
		return
	}
	m.OpinionsIssued.WithLabelValues(kind).Inc()
}

// IncrementRejection counts an operation that returned an error code.
func (m *Metrics) IncrementRejection(operation, code string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(operation, code).Inc()
}

// ObserveOperation records how long an operation took.
func (m *Metrics) ObserveOperation(operation string, started time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// IncrementChecklistDegraded counts a read served without a checklist.
func (m *Metrics) IncrementChecklistDegraded() {
	if m == nil {
		return
	}
	m.ChecklistDegraded.Inc()
}

// EventsDelivered implements events.Observer.
func (m *Metrics) EventsDelivered(n int) {
	if m == nil {
		return
	}
	m.NotificationsSent.Add(float64(n))
}

// EventsFailed implements events.Observer.
func (m *Metrics) EventsFailed(n int) {
	if m == nil {
		return
	}
	m.NotificationsFailed.Add(float64(n))
}

// EventsDropped implements events.Observer.
func (m *Metrics) EventsDropped(n int) {
	if m == nil {
		return
	}
	m.NotificationsDropped.Add(float64(n))
}
