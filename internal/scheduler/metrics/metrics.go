package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the reminder scheduler.
type Metrics struct {
	RemindersSent  prometheus.Counter
	Escalations    prometheus.Counter
	ClaimConflicts prometheus.Counter
	SendFailures   prometheus.Counter
}

// New creates and registers all scheduler metrics.
func New() *Metrics {
	return &Metrics{
		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachweis_scheduler_reminders_sent_total",
			Help: "Routine reminder notifications sent",
		}),
		Escalations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachweis_scheduler_escalations_total",
			Help: "Escalation notifications sent",
		}),
		ClaimConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachweis_scheduler_claim_conflicts_total",
			Help: "Job claims lost to a concurrent tick",
		}),
		SendFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nachweis_scheduler_send_failures_total",
			Help: "Notification sends that failed and were rescheduled",
		}),
	}
}

func (m *Metrics) IncReminder() {
	if m != nil {
		m.RemindersSent.Inc()
	}
}

func (m *Metrics) IncEscalation() {
	if m != nil {
		m.Escalations.Inc()
	}
}

func (m *Metrics) IncClaimConflict() {
	if m != nil {
		m.ClaimConflicts.Inc()
	}
}

func (m *Metrics) IncSendFailure() {
	if m != nil {
		m.SendFailures.Inc()
	}
}
