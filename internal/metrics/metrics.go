// Package metrics exposes reconciliation and transport counters on a
// prometheus registerer.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	MessagesReconciled  prometheus.Counter
	DuplicatesAbsorbed  prometheus.Counter
	OrphanEvents        prometheus.Counter
	MalformedEvents     prometheus.Counter
	OptimisticSubmits   prometheus.Counter
	OptimisticRollbacks prometheus.Counter
	EmitsDropped        *prometheus.CounterVec
}

// New registers the counter set with reg; pass
// prometheus.DefaultRegisterer outside tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesReconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zap_client_messages_reconciled_total",
			Help: "Authoritative messages merged into the conversation cache.",
		}),
		DuplicatesAbsorbed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zap_client_duplicate_events_total",
			Help: "Inbound events ignored because the message id was already cached.",
		}),
		OrphanEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zap_client_orphan_events_total",
			Help: "Inbound events referencing an unknown message or conversation.",
		}),
		MalformedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zap_client_malformed_events_total",
			Help: "Inbound events dropped because the payload failed to decode.",
		}),
		OptimisticSubmits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zap_client_optimistic_submits_total",
			Help: "Locally submitted optimistic messages.",
		}),
		OptimisticRollbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zap_client_optimistic_rollbacks_total",
			Help: "Optimistic messages rolled back after a failed send.",
		}),
		EmitsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zap_client_emits_dropped_total",
			Help: "Outbound emits dropped, by reason.",
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.MessagesReconciled,
			m.DuplicatesAbsorbed,
			m.OrphanEvents,
			m.MalformedEvents,
			m.OptimisticSubmits,
			m.OptimisticRollbacks,
			m.EmitsDropped,
		)
	}
	return m
}

// Nop returns an unregistered metrics set for tests and optional wiring.
func Nop() *Metrics {
	return New(nil)
}

const (
	DropReasonNotConnected = "not_connected"
	DropReasonRateLimited  = "rate_limited"
)
