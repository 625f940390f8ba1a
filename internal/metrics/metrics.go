// Package metrics defines the Prometheus instrumentation for the intake
// chat service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values shared by the counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics holds all service-level collectors. A nil *Metrics is valid and
// turns every record call into a no-op, so modules can run uninstrumented
// in tests.
type Metrics struct {
	FlowTransitions *prometheus.CounterVec
	Submissions     *prometheus.CounterVec
	SongSearches    *prometheus.CounterVec
	SubmitDuration  prometheus.Histogram
}

// New creates the collector set.
func New() *Metrics {
	return &Metrics{
		FlowTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "intakebot",
				Subsystem: "flow",
				Name:      "transitions_total",
				Help:      "Total number of successful flow step transitions",
			},
			[]string{"step"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "intakebot",
				Subsystem: "pipeline",
				Name:      "submissions_total",
				Help:      "Total number of candidature submissions by outcome",
			},
			[]string{"outcome"},
		),
		SongSearches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "intakebot",
				Subsystem: "songs",
				Name:      "searches_total",
				Help:      "Total number of song catalog lookups by outcome",
			},
			[]string{"outcome"},
		),
		SubmitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "intakebot",
				Subsystem: "pipeline",
				Name:      "submit_duration_seconds",
				Help:      "Submission round-trip duration to the mail relay",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// Register registers all collectors with the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.FlowTransitions, m.Submissions, m.SongSearches, m.SubmitDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordTransition counts a successful transition into step.
func (m *Metrics) RecordTransition(step string) {
	if m == nil {
		return
	}
	m.FlowTransitions.WithLabelValues(step).Inc()
}

// RecordSubmission counts one submission with the given outcome.
func (m *Metrics) RecordSubmission(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
	m.SubmitDuration.Observe(seconds)
}

// RecordSongSearch counts one catalog lookup with the given outcome.
func (m *Metrics) RecordSongSearch(outcome string) {
	if m == nil {
		return
	}
	m.SongSearches.WithLabelValues(outcome).Inc()
}
