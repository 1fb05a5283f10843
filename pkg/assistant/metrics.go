package assistant

import (
	// Packages
	prometheus "github.com/prometheus/client_golang/prometheus"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type metrics struct {
	threadsCreated  prometheus.Counter
	threadsDeleted  prometheus.Counter
	messages        *prometheus.CounterVec
	runsCompleted   *prometheus.CounterVec
	runsFailed      *prometheus.CounterVec
	runsNoCandidate prometheus.Counter
	tokens          *prometheus.CounterVec
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	metricsNamespace = "gemini"
	metricsSubsystem = "assistant"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func newMetrics() *metrics {
	return &metrics{
		threadsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "threads_created_total",
			Help:      "Number of threads created",
		}),
		threadsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "threads_deleted_total",
			Help:      "Number of threads deleted",
		}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "messages_total",
			Help:      "Number of messages appended to threads, by role",
		}, []string{"role"}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "runs_completed_total",
			Help:      "Number of completed runs, by model",
		}, []string{"model"}),
		runsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "runs_failed_total",
			Help:      "Number of runs which failed at the provider, by model",
		}, []string{"model"}),
		runsNoCandidate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "runs_no_candidates_total",
			Help:      "Number of completed runs where the model returned no candidates",
		}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "tokens_total",
			Help:      "Number of tokens consumed by runs, by direction",
		}, []string{"direction"}),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.threadsCreated, m.threadsDeleted, m.messages,
		m.runsCompleted, m.runsFailed, m.runsNoCandidate, m.tokens,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
