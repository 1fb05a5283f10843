package assistant

import (
	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	prometheus "github.com/prometheus/client_golang/prometheus"
	trace "go.opentelemetry.io/otel/trace"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for configuring a manager
type Opt func(*Manager) error

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithThreadStore sets the thread registry. If not set, an in-memory store
// is used.
func WithThreadStore(store schema.ThreadStore) Opt {
	return func(m *Manager) error {
		if store == nil {
			return gemini.ErrBadParameter.With("thread store is required")
		}
		m.threads = store
		return nil
	}
}

// WithRunStore sets the run store. If not set, an in-memory store is used.
func WithRunStore(store schema.RunStore) Opt {
	return func(m *Manager) error {
		if store == nil {
			return gemini.ErrBadParameter.With("run store is required")
		}
		m.runs = store
		return nil
	}
}

// WithTracer sets the tracer used for operation spans
func WithTracer(tracer trace.Tracer) Opt {
	return func(m *Manager) error {
		if tracer != nil {
			m.tracer = tracer
		}
		return nil
	}
}

// WithLogger sets the structured logger
func WithLogger(log *zap.Logger) Opt {
	return func(m *Manager) error {
		if log != nil {
			m.log = log
		}
		return nil
	}
}

// WithRegisterer registers the manager's metrics
func WithRegisterer(reg prometheus.Registerer) Opt {
	return func(m *Manager) error {
		if reg == nil {
			return nil
		}
		return m.metrics.register(reg)
	}
}
