/*
assistant implements threads, messages and runs on top of a stateless chat
invoker. A run synchronously sends a thread's history to the model and
appends the reply to the thread.
*/
package assistant

import (
	"sync"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	store "github.com/mutablelogic/go-gemini/pkg/store"
	trace "go.opentelemetry.io/otel/trace"
	noop "go.opentelemetry.io/otel/trace/noop"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Manager owns the thread registry and run records, and drives runs
// through an invoker
type Manager struct {
	invoker gemini.Invoker
	threads schema.ThreadStore
	runs    schema.RunStore
	tracer  trace.Tracer
	log     *zap.Logger
	metrics *metrics

	// Appends, runs and deletes on one thread are serialised
	mu    sync.Mutex
	locks map[string]*threadLock
}

// threadLock is removed from the map when nothing holds or waits on it
type threadLock struct {
	sync.Mutex
	refs int
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	tracerName = "github.com/mutablelogic/go-gemini/pkg/assistant"
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a manager which uses the invoker to generate replies. Unless
// set by options, threads and runs are held in memory, nothing is logged
// and spans are discarded.
func New(invoker gemini.Invoker, opts ...Opt) (*Manager, error) {
	if invoker == nil {
		return nil, gemini.ErrBadParameter.With("invoker is required")
	}

	m := &Manager{
		invoker: invoker,
		tracer:  noop.NewTracerProvider().Tracer(tracerName),
		log:     zap.NewNop(),
		metrics: newMetrics(),
		locks:   make(map[string]*threadLock),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	// Default stores
	if m.threads == nil {
		m.threads = store.NewMemoryThreadStore(gemini.DefaultThreadModel)
	}
	if m.runs == nil {
		m.runs = store.NewMemoryRunStore()
	}

	// Return success
	return m, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// lock acquires the per-thread lock and returns the function which releases it
func (m *Manager) lock(thread string) func() {
	m.mu.Lock()
	l, exists := m.locks[thread]
	if !exists {
		l = new(threadLock)
		m.locks[thread] = l
	}
	l.refs++
	m.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		m.mu.Lock()
		defer m.mu.Unlock()
		if l.refs--; l.refs == 0 {
			delete(m.locks, thread)
		}
	}
}
