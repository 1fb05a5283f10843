package store

import (
	"context"
	"sort"
	"sync"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// MemoryRunStore is an in-memory implementation of RunStore.
// It is safe for concurrent use.
type MemoryRunStore struct {
	mu   sync.RWMutex
	seq  uint64
	runs map[string]*memoryRun
}

type memoryRun struct {
	schema.Run
	seq uint64
}

var _ schema.RunStore = (*MemoryRunStore)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewMemoryRunStore creates a new empty in-memory run store.
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		runs: make(map[string]*memoryRun),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateRun stores a completed run and returns a copy of it.
func (m *MemoryRunStore) CreateRun(_ context.Context, run schema.Run) (*schema.Run, error) {
	r, err := newRun(run)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.runs[r.ID]; exists {
		return nil, gemini.ErrConflict.Withf("run %q", r.ID)
	}
	m.seq++
	m.runs[r.ID] = &memoryRun{Run: r, seq: m.seq}

	return r.Clone(), nil
}

// GetRun returns a run by ID. A run which exists under a different thread
// is reported as an ownership mismatch rather than not found.
func (m *MemoryRunStore) GetRun(_ context.Context, thread, id string) (*schema.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.runs[id]
	if !ok {
		return nil, runNotFound(id)
	}
	if r.ThreadID != thread {
		return nil, gemini.ErrOwnershipMismatch.Withf("run %q does not belong to thread %q", id, thread)
	}
	return r.Run.Clone(), nil
}

// ListRuns returns the runs for a thread, oldest first.
func (m *MemoryRunStore) ListRuns(_ context.Context, thread string) ([]*schema.Run, error) {
	m.mu.RLock()
	runs := make([]*memoryRun, 0)
	for _, r := range m.runs {
		if r.ThreadID == thread {
			runs = append(runs, r)
		}
	}
	m.mu.RUnlock()

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].seq < runs[j].seq
	})
	result := make([]*schema.Run, 0, len(runs))
	for _, r := range runs {
		result = append(result, r.Run.Clone())
	}
	return result, nil
}

// DeleteRuns removes all runs which belong to a thread.
func (m *MemoryRunStore) DeleteRuns(_ context.Context, thread string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int
	for id, r := range m.runs {
		if r.ThreadID == thread {
			delete(m.runs, id)
			n++
		}
	}
	return n, nil
}
