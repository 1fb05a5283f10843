package store

import (
	"context"
	"sort"
	"sync"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// MemoryThreadStore is an in-memory implementation of ThreadStore.
// It is safe for concurrent use: the registry map is guarded by one lock
// and each thread's state and message log by its own.
type MemoryThreadStore struct {
	mu           sync.RWMutex
	seq          uint64
	defaultModel string
	threads      map[string]*memoryThread
}

type memoryThread struct {
	sync.RWMutex
	schema.Thread
	seq      uint64
	deleted  bool
	messages []schema.Message
}

var _ schema.ThreadStore = (*MemoryThreadStore)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewMemoryThreadStore creates a new empty in-memory thread store. Threads
// created without a model are assigned defaultModel, or the package default
// when it is empty.
func NewMemoryThreadStore(defaultModel string) *MemoryThreadStore {
	if defaultModel == "" {
		defaultModel = gemini.DefaultThreadModel
	}
	return &MemoryThreadStore{
		defaultModel: defaultModel,
		threads:      make(map[string]*memoryThread),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - THREADS

// CreateThread creates a new thread with a unique ID and returns it.
func (m *MemoryThreadStore) CreateThread(_ context.Context, meta schema.ThreadMeta) (*schema.Thread, error) {
	t := &memoryThread{
		Thread:   newThread(meta, m.defaultModel),
		messages: make([]schema.Message, 0),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.threads[t.ID]; exists {
		return nil, gemini.ErrConflict.Withf("thread %q", t.ID)
	}
	m.seq++
	t.seq = m.seq
	m.threads[t.ID] = t

	return t.Thread.Clone(), nil
}

// GetThread retrieves a thread by ID.
func (m *MemoryThreadStore) GetThread(_ context.Context, id string) (*schema.Thread, error) {
	t, err := m.get(id)
	if err != nil {
		return nil, err
	}

	t.RLock()
	defer t.RUnlock()
	if t.deleted {
		return nil, threadNotFound(id)
	}
	return t.Thread.Clone(), nil
}

// ListThreads returns all threads, oldest first.
func (m *MemoryThreadStore) ListThreads(_ context.Context) ([]*schema.Thread, error) {
	m.mu.RLock()
	threads := make([]*memoryThread, 0, len(m.threads))
	for _, t := range m.threads {
		threads = append(threads, t)
	}
	m.mu.RUnlock()

	sort.Slice(threads, func(i, j int) bool {
		return threads[i].seq < threads[j].seq
	})

	result := make([]*schema.Thread, 0, len(threads))
	for _, t := range threads {
		t.RLock()
		if !t.deleted {
			result = append(result, t.Thread.Clone())
		}
		t.RUnlock()
	}
	return result, nil
}

// UpdateThread applies the model and metadata from meta when they are set.
func (m *MemoryThreadStore) UpdateThread(_ context.Context, id string, meta schema.ThreadMeta) (*schema.Thread, error) {
	t, err := m.get(id)
	if err != nil {
		return nil, err
	}

	t.Lock()
	defer t.Unlock()
	if t.deleted {
		return nil, threadNotFound(id)
	}
	mergeThreadMeta(&t.Thread, meta)
	return t.Thread.Clone(), nil
}

// DeleteThread removes a thread and its message log.
func (m *MemoryThreadStore) DeleteThread(_ context.Context, id string) (*schema.DeletedThread, error) {
	m.mu.Lock()
	t, ok := m.threads[id]
	if ok {
		delete(m.threads, id)
	}
	m.mu.Unlock()
	if !ok {
		return nil, threadNotFound(id)
	}

	// Readers which fetched the thread before removal see it as deleted
	t.Lock()
	t.deleted = true
	t.messages = nil
	t.Unlock()

	return &schema.DeletedThread{
		ID:      id,
		Object:  schema.ObjectThreadDeleted,
		Deleted: true,
	}, nil
}

// GetModel returns the model associated with a thread.
func (m *MemoryThreadStore) GetModel(_ context.Context, id string) (string, error) {
	t, err := m.get(id)
	if err != nil {
		return "", err
	}

	t.RLock()
	defer t.RUnlock()
	if t.deleted {
		return "", threadNotFound(id)
	}
	return t.Model, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - MESSAGES

// AppendMessage adds a message to the tail of the thread's log.
func (m *MemoryThreadStore) AppendMessage(_ context.Context, id, role, content string) (*schema.Message, error) {
	t, err := m.get(id)
	if err != nil {
		return nil, err
	}
	message, err := newMessage(id, role, content)
	if err != nil {
		return nil, err
	}

	t.Lock()
	defer t.Unlock()
	if t.deleted {
		return nil, threadNotFound(id)
	}
	t.messages = append(t.messages, types.Value(message))
	return message, nil
}

// ListMessages returns the thread's messages in insertion order.
func (m *MemoryThreadStore) ListMessages(_ context.Context, id string) ([]*schema.Message, error) {
	t, err := m.get(id)
	if err != nil {
		return nil, err
	}

	t.RLock()
	defer t.RUnlock()
	if t.deleted {
		return nil, threadNotFound(id)
	}
	result := make([]*schema.Message, len(t.messages))
	for i := range t.messages {
		result[i] = types.Ptr(t.messages[i])
	}
	return result, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (m *MemoryThreadStore) get(id string) (*memoryThread, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.threads[id]
	if !ok {
		return nil, threadNotFound(id)
	}
	return t, nil
}
