package assistant

import (
	"context"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	attribute "go.opentelemetry.io/otel/attribute"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateThread creates a new thread. The model defaults to the thread store
// default and metadata to an empty map.
func (m *Manager) CreateThread(ctx context.Context, meta schema.ThreadMeta) (result *schema.Thread, err error) {
	ctx, endSpan := otel.StartSpan(m.tracer, ctx, "CreateThread",
		attribute.String("model", meta.Model),
	)
	defer func() { endSpan(err) }()

	thread, err := m.threads.CreateThread(ctx, meta)
	if err != nil {
		return nil, err
	}

	m.metrics.threadsCreated.Inc()
	m.log.Debug("thread created", zap.String("thread", thread.ID), zap.String("model", thread.Model))
	return thread, nil
}

// GetThread returns a thread by identifier
func (m *Manager) GetThread(ctx context.Context, id string) (result *schema.Thread, err error) {
	ctx, endSpan := otel.StartSpan(m.tracer, ctx, "GetThread",
		attribute.String("thread", id),
	)
	defer func() { endSpan(err) }()

	return m.threads.GetThread(ctx, id)
}

// ListThreads returns all threads, oldest first
func (m *Manager) ListThreads(ctx context.Context) (result []*schema.Thread, err error) {
	ctx, endSpan := otel.StartSpan(m.tracer, ctx, "ListThreads")
	defer func() { endSpan(err) }()

	return m.threads.ListThreads(ctx)
}

// UpdateThread replaces the model and metadata of a thread when they are
// set in meta, leaving omitted fields unchanged
func (m *Manager) UpdateThread(ctx context.Context, id string, meta schema.ThreadMeta) (result *schema.Thread, err error) {
	ctx, endSpan := otel.StartSpan(m.tracer, ctx, "UpdateThread",
		attribute.String("thread", id),
		attribute.String("model", meta.Model),
	)
	defer func() { endSpan(err) }()

	return m.threads.UpdateThread(ctx, id, meta)
}

// DeleteThread removes a thread, its messages and its runs. A run in
// progress on the thread completes before the thread is removed.
func (m *Manager) DeleteThread(ctx context.Context, id string) (result *schema.DeletedThread, err error) {
	ctx, endSpan := otel.StartSpan(m.tracer, ctx, "DeleteThread",
		attribute.String("thread", id),
	)
	defer func() { endSpan(err) }()

	unlock := m.lock(id)
	defer unlock()

	deleted, err := m.threads.DeleteThread(ctx, id)
	if err != nil {
		return nil, err
	}
	n, err := m.runs.DeleteRuns(ctx, id)
	if err != nil {
		return nil, err
	}

	m.metrics.threadsDeleted.Inc()
	m.log.Debug("thread deleted", zap.String("thread", id), zap.Int("runs", n))
	return deleted, nil
}

// GetModel returns the model associated with a thread
func (m *Manager) GetModel(ctx context.Context, id string) (string, error) {
	return m.threads.GetModel(ctx, id)
}
