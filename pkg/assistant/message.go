package assistant

import (
	"context"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	attribute "go.opentelemetry.io/otel/attribute"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// AddMessage appends a message to the end of a thread. A run in progress
// on the thread completes first, so its reply follows the history it read.
func (m *Manager) AddMessage(ctx context.Context, thread, role, content string) (result *schema.Message, err error) {
	ctx, endSpan := otel.StartSpan(m.tracer, ctx, "AddMessage",
		attribute.String("thread", thread),
		attribute.String("role", role),
	)
	defer func() { endSpan(err) }()

	unlock := m.lock(thread)
	defer unlock()

	message, err := m.threads.AppendMessage(ctx, thread, role, content)
	if err != nil {
		return nil, err
	}
	m.metrics.messages.WithLabelValues(message.Role).Inc()
	return message, nil
}

// ListMessages returns the messages of a thread in insertion order
func (m *Manager) ListMessages(ctx context.Context, thread string) (result []*schema.Message, err error) {
	ctx, endSpan := otel.StartSpan(m.tracer, ctx, "ListMessages",
		attribute.String("thread", thread),
	)
	defer func() { endSpan(err) }()

	return m.threads.ListMessages(ctx, thread)
}
