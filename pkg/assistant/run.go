package assistant

import (
	"context"
	"errors"
	"strings"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	gemini "github.com/mutablelogic/go-gemini"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	attribute "go.opentelemetry.io/otel/attribute"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateRun sends the thread's history to the model and appends the reply
// as a model message. The run is returned completed, carrying the raw
// provider response which is not kept in the stored copy.
//
// When the model returns no candidates or no text, nothing is appended and
// the run still completes. When the provider call fails, nothing is
// recorded and the error matches gemini.ErrProvider. A request the invoker
// rejects, such as an empty history, returns gemini.ErrBadParameter.
func (m *Manager) CreateRun(ctx context.Context, thread string, meta schema.RunMeta, opts ...opt.Opt) (result *schema.Run, err error) {
	ctx, endSpan := otel.StartSpan(m.tracer, ctx, "CreateRun",
		attribute.String("thread", thread),
		attribute.String("model", meta.Model),
	)
	defer func() { endSpan(err) }()

	unlock := m.lock(thread)
	defer unlock()

	// Effective model
	model := strings.TrimSpace(meta.Model)
	if model == "" {
		if model, err = m.threads.GetModel(ctx, thread); err != nil {
			return nil, err
		}
	} else if _, err := m.threads.GetThread(ctx, thread); err != nil {
		return nil, err
	}

	// History
	messages, err := m.threads.ListMessages(ctx, thread)
	if err != nil {
		return nil, err
	}
	if meta.Instructions != "" {
		opts = append([]opt.Opt{opt.WithSystemPrompt(meta.Instructions)}, opts...)
	}

	// Invoke the model
	completion, err := m.invoker.Invoke(ctx, model, schema.Turns(messages), opts...)
	switch {
	case errors.Is(err, gemini.ErrNoCandidates):
		m.metrics.runsNoCandidate.Inc()
		m.log.Warn("run produced no candidates", zap.String("thread", thread), zap.String("model", model), zap.Error(err))
		completion = nil
	case errors.Is(err, gemini.ErrBadParameter):
		return nil, err
	case err != nil:
		m.metrics.runsFailed.WithLabelValues(model).Inc()
		m.log.Error("run failed", zap.String("thread", thread), zap.String("model", model), zap.Error(err))
		if !errors.Is(err, gemini.ErrProvider) {
			err = gemini.ErrProvider.Wrap(err)
		}
		return nil, err
	}

	// Append the reply
	if completion != nil && completion.Text != "" {
		message, err := m.threads.AppendMessage(ctx, thread, schema.RoleModel, completion.Text)
		if err != nil {
			return nil, err
		}
		m.metrics.messages.WithLabelValues(message.Role).Inc()
	}

	// Record the run
	record := schema.Run{
		ThreadID:     thread,
		Model:        model,
		Instructions: meta.Instructions,
		Metadata:     meta.Metadata,
	}
	if completion != nil {
		record.Usage = completion.Usage
	}
	run, err := m.runs.CreateRun(ctx, record)
	if err != nil {
		return nil, err
	}
	if completion != nil {
		run.Response = completion.Response
		if usage := completion.Usage; usage != nil {
			m.metrics.tokens.WithLabelValues("input").Add(float64(usage.InputTokens))
			m.metrics.tokens.WithLabelValues("output").Add(float64(usage.OutputTokens))
		}
	}

	m.metrics.runsCompleted.WithLabelValues(model).Inc()
	m.log.Debug("run completed", zap.String("thread", thread), zap.String("run", run.ID), zap.String("model", model))
	return run, nil
}

// GetRun returns a run which was created on the thread. A run created on a
// different thread returns an error matching gemini.ErrOwnershipMismatch.
func (m *Manager) GetRun(ctx context.Context, thread, id string) (result *schema.Run, err error) {
	ctx, endSpan := otel.StartSpan(m.tracer, ctx, "GetRun",
		attribute.String("thread", thread),
		attribute.String("run", id),
	)
	defer func() { endSpan(err) }()

	return m.runs.GetRun(ctx, thread, id)
}

// ListRuns returns the runs of a thread, oldest first
func (m *Manager) ListRuns(ctx context.Context, thread string) (result []*schema.Run, err error) {
	ctx, endSpan := otel.StartSpan(m.tracer, ctx, "ListRuns",
		attribute.String("thread", thread),
	)
	defer func() { endSpan(err) }()

	if _, err := m.threads.GetThread(ctx, thread); err != nil {
		return nil, err
	}
	return m.runs.ListRuns(ctx, thread)
}
