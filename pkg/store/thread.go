package store

import (
	"maps"
	"strings"
	"time"

	// Packages
	uuid "github.com/google/uuid"
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS - THREAD UTILITIES

// newThread returns a new thread descriptor with a unique ID, the creation
// time set to now, and defaults applied for metadata and model.
func newThread(meta schema.ThreadMeta, defaultModel string) schema.Thread {
	model := strings.TrimSpace(meta.Model)
	if model == "" {
		model = defaultModel
	}
	metadata := maps.Clone(meta.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	return schema.Thread{
		ID:        uuid.New().String(),
		Object:    schema.ObjectThread,
		CreatedAt: time.Now().Unix(),
		ThreadMeta: schema.ThreadMeta{
			Model:    model,
			Metadata: metadata,
		},
	}
}

// mergeThreadMeta replaces the model and metadata of t when they are set in
// meta. Metadata is replaced as a whole rather than merged key by key.
func mergeThreadMeta(t *schema.Thread, meta schema.ThreadMeta) {
	if model := strings.TrimSpace(meta.Model); model != "" {
		t.Model = model
	}
	if meta.Metadata != nil {
		t.Metadata = maps.Clone(meta.Metadata)
	}
}

// newMessage validates the role and returns a new message for the thread
func newMessage(thread, role, content string) (*schema.Message, error) {
	role = schema.NormaliseRole(role)
	if !schema.IsRole(role) {
		return nil, gemini.ErrBadParameter.Withf("invalid role %q", role)
	}
	return &schema.Message{
		ID:        uuid.New().String(),
		Object:    schema.ObjectMessage,
		CreatedAt: time.Now().Unix(),
		ThreadID:  thread,
		Role:      role,
		Content:   content,
	}, nil
}

// newRun fills in the identifier, timestamp, object type and status of a run
func newRun(run schema.Run) (schema.Run, error) {
	if run.ThreadID == "" {
		return run, gemini.ErrBadParameter.With("thread is required")
	}
	if run.Model == "" {
		return run, gemini.ErrBadParameter.With("model is required")
	}
	run.ID = uuid.New().String()
	run.Object = schema.ObjectRun
	run.CreatedAt = time.Now().Unix()
	run.Status = schema.RunStatusCompleted
	run.Metadata = maps.Clone(run.Metadata)
	if run.Metadata == nil {
		run.Metadata = make(map[string]any)
	}
	run.Response = nil
	return run, nil
}

func threadNotFound(id string) error {
	return gemini.ErrNotFound.Withf("thread %q", id)
}

func runNotFound(id string) error {
	return gemini.ErrNotFound.Withf("run %q", id)
}
