package schema

import (
	"encoding/json"
	"maps"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// RunMeta holds the caller-supplied parameters of a run
type RunMeta struct {
	Model        string         `json:"model,omitempty" yaml:"model,omitempty"`
	Instructions string         `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Run records one synchronous request/response cycle against a thread.
// Response holds the raw provider response and is only set on the value
// returned when the run is created.
type Run struct {
	ID           string          `json:"id" yaml:"id"`
	Object       string          `json:"object" yaml:"object"`
	CreatedAt    int64           `json:"created_at" yaml:"created_at"`
	ThreadID     string          `json:"thread_id" yaml:"thread_id"`
	Status       string          `json:"status" yaml:"status"`
	Model        string          `json:"model" yaml:"model"`
	Instructions string          `json:"instructions,omitempty" yaml:"instructions,omitempty"`
	Metadata     map[string]any  `json:"metadata" yaml:"metadata"`
	Usage        *Usage          `json:"usage,omitempty" yaml:"usage,omitempty"`
	Response     json.RawMessage `json:"response,omitempty" yaml:"-"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ObjectRun          = "thread.run"
	RunStatusCompleted = "completed"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Clone returns a copy of the run with its own metadata map, without the
// raw provider response
func (r Run) Clone() *Run {
	r.Metadata = maps.Clone(r.Metadata)
	if r.Metadata == nil {
		r.Metadata = make(map[string]any)
	}
	if r.Usage != nil {
		r.Usage = types.Ptr(*r.Usage)
	}
	r.Response = nil
	return &r
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r Run) String() string {
	return types.Stringify(r)
}
