package schema

import (
	"maps"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// ThreadMeta holds the mutable attributes of a thread. On update, a nil
// Metadata or empty Model leaves the existing value unchanged.
type ThreadMeta struct {
	Model    string         `json:"model,omitempty" yaml:"model,omitempty" help:"Model name"`
	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty" help:"Arbitrary metadata"`
}

// Thread is a descriptor for a conversation thread. It is a copy of the
// registry state and changing it has no effect on the stored thread.
type Thread struct {
	ID        string `json:"id" yaml:"id"`
	Object    string `json:"object" yaml:"object"`
	CreatedAt int64  `json:"created_at" yaml:"created_at"`
	ThreadMeta
}

// DeletedThread is returned when a thread has been removed
type DeletedThread struct {
	ID      string `json:"id" yaml:"id"`
	Object  string `json:"object" yaml:"object"`
	Deleted bool   `json:"deleted" yaml:"deleted"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ObjectThread        = "thread"
	ObjectThreadDeleted = "thread.deleted"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Clone returns a copy of the thread with its own metadata map
func (t Thread) Clone() *Thread {
	t.Metadata = maps.Clone(t.Metadata)
	if t.Metadata == nil {
		t.Metadata = make(map[string]any)
	}
	return &t
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (t Thread) String() string {
	return types.Stringify(t)
}

func (t ThreadMeta) String() string {
	return types.Stringify(t)
}

func (t DeletedThread) String() string {
	return types.Stringify(t)
}
