package schema

import "context"

////////////////////////////////////////////////////////////////////////////////
// INTERFACES

// ThreadStore is the registry of threads, each owning an append-only
// message log. All methods return copies of the stored state.
type ThreadStore interface {
	// CreateThread creates a new thread with a unique identifier
	CreateThread(ctx context.Context, meta ThreadMeta) (*Thread, error)

	// GetThread returns a thread by identifier
	GetThread(ctx context.Context, id string) (*Thread, error)

	// ListThreads returns all threads in creation order
	ListThreads(ctx context.Context) ([]*Thread, error)

	// UpdateThread applies non-zero fields from meta to the thread
	UpdateThread(ctx context.Context, id string, meta ThreadMeta) (*Thread, error)

	// DeleteThread removes a thread and its messages
	DeleteThread(ctx context.Context, id string) (*DeletedThread, error)

	// GetModel returns the model associated with a thread
	GetModel(ctx context.Context, id string) (string, error)

	// AppendMessage adds a message to the end of the thread's log
	AppendMessage(ctx context.Context, id, role, content string) (*Message, error)

	// ListMessages returns the thread's messages in insertion order
	ListMessages(ctx context.Context, id string) ([]*Message, error)
}

// RunStore records runs against threads. Runs are never modified.
type RunStore interface {
	// CreateRun stores a run, setting the identifier, creation time, object
	// type and status. The stored copy does not retain the raw response.
	CreateRun(ctx context.Context, run Run) (*Run, error)

	// GetRun returns a run, which must belong to the thread
	GetRun(ctx context.Context, thread, id string) (*Run, error)

	// ListRuns returns the runs for a thread in creation order
	ListRuns(ctx context.Context, thread string) ([]*Run, error)

	// DeleteRuns removes all runs for a thread, returning the number removed
	DeleteRuns(ctx context.Context, thread string) (int, error)
}
