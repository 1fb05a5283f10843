package gemini

import (
	"context"

	// Packages
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// DefaultThreadModel is the model assigned to a thread when none is given
	DefaultThreadModel = "gemini-2.5-flash"

	// DefaultModel is used for one-shot generation when none is given
	DefaultModel = "gemini-2.0-flash-lite"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Invoker performs exactly one synchronous call to the text generation
// capability with an ordered conversation history.
//
// A response with no candidates returns an error matching ErrNoCandidates.
// A transport or provider failure returns an error matching ErrProvider.
// A successful response with no text returns a completion with empty text.
type Invoker interface {
	Invoke(ctx context.Context, model string, turns []schema.Turn, opts ...opt.Opt) (*schema.Completion, error)
}

// InvokerFunc adapts a function to the Invoker interface
type InvokerFunc func(ctx context.Context, model string, turns []schema.Turn, opts ...opt.Opt) (*schema.Completion, error)

var _ Invoker = InvokerFunc(nil)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (fn InvokerFunc) Invoke(ctx context.Context, model string, turns []schema.Turn, opts ...opt.Opt) (*schema.Completion, error) {
	return fn(ctx, model, turns, opts...)
}
