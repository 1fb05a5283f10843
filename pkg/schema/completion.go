package schema

import (
	"encoding/json"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Completion is the normalised result of one call to the model
type Completion struct {
	Text         string          `json:"text"`
	FinishReason string          `json:"finish_reason,omitempty"`
	Usage        *Usage          `json:"usage,omitempty"`
	Response     json.RawMessage `json:"response,omitempty"`
}

// Usage reports token counts for a request
type Usage struct {
	InputTokens  uint `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens uint `json:"output_tokens" yaml:"output_tokens"`
	CachedTokens uint `json:"cached_tokens,omitempty" yaml:"cached_tokens,omitempty"`
	TotalTokens  uint `json:"total_tokens" yaml:"total_tokens"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (c Completion) String() string {
	return types.Stringify(c)
}

func (u Usage) String() string {
	return types.Stringify(u)
}
