package schema

import (
	"slices"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Represents a generative model
type Model struct {
	Name             string         `json:"name" yaml:"name"`
	DisplayName      string         `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Description      string         `json:"description,omitempty" yaml:"description,omitempty"`
	InputTokenLimit  uint           `json:"input_token_limit,omitempty" yaml:"input_token_limit,omitempty"`
	OutputTokenLimit uint           `json:"output_token_limit,omitempty" yaml:"output_token_limit,omitempty"`
	Methods          []string       `json:"methods,omitempty" yaml:"methods,omitempty"`
	Meta             map[string]any `json:"meta,omitempty" yaml:"-"`
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Supports returns true if the model supports the generation method
func (m Model) Supports(method string) bool {
	return slices.Contains(m.Methods, method)
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (m Model) String() string {
	return types.Stringify(m)
}
