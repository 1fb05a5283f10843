package google

import (
	"regexp"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	gemini "github.com/mutablelogic/go-gemini"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	reFunctionName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.-]{0,63}$`)
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewFunction returns a function declaration with parameters described by
// the fields of T, which must be a struct
//
// See: https://ai.google.dev/gemini-api/docs/function-calling
func NewFunction[T any](name, description string) (*FunctionDeclaration, error) {
	if !reFunctionName.MatchString(name) {
		return nil, gemini.ErrBadParameter.Withf("invalid function name %q", name)
	}
	parameters, err := jsonschema.For[T](&jsonschema.ForOptions{})
	if err != nil {
		return nil, gemini.ErrBadParameter.Withf("%s: %v", name, err)
	} else if parameters.Type != "object" {
		return nil, gemini.ErrBadParameter.Withf("%s: parameters must be an object", name)
	}
	return &FunctionDeclaration{
		Name:        name,
		Description: description,
		Parameters:  parameters,
	}, nil
}

// NewFunctionTool returns a tool with one or more function declarations
func NewFunctionTool(functions ...*FunctionDeclaration) *Tool {
	return &Tool{FunctionDeclarations: functions}
}

// GoogleSearchTool grounds responses with Google Search results
func GoogleSearchTool() *Tool {
	return &Tool{GoogleSearch: &struct{}{}}
}

// URLContextTool lets the model read URLs given in the prompt
func URLContextTool() *Tool {
	return &Tool{URLContext: &struct{}{}}
}

// CodeExecutionTool lets the model write and run Python code
func CodeExecutionTool() *Tool {
	return &Tool{CodeExecution: &struct{}{}}
}
