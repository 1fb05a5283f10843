package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type ListThreadsResponse struct {
	Count uint      `json:"count" yaml:"count"`
	Body  []*Thread `json:"body" yaml:"body"`
}

type ListMessagesResponse struct {
	Thread string     `json:"thread_id" yaml:"thread_id"`
	Count  uint       `json:"count" yaml:"count"`
	Body   []*Message `json:"body" yaml:"body"`
}

type ListRunsResponse struct {
	Thread string `json:"thread_id" yaml:"thread_id"`
	Count  uint   `json:"count" yaml:"count"`
	Body   []*Run `json:"body" yaml:"body"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r ListThreadsResponse) String() string {
	return types.Stringify(r)
}

func (r ListMessagesResponse) String() string {
	return types.Stringify(r)
}

func (r ListRunsResponse) String() string {
	return types.Stringify(r)
}
