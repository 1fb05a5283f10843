package schema

import (
	"time"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// File is a media file uploaded to the provider
type File struct {
	Name        string    `json:"name" yaml:"name"`
	DisplayName string    `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	MIMEType    string    `json:"mime_type" yaml:"mime_type"`
	Size        int64     `json:"size,omitempty" yaml:"size,omitempty"`
	URI         string    `json:"uri" yaml:"uri"`
	State       string    `json:"state" yaml:"state"`
	Hash        string    `json:"sha256,omitempty" yaml:"sha256,omitempty"`
	Created     time.Time `json:"created,omitzero" yaml:"created,omitempty"`
	Updated     time.Time `json:"updated,omitzero" yaml:"updated,omitempty"`
	Expires     time.Time `json:"expires,omitzero" yaml:"expires,omitempty"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
}

// ListFilesResponse is a page of files
type ListFilesResponse struct {
	Body          []File `json:"body" yaml:"body"`
	NextPageToken string `json:"next_page_token,omitempty" yaml:"next_page_token,omitempty"`
}

// CachedContent is a block of content held by the provider for reuse
// across requests
type CachedContent struct {
	Name        string    `json:"name" yaml:"name"`
	DisplayName string    `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	Model       string    `json:"model" yaml:"model"`
	Created     time.Time `json:"created,omitzero" yaml:"created,omitempty"`
	Updated     time.Time `json:"updated,omitzero" yaml:"updated,omitempty"`
	Expires     time.Time `json:"expires,omitzero" yaml:"expires,omitempty"`
	TotalTokens uint      `json:"total_tokens,omitempty" yaml:"total_tokens,omitempty"`
}

// ListCachesResponse is a page of cached content
type ListCachesResponse struct {
	Body          []CachedContent `json:"body" yaml:"body"`
	NextPageToken string          `json:"next_page_token,omitempty" yaml:"next_page_token,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

// File states
const (
	FileStateProcessing = "PROCESSING"
	FileStateActive     = "ACTIVE"
	FileStateFailed     = "FAILED"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Active returns true when the file can be referenced in a request
func (f File) Active() bool {
	return f.State == FileStateActive
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (f File) String() string {
	return types.Stringify(f)
}

func (c CachedContent) String() string {
	return types.Stringify(c)
}
