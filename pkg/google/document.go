package google

import (
	"context"
	"io"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultDocumentModel = "gemini-2.5-flash"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ProcessDocument uploads a document and asks a question about it. The
// uploaded file is returned so it can be referenced again or deleted.
//
// See: https://ai.google.dev/gemini-api/docs/document-processing
func (c *Client) ProcessDocument(ctx context.Context, model, prompt, filename string, r io.ReadSeeker, opts ...opt.Opt) (*Response, *schema.File, error) {
	if prompt == "" {
		return nil, nil, gemini.ErrBadParameter.With("prompt is required")
	}
	file, err := c.uploadDocument(ctx, filename, r, opts...)
	if err != nil {
		return nil, nil, err
	}
	response, err := c.Generate(ctx, modelNameOr(model, DefaultDocumentModel), prompt, with(opts, WithFileData(file.MIMEType, file.URI))...)
	if err != nil {
		return nil, file, err
	}
	return response, file, nil
}

// CacheDocument uploads a document and stores it as cached content, so
// many questions can be asked with WithCachedContent without sending the
// document each time. WithSystemPrompt, WithDisplayName and WithTTL apply
// to the cache.
func (c *Client) CacheDocument(ctx context.Context, model, filename string, r io.ReadSeeker, opts ...opt.Opt) (*schema.CachedContent, *schema.File, error) {
	file, err := c.uploadDocument(ctx, filename, r, opts...)
	if err != nil {
		return nil, nil, err
	}
	contents := []*Content{
		NewContent(schema.RoleUser, FilePart(file.MIMEType, file.URI)),
	}
	cache, err := c.CreateCache(ctx, modelNameOr(model, DefaultDocumentModel), contents, opts...)
	if err != nil {
		return nil, file, err
	}
	return cache, file, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// uploadDocument uploads and waits for the file to become active
func (c *Client) uploadDocument(ctx context.Context, filename string, r io.ReadSeeker, opts ...opt.Opt) (*schema.File, error) {
	file, err := c.UploadFile(ctx, filename, r, opts...)
	if err != nil {
		return nil, err
	}
	if file.Active() {
		return file, nil
	}
	return c.WaitForFile(ctx, file.Name)
}
