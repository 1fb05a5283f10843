package httpclient

import (
	"context"
	"net/http"

	// Packages
	client "github.com/mutablelogic/go-client"
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// THREADS

// CreateThread creates a thread. An empty model uses the server default.
func (c *Client) CreateThread(ctx context.Context, meta schema.ThreadMeta) (*schema.Thread, error) {
	req, err := client.NewJSONRequest(meta)
	if err != nil {
		return nil, err
	}
	var response schema.Thread
	if err := c.DoWithContext(ctx, req, &response, client.OptPath("thread")); err != nil {
		return nil, apiError(err)
	}
	return &response, nil
}

// GetThread returns a thread by identifier
func (c *Client) GetThread(ctx context.Context, id string) (*schema.Thread, error) {
	if id == "" {
		return nil, gemini.ErrBadParameter.With("thread is required")
	}
	var response schema.Thread
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("thread", id)); err != nil {
		return nil, apiError(err)
	}
	return &response, nil
}

// ListThreads returns all threads, oldest first
func (c *Client) ListThreads(ctx context.Context) ([]*schema.Thread, error) {
	var response schema.ListThreadsResponse
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("thread")); err != nil {
		return nil, apiError(err)
	}
	return response.Body, nil
}

// UpdateThread changes the model or metadata of a thread
func (c *Client) UpdateThread(ctx context.Context, id string, meta schema.ThreadMeta) (*schema.Thread, error) {
	if id == "" {
		return nil, gemini.ErrBadParameter.With("thread is required")
	}
	req, err := client.NewJSONRequestEx(http.MethodPut, meta, "")
	if err != nil {
		return nil, err
	}
	var response schema.Thread
	if err := c.DoWithContext(ctx, req, &response, client.OptPath("thread", id)); err != nil {
		return nil, apiError(err)
	}
	return &response, nil
}

// DeleteThread removes a thread with its messages and runs
func (c *Client) DeleteThread(ctx context.Context, id string) (*schema.DeletedThread, error) {
	if id == "" {
		return nil, gemini.ErrBadParameter.With("thread is required")
	}
	var response schema.DeletedThread
	if err := c.DoWithContext(ctx, client.MethodDelete, &response, client.OptPath("thread", id)); err != nil {
		return nil, apiError(err)
	}
	return &response, nil
}

///////////////////////////////////////////////////////////////////////////////
// MESSAGES

// AddMessage appends a message to a thread
func (c *Client) AddMessage(ctx context.Context, thread, role, content string) (*schema.Message, error) {
	req, err := client.NewJSONRequest(schema.MessageMeta{Role: role, Content: content})
	if err != nil {
		return nil, err
	}
	var response schema.Message
	if err := c.DoWithContext(ctx, req, &response, client.OptPath("thread", thread, "message")); err != nil {
		return nil, apiError(err)
	}
	return &response, nil
}

// ListMessages returns the messages of a thread in order
func (c *Client) ListMessages(ctx context.Context, thread string) ([]*schema.Message, error) {
	var response schema.ListMessagesResponse
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("thread", thread, "message")); err != nil {
		return nil, apiError(err)
	}
	return response.Body, nil
}

///////////////////////////////////////////////////////////////////////////////
// RUNS

// CreateRun asks the server to send the thread to the model
func (c *Client) CreateRun(ctx context.Context, thread string, meta schema.RunMeta) (*schema.Run, error) {
	req, err := client.NewJSONRequest(meta)
	if err != nil {
		return nil, err
	}
	var response schema.Run
	if err := c.DoWithContext(ctx, req, &response, client.OptPath("thread", thread, "run")); err != nil {
		return nil, apiError(err)
	}
	return &response, nil
}

// GetRun returns a run of a thread
func (c *Client) GetRun(ctx context.Context, thread, id string) (*schema.Run, error) {
	var response schema.Run
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("thread", thread, "run", id)); err != nil {
		return nil, apiError(err)
	}
	return &response, nil
}

// ListRuns returns the runs of a thread, oldest first
func (c *Client) ListRuns(ctx context.Context, thread string) ([]*schema.Run, error) {
	var response schema.ListRunsResponse
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("thread", thread, "run")); err != nil {
		return nil, apiError(err)
	}
	return response.Body, nil
}
