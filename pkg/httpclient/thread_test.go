package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	assistant "github.com/mutablelogic/go-gemini/pkg/assistant"
	httpclient "github.com/mutablelogic/go-gemini/pkg/httpclient"
	httphandler "github.com/mutablelogic/go-gemini/pkg/httphandler"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

// newTestClient starts a thread server with a model which reverses the
// last message
func newTestClient(t *testing.T) *httpclient.Client {
	t.Helper()
	manager, err := assistant.New(gemini.InvokerFunc(func(_ context.Context, _ string, turns []schema.Turn, _ ...opt.Opt) (*schema.Completion, error) {
		text := []rune(turns[len(turns)-1].Text)
		for i, j := 0, len(text)-1; i < j; i, j = i+1, j-1 {
			text[i], text[j] = text[j], text[i]
		}
		return &schema.Completion{Text: string(text)}, nil
	}))
	require.NoError(t, err)

	mux := http.NewServeMux()
	httphandler.Register(manager, mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	c, err := httpclient.New(server.URL)
	require.NoError(t, err)
	return c
}

func Test_thread_001(t *testing.T) {
	assert := assert.New(t)
	c := newTestClient(t)
	ctx := context.TODO()

	thread, err := c.CreateThread(ctx, schema.ThreadMeta{Metadata: map[string]any{"topic": "test"}})
	require.NoError(t, err)
	assert.Equal(gemini.DefaultThreadModel, thread.Model)

	got, err := c.GetThread(ctx, thread.ID)
	require.NoError(t, err)
	assert.Equal("test", got.Metadata["topic"])

	updated, err := c.UpdateThread(ctx, thread.ID, schema.ThreadMeta{Model: "gemini-2.5-pro"})
	require.NoError(t, err)
	assert.Equal("gemini-2.5-pro", updated.Model)

	threads, err := c.ListThreads(ctx)
	require.NoError(t, err)
	assert.Len(threads, 1)

	deleted, err := c.DeleteThread(ctx, thread.ID)
	require.NoError(t, err)
	assert.True(deleted.Deleted)

	_, err = c.GetThread(ctx, thread.ID)
	assert.ErrorIs(err, gemini.ErrNotFound)
	_, err = c.GetThread(ctx, "")
	assert.ErrorIs(err, gemini.ErrBadParameter)
}

func Test_thread_002(t *testing.T) {
	assert := assert.New(t)
	c := newTestClient(t)
	ctx := context.TODO()

	thread, err := c.CreateThread(ctx, schema.ThreadMeta{})
	require.NoError(t, err)

	_, err = c.AddMessage(ctx, thread.ID, "user", "stressed")
	require.NoError(t, err)
	_, err = c.AddMessage(ctx, thread.ID, "system", "nope")
	assert.ErrorIs(err, gemini.ErrBadParameter)

	run, err := c.CreateRun(ctx, thread.ID, schema.RunMeta{Metadata: map[string]any{"n": "1"}})
	require.NoError(t, err)
	assert.Equal(schema.RunStatusCompleted, run.Status)
	assert.Equal(thread.ID, run.ThreadID)

	messages, err := c.ListMessages(ctx, thread.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal("desserts", messages[1].Content)

	runs, err := c.ListRuns(ctx, thread.ID)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got, err := c.GetRun(ctx, thread.ID, run.ID)
	require.NoError(t, err)
	assert.Equal("1", got.Metadata["n"])

	_, err = c.GetRun(ctx, thread.ID, "missing")
	assert.ErrorIs(err, gemini.ErrNotFound)
}

func Test_thread_003(t *testing.T) {
	// A run read through another thread is an ownership mismatch, not missing
	assert := assert.New(t)
	c := newTestClient(t)
	ctx := context.TODO()

	a, err := c.CreateThread(ctx, schema.ThreadMeta{})
	require.NoError(t, err)
	b, err := c.CreateThread(ctx, schema.ThreadMeta{})
	require.NoError(t, err)
	_, err = c.AddMessage(ctx, a.ID, "user", "hello")
	require.NoError(t, err)
	run, err := c.CreateRun(ctx, a.ID, schema.RunMeta{})
	require.NoError(t, err)

	_, err = c.GetRun(ctx, b.ID, run.ID)
	assert.ErrorIs(err, gemini.ErrOwnershipMismatch)
	assert.NotErrorIs(err, gemini.ErrNotFound)

	_, err = c.GetRun(ctx, b.ID, "missing")
	assert.ErrorIs(err, gemini.ErrNotFound)
	assert.NotErrorIs(err, gemini.ErrOwnershipMismatch)
}
