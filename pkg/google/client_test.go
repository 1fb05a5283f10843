package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

var (
	apiKey string
)

func TestMain(m *testing.M) {
	apiKey = os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	os.Exit(m.Run())
}

// newTestClient returns a client which sends requests to handler
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	c, err := NewWithEndpoint(server.URL+"/v1beta", "test-key")
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": status, "message": message},
	})
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_client_001(t *testing.T) {
	// An API key is required
	assert := assert.New(t)
	_, err := New("")
	assert.ErrorIs(err, gemini.ErrBadParameter)
	_, err = New("  ")
	assert.ErrorIs(err, gemini.ErrBadParameter)
}

func Test_client_002(t *testing.T) {
	// Name returns the provider name
	assert := assert.New(t)
	c, err := New("test-key")
	assert.NoError(err)
	assert.Equal("gemini", c.Name())
}

func Test_client_003(t *testing.T) {
	// Upload endpoint places "upload" before the version
	assert := assert.New(t)

	endpoint, err := uploadEndpoint("https://generativelanguage.googleapis.com/v1beta")
	assert.NoError(err)
	assert.Equal("https://generativelanguage.googleapis.com/upload/v1beta/files", endpoint)

	endpoint, err = uploadEndpoint("http://localhost:8080/v1beta/")
	assert.NoError(err)
	assert.Equal("http://localhost:8080/upload/v1beta/files", endpoint)

	_, err = uploadEndpoint("localhost")
	assert.ErrorIs(err, gemini.ErrBadParameter)
	_, err = NewWithEndpoint("not a url", "test-key")
	assert.ErrorIs(err, gemini.ErrBadParameter)
}

func Test_client_004(t *testing.T) {
	// The API key is sent as a header
	assert := assert.New(t)
	var key string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("x-goog-api-key")
		writeJSON(w, http.StatusOK, map[string]any{"name": "models/gemini-2.5-flash"})
	})
	model, err := c.GetModel(context.TODO(), "gemini-2.5-flash")
	assert.NoError(err)
	assert.Equal("gemini-2.5-flash", model.Name)
	assert.Equal("test-key", key)
}

func Test_client_005(t *testing.T) {
	// A 404 maps to ErrNotFound, other failures to ErrProvider
	assert := assert.New(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1beta/files/missing":
			writeError(w, http.StatusNotFound, "file not found")
		default:
			writeError(w, http.StatusInternalServerError, "boom")
		}
	})

	_, err := c.GetFile(context.TODO(), "files/missing")
	assert.ErrorIs(err, gemini.ErrNotFound)
	assert.False(errors.Is(err, gemini.ErrProvider))

	_, err = c.GetFile(context.TODO(), "files/other")
	assert.ErrorIs(err, gemini.ErrProvider)
	assert.True(Retryable(err))
}

func Test_client_006(t *testing.T) {
	// Retryable is true for rate limits and server errors only
	assert := assert.New(t)
	assert.True(Retryable(httpresponse.Err(http.StatusTooManyRequests)))
	assert.True(Retryable(httpresponse.Err(http.StatusServiceUnavailable)))
	assert.True(Retryable(gemini.ErrProvider.Wrap(httpresponse.Err(http.StatusBadGateway))))
	assert.False(Retryable(httpresponse.Err(http.StatusBadRequest)))
	assert.False(Retryable(gemini.ErrBadParameter))
	assert.False(Retryable(nil))
}

func Test_client_007(t *testing.T) {
	// providerError passes through errors which are already mapped
	assert := assert.New(t)
	assert.NoError(providerError(nil))
	err := gemini.ErrNotFound.With("model")
	assert.Equal(err, providerError(err))
	assert.ErrorIs(providerError(errors.New("connection refused")), gemini.ErrProvider)
}

func Test_client_008(t *testing.T) {
	// Live: list models and get one
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set, skipping")
	}
	assert := assert.New(t)
	c, err := New(apiKey)
	assert.NoError(err)

	models, err := c.ListModels(context.TODO())
	assert.NoError(err)
	assert.NotEmpty(models)
	for _, m := range models {
		assert.NotEmpty(m.Name)
	}

	model, err := c.GetModel(context.TODO(), gemini.DefaultModel)
	assert.NoError(err)
	assert.Equal(gemini.DefaultModel, model.Name)

	_, err = c.GetModel(context.TODO(), "nonexistent-model-xyz")
	assert.Error(err)
}
