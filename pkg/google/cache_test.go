package google

import (
	"context"
	"net/http"
	"testing"
	"time"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func cacheBody() map[string]any {
	return map[string]any{
		"name":          "cachedContents/c1",
		"displayName":   "handbook",
		"model":         "models/gemini-2.5-flash",
		"expireTime":    "2026-10-19T10:00:00Z",
		"usageMetadata": map[string]any{"totalTokenCount": 4096},
	}
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_cache_001(t *testing.T) {
	// Create sends the model, contents, system prompt and default TTL
	assert := assert.New(t)
	var req capture
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.record(r)
		writeJSON(w, http.StatusOK, cacheBody())
	})

	contents := []*Content{NewContent(schema.RoleUser, FilePart("application/pdf", "https://example.com/files/doc"))}
	cache, err := c.CreateCache(context.TODO(), "gemini-2.5-flash", contents, WithSystemPrompt("Answer from the handbook"), WithDisplayName("handbook"))
	require.NoError(t, err)
	assert.Equal("cachedContents/c1", cache.Name)
	assert.Equal("gemini-2.5-flash", cache.Model)
	assert.Equal(uint(4096), cache.TotalTokens)
	assert.Equal(2026, cache.Expires.Year())

	assert.Equal("/v1beta/cachedContents", req.paths[0])
	body := req.bodies[0]
	assert.Equal("models/gemini-2.5-flash", body["model"])
	assert.Equal("86400s", body["ttl"])
	assert.Equal("handbook", body["displayName"])
	assert.NotNil(body["systemInstruction"])
	assert.Len(body["contents"], 1)
}

func Test_cache_002(t *testing.T) {
	// TTL may be given, and contents are required
	assert := assert.New(t)
	var req capture
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.record(r)
		writeJSON(w, http.StatusOK, cacheBody())
	})

	contents := []*Content{NewContent(schema.RoleUser, TextPart("context"))}
	_, err := c.CreateCache(context.TODO(), "", contents, WithTTL(90*time.Minute))
	require.NoError(t, err)
	assert.Equal("5400s", req.bodies[0]["ttl"])
	assert.Equal("models/"+gemini.DefaultModel, req.bodies[0]["model"])

	_, err = c.CreateCache(context.TODO(), "", nil)
	assert.ErrorIs(err, gemini.ErrBadParameter)
}

func Test_cache_003(t *testing.T) {
	// Update TTL patches with an update mask
	assert := assert.New(t)
	var method, mask string
	var req capture
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, mask = r.Method, r.URL.Query().Get("updateMask")
		req.record(r)
		writeJSON(w, http.StatusOK, cacheBody())
	})

	_, err := c.UpdateCacheTTL(context.TODO(), "cachedContents/c1", 2*time.Hour)
	require.NoError(t, err)
	assert.Equal(http.MethodPatch, method)
	assert.Equal("ttl", mask)
	assert.Equal("/v1beta/cachedContents/c1", req.paths[0])
	assert.Equal("7200s", req.bodies[0]["ttl"])

	_, err = c.UpdateCacheTTL(context.TODO(), "c1", 0)
	assert.ErrorIs(err, gemini.ErrBadParameter)
}

func Test_cache_004(t *testing.T) {
	// List, get and delete
	assert := assert.New(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1beta/cachedContents":
			writeJSON(w, http.StatusOK, map[string]any{"cachedContents": []any{cacheBody()}})
		case r.URL.Path == "/v1beta/cachedContents/c1" && r.Method == http.MethodDelete:
			writeJSON(w, http.StatusOK, map[string]any{})
		case r.URL.Path == "/v1beta/cachedContents/c1":
			writeJSON(w, http.StatusOK, cacheBody())
		default:
			writeError(w, http.StatusNotFound, "not found")
		}
	})

	page, err := c.ListCaches(context.TODO())
	require.NoError(t, err)
	assert.Len(page.Body, 1)

	cache, err := c.GetCache(context.TODO(), "c1")
	require.NoError(t, err)
	assert.Equal("handbook", cache.DisplayName)

	assert.NoError(c.DeleteCache(context.TODO(), "cachedContents/c1"))
	_, err = c.GetCache(context.TODO(), "c2")
	assert.ErrorIs(err, gemini.ErrNotFound)
}
