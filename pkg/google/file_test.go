package google

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// FILES

// uploadServer implements the resumable upload protocol and file metadata
type uploadServer struct {
	*httptest.Server
	mimetype string
	length   string
	name     string
	content  []byte
	states   []string
	gets     atomic.Int32
}

func newUploadServer(t *testing.T, states ...string) (*uploadServer, *Client) {
	t.Helper()
	s := &uploadServer{states: states}
	mux := http.NewServeMux()
	mux.HandleFunc("/upload/v1beta/files", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "start", r.Header.Get("X-Goog-Upload-Command"))
		assert.Equal(t, "resumable", r.Header.Get("X-Goog-Upload-Protocol"))
		s.mimetype = r.Header.Get("X-Goog-Upload-Header-Content-Type")
		s.length = r.Header.Get("X-Goog-Upload-Header-Content-Length")
		var body struct {
			File struct {
				DisplayName string `json:"display_name"`
			} `json:"file"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.name = body.File.DisplayName
		w.Header().Set("X-Goog-Upload-URL", s.URL+"/upload/session/1")
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	mux.HandleFunc("/upload/session/1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "upload, finalize", r.Header.Get("X-Goog-Upload-Command"))
		assert.Equal(t, "0", r.Header.Get("X-Goog-Upload-Offset"))
		s.content, _ = io.ReadAll(r.Body)
		writeJSON(w, http.StatusOK, map[string]any{"file": s.resource(schema.FileStateProcessing)})
	})
	mux.HandleFunc("/v1beta/files/abc", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
		n := int(s.gets.Add(1)) - 1
		state := schema.FileStateActive
		if len(s.states) > 0 {
			state = s.states[min(n, len(s.states)-1)]
		}
		writeJSON(w, http.StatusOK, s.resource(state))
	})
	mux.HandleFunc("/v1beta/files", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(w, http.StatusOK, map[string]any{"files": []any{s.resource(schema.FileStateActive)}, "nextPageToken": "next"})
		} else {
			writeJSON(w, http.StatusOK, map[string]any{"files": []any{}})
		}
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)

	c, err := NewWithEndpoint(s.URL+"/v1beta", "test-key")
	require.NoError(t, err)
	return s, c
}

func (s *uploadServer) resource(state string) map[string]any {
	resource := map[string]any{
		"name":       "files/abc",
		"mimeType":   s.mimetype,
		"uri":        s.URL + "/v1beta/files/abc",
		"state":      state,
		"createTime": "2026-10-18T10:00:00.123456Z",
	}
	if s.length != "" {
		resource["sizeBytes"] = s.length
	}
	if state == schema.FileStateFailed {
		resource["error"] = map[string]any{"code": 400, "message": "unsupported codec"}
	}
	return resource
}

func Test_file_001(t *testing.T) {
	// Upload detects the type from the filename and names the file
	assert := assert.New(t)
	s, c := newUploadServer(t)

	content := []byte("%PDF-1.4 test document")
	file, err := c.UploadFile(context.TODO(), "/tmp/report.pdf", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal("application/pdf", s.mimetype)
	assert.Equal("22", s.length)
	assert.Equal("report.pdf", s.name)
	assert.Equal(content, s.content)

	assert.Equal("files/abc", file.Name)
	assert.Equal(int64(22), file.Size)
	assert.Equal(schema.FileStateProcessing, file.State)
	assert.False(file.Active())
	assert.Equal(2026, file.Created.Year())
}

func Test_file_002(t *testing.T) {
	// Type and display name may be given, and empty content is rejected
	assert := assert.New(t)
	s, c := newUploadServer(t)

	_, err := c.UploadFile(context.TODO(), "clip", strings.NewReader("RIFF....WAVE"), WithMIMEType("audio/wav"), WithDisplayName("My clip"))
	require.NoError(t, err)
	assert.Equal("audio/wav", s.mimetype)
	assert.Equal("My clip", s.name)

	_, err = c.UploadFile(context.TODO(), "empty.txt", strings.NewReader(""))
	assert.ErrorIs(err, gemini.ErrBadParameter)
}

func Test_file_003(t *testing.T) {
	// Waiting polls until the file is active
	assert := assert.New(t)
	s, c := newUploadServer(t, schema.FileStateProcessing, schema.FileStateProcessing, schema.FileStateActive)

	file, err := c.waitForFile(context.TODO(), "files/abc", time.Millisecond, 5)
	require.NoError(t, err)
	assert.True(file.Active())
	assert.Equal(int32(3), s.gets.Load())
}

func Test_file_004(t *testing.T) {
	// Processing failure stops polling
	assert := assert.New(t)
	s, c := newUploadServer(t, schema.FileStateFailed)

	_, err := c.waitForFile(context.TODO(), "abc", time.Millisecond, 5)
	assert.ErrorIs(err, gemini.ErrProvider)
	assert.Contains(err.Error(), "unsupported codec")
	assert.Equal(int32(1), s.gets.Load())
}

func Test_file_005(t *testing.T) {
	// A file which never becomes active is a conflict
	assert := assert.New(t)
	s, c := newUploadServer(t, schema.FileStateProcessing)

	_, err := c.waitForFile(context.TODO(), "abc", time.Millisecond, 3)
	assert.ErrorIs(err, gemini.ErrConflict)
	assert.Equal(int32(3), s.gets.Load())
}

func Test_file_006(t *testing.T) {
	// List pages and delete
	assert := assert.New(t)
	_, c := newUploadServer(t)

	page, err := c.ListFiles(context.TODO(), WithPageSize(10))
	require.NoError(t, err)
	assert.Len(page.Body, 1)
	assert.Equal("next", page.NextPageToken)

	page, err = c.ListFiles(context.TODO(), WithPageToken(page.NextPageToken))
	require.NoError(t, err)
	assert.Empty(page.Body)
	assert.Empty(page.NextPageToken)

	assert.NoError(c.DeleteFile(context.TODO(), "files/abc"))
	assert.ErrorIs(c.DeleteFile(context.TODO(), "files/missing"), gemini.ErrNotFound)
}

func Test_file_007(t *testing.T) {
	// MIME type detection
	assert := assert.New(t)
	assert.Equal("audio/mp3", DetectMIMEType("song.MP3", nil))
	assert.Equal("video/quicktime", DetectMIMEType("clip.mov", nil))
	assert.Equal("application/octet-stream", DetectMIMEType("unknown", nil))
	assert.Equal("image/png", DetectMIMEType("", []byte("\x89PNG\r\n\x1a\n0000")))
	assert.Equal("text/plain", DetectMIMEType("notes", []byte("just some text")))

	t2, err := DetectMIMETypeReader("", strings.NewReader("%PDF-1.7"))
	assert.NoError(err)
	assert.Equal("application/pdf", t2)
}
