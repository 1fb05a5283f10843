package google

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"testing"
	"time"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

// lastParts returns the parts of the final turn of a recorded request
func lastParts(t *testing.T, body map[string]any) []map[string]any {
	t.Helper()
	contents := body["contents"].([]any)
	require.NotEmpty(t, contents)
	parts := contents[len(contents)-1].(map[string]any)["parts"].([]any)
	result := make([]map[string]any, 0, len(parts))
	for _, part := range parts {
		result = append(result, part.(map[string]any))
	}
	return result
}

///////////////////////////////////////////////////////////////////////////////
// AUDIO

func Test_audio_001(t *testing.T) {
	// Inline audio with a language
	assert := assert.New(t)
	var req capture
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.record(r)
		writeJSON(w, http.StatusOK, textResponse("Bonjour"))
	})

	response, err := c.Transcribe(context.TODO(), "", "hello.wav", []byte("RIFF0000WAVE"), WithLanguage("French"))
	require.NoError(t, err)
	assert.Equal("Bonjour", response.Text())
	assert.Equal("/v1beta/models/"+DefaultAudioModel+":generateContent", req.paths[0])

	parts := lastParts(t, req.bodies[0])
	require.Len(t, parts, 2)
	assert.Equal("Transcribe this audio clip in French", parts[0]["text"])
	assert.Equal("audio/wav", parts[1]["inlineData"].(map[string]any)["mimeType"])

	_, err = c.Transcribe(context.TODO(), "", "empty.wav", nil)
	assert.ErrorIs(err, gemini.ErrBadParameter)
}

func Test_audio_002(t *testing.T) {
	// Uploaded audio defaults to mp3
	assert := assert.New(t)
	var req capture
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.record(r)
		writeJSON(w, http.StatusOK, textResponse("Hello"))
	})

	_, err := c.TranscribeURI(context.TODO(), "", "https://example.com/files/a1", WithPrompt("Summarise this clip"))
	require.NoError(t, err)
	parts := lastParts(t, req.bodies[0])
	require.Len(t, parts, 2)
	assert.Equal("Summarise this clip", parts[0]["text"])
	file := parts[1]["fileData"].(map[string]any)
	assert.Equal("audio/mp3", file["mimeType"])
	assert.Equal("https://example.com/files/a1", file["fileUri"])
}

///////////////////////////////////////////////////////////////////////////////
// VIDEO

func Test_video_001(t *testing.T) {
	assert := assert.New(t)
	for _, url := range []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"http://youtube.com/watch?v=dQw4w9WgXcQ&t=10",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://youtube.com/v/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/abc_DEF-123",
	} {
		assert.True(IsYouTubeURL(url), url)
	}
	for _, url := range []string{
		"",
		"youtube.com/watch?v=dQw4w9WgXcQ",
		"https://vimeo.com/123456",
		"https://www.youtube.com/",
		"https://example.com/youtu.be/abc",
	} {
		assert.False(IsYouTubeURL(url), url)
	}
}

func Test_video_002(t *testing.T) {
	// YouTube videos are sent as file data, with an optional segment
	assert := assert.New(t)
	var req capture
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.record(r)
		writeJSON(w, http.StatusOK, textResponse("01:15"))
	})

	_, err := c.VideoTimestamps(context.TODO(), "", "https://youtu.be/dQw4w9WgXcQ", "a red car", WithVideoSegment(time.Minute, 0))
	require.NoError(t, err)
	assert.Equal("/v1beta/models/"+DefaultVideoModel+":generateContent", req.paths[0])
	parts := lastParts(t, req.bodies[0])
	require.Len(t, parts, 2)
	assert.Contains(parts[0]["text"], `"a red car"`)
	assert.Contains(parts[0]["text"], "MM:SS")
	assert.Equal("https://youtu.be/dQw4w9WgXcQ", parts[1]["fileData"].(map[string]any)["fileUri"])
	assert.Equal("60s", parts[1]["videoMetadata"].(map[string]any)["startOffset"])

	_, err = c.VideoTimestamps(context.TODO(), "", "https://youtu.be/dQw4w9WgXcQ", "")
	assert.ErrorIs(err, gemini.ErrBadParameter)
}

func Test_video_003(t *testing.T) {
	// Uploaded videos default to mp4, and describe uses the default prompt
	assert := assert.New(t)
	var req capture
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.record(r)
		writeJSON(w, http.StatusOK, textResponse("A cat"))
	})

	response, err := c.DescribeVideo(context.TODO(), "", "https://example.com/files/v1")
	require.NoError(t, err)
	assert.Equal("A cat", response.Text())
	parts := lastParts(t, req.bodies[0])
	assert.Equal("Describe this video in detail.", parts[0]["text"])
	assert.Equal("video/mp4", parts[1]["fileData"].(map[string]any)["mimeType"])
}

func Test_video_004(t *testing.T) {
	// Inline videos are limited in size
	assert := assert.New(t)
	var req capture
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.record(r)
		writeJSON(w, http.StatusOK, textResponse("ok"))
	})

	_, err := c.AnalyzeVideo(context.TODO(), "", "", "clip.mp4", make([]byte, MaxInlineVideoSize+1))
	assert.ErrorIs(err, gemini.ErrBadParameter)
	assert.Empty(req.paths)

	_, err = c.AnalyzeVideo(context.TODO(), "", "What happens?", "clip.webm", []byte("webm data"))
	require.NoError(t, err)
	parts := lastParts(t, req.bodies[0])
	assert.Equal("What happens?", parts[0]["text"])
	assert.Equal("video/webm", parts[1]["inlineData"].(map[string]any)["mimeType"])
}

///////////////////////////////////////////////////////////////////////////////
// DOCUMENTS

func Test_document_001(t *testing.T) {
	// Process uploads, waits and asks about the file
	assert := assert.New(t)
	s, c := newUploadServer(t, "ACTIVE")

	var req capture
	s.Config.Handler.(*http.ServeMux).HandleFunc("/v1beta/models/", func(w http.ResponseWriter, r *http.Request) {
		req.record(r)
		writeJSON(w, http.StatusOK, textResponse("Three sections"))
	})

	response, file, err := c.ProcessDocument(context.TODO(), "", "How many sections?", "handbook.pdf", bytes.NewReader([]byte("%PDF-1.4 handbook")))
	require.NoError(t, err)
	assert.Equal("Three sections", response.Text())
	assert.Equal("files/abc", file.Name)
	assert.Equal("/v1beta/models/"+DefaultDocumentModel+":generateContent", req.paths[0])

	parts := lastParts(t, req.bodies[0])
	require.Len(t, parts, 2)
	assert.Equal("How many sections?", parts[0]["text"])
	assert.Equal("application/pdf", parts[1]["fileData"].(map[string]any)["mimeType"])

	_, _, err = c.ProcessDocument(context.TODO(), "", "", "handbook.pdf", bytes.NewReader([]byte("x")))
	assert.ErrorIs(err, gemini.ErrBadParameter)
}

func Test_document_002(t *testing.T) {
	// Cache uploads and creates cached content referencing the file
	assert := assert.New(t)
	s, c := newUploadServer(t, "ACTIVE")

	var req capture
	s.Config.Handler.(*http.ServeMux).HandleFunc("/v1beta/cachedContents", func(w http.ResponseWriter, r *http.Request) {
		req.record(r)
		writeJSON(w, http.StatusOK, cacheBody())
	})

	cache, file, err := c.CacheDocument(context.TODO(), "", "notes.txt", bytes.NewReader([]byte("some notes")), WithSystemPrompt("Use the notes"))
	require.NoError(t, err)
	assert.Equal("cachedContents/c1", cache.Name)
	assert.Equal("files/abc", file.Name)
	body := req.bodies[0]
	assert.Equal("models/"+DefaultDocumentModel, body["model"])
	parts := lastParts(t, body)
	assert.Equal("text/plain", parts[0]["fileData"].(map[string]any)["mimeType"])
}

///////////////////////////////////////////////////////////////////////////////
// IMAGES

func Test_image_001(t *testing.T) {
	// Gemini image models return images in the response
	assert := assert.New(t)
	png := base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n"))
	var req capture
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.record(r)
		writeJSON(w, http.StatusOK, map[string]any{
			"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{
				map[string]any{"text": "A lighthouse"},
				map[string]any{"inlineData": map[string]any{"mimeType": "image/png", "data": png}},
			}}}},
		})
	})

	images, text, err := c.GenerateImages(context.TODO(), "", "Draw a lighthouse")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal("A lighthouse", text)
	assert.Equal("/v1beta/models/"+DefaultImageModel+":generateContent", req.paths[0])
	config := req.bodies[0]["generationConfig"].(map[string]any)
	assert.Equal([]any{"TEXT", "IMAGE"}, config["responseModalities"])

	_, _, err = c.GenerateImages(context.TODO(), "", " ")
	assert.ErrorIs(err, gemini.ErrBadParameter)
}

func Test_image_002(t *testing.T) {
	// A refusal without images
	assert := assert.New(t)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"candidates": []any{map[string]any{"finishReason": "IMAGE_SAFETY"}},
		})
	})
	_, _, err := c.GenerateImages(context.TODO(), "", "Something")
	assert.ErrorIs(err, gemini.ErrRefusal)
}

func Test_image_003(t *testing.T) {
	// Imagen models use predict, with clamped sample count
	assert := assert.New(t)
	png := base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\n"))
	var req capture
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req.record(r)
		writeJSON(w, http.StatusOK, map[string]any{
			"predictions": []any{
				map[string]any{"bytesBase64Encoded": png, "mimeType": "image/png"},
				map[string]any{"bytesBase64Encoded": png},
			},
		})
	})

	images, _, err := c.GenerateImages(context.TODO(), DefaultImagenModel, "A forest", WithSampleCount(10), WithAspectRatio("1792x1024"))
	require.NoError(t, err)
	assert.Len(images, 2)
	assert.Equal("image/png", images[1].MIMEType)
	assert.Equal("/v1beta/models/"+DefaultImagenModel+":predict", req.paths[0])
	parameters := req.bodies[0]["parameters"].(map[string]any)
	assert.Equal(float64(4), parameters["sampleCount"])
	assert.Equal("16:9", parameters["aspectRatio"])
	assert.Equal("ALLOW_ADULT", parameters["personGeneration"])
}

func Test_image_004(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("1:1", aspectRatio("1024x1024"))
	assert.Equal("3:4", aspectRatio("512x768"))
	assert.Equal("9:16", aspectRatio("9:16"))
	assert.Equal("1:1", aspectRatio("100x100"))
}
