package google

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	// Packages
	mimetype "github.com/gabriel-vasile/mimetype"
	client "github.com/mutablelogic/go-client"
	gemini "github.com/mutablelogic/go-gemini"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Response is the result of a generate request. The raw body is retained
// so callers can inspect fields the accessors do not expose.
type Response struct {
	generateResponse
	raw json.RawMessage
}

// Image is decoded image data from a response
type Image struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"-"`
}

var _ client.Unmarshaler = (*Response)(nil)

///////////////////////////////////////////////////////////////////////////////
// UNMARSHAL

func (r *Response) Unmarshal(header http.Header, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	r.raw = data
	return json.Unmarshal(data, &r.generateResponse)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Raw returns the response body as received
func (r *Response) Raw() json.RawMessage {
	if r.raw == nil {
		if data, err := json.Marshal(r.generateResponse); err == nil {
			return data
		}
	}
	return r.raw
}

// Candidates returns all the response candidates
func (r *Response) Candidates() []*Candidate {
	return r.generateResponse.Candidates
}

// Success returns true if there is at least one candidate and the prompt
// was not blocked
func (r *Response) Success() bool {
	return len(r.generateResponse.Candidates) > 0 && !r.SafetyBlocked()
}

// Parts returns the content parts of the first candidate
func (r *Response) Parts() []*Part {
	if candidate := r.first(); candidate != nil && candidate.Content != nil {
		return candidate.Content.Parts
	}
	return nil
}

// Text returns the text parts of the first candidate, joined with newlines.
// Thought parts are not included.
func (r *Response) Text() string {
	var result []string
	for _, part := range r.Parts() {
		if part.Text != "" && !part.Thought {
			result = append(result, part.Text)
		}
	}
	return strings.Join(result, "\n")
}

// Thoughts returns the thought summaries of the first candidate
func (r *Response) Thoughts() string {
	var result []string
	for _, part := range r.Parts() {
		if part.Thought && part.Text != "" {
			result = append(result, part.Text)
		}
	}
	return strings.Join(result, "\n")
}

// Images returns the inline images of the first candidate
func (r *Response) Images() ([]Image, error) {
	var result []Image
	for _, part := range r.Parts() {
		if part.InlineData == nil || !strings.HasPrefix(part.InlineData.MIMEType, "image/") {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
		if err != nil {
			return nil, gemini.ErrProvider.Withf("image data: %v", err)
		}
		result = append(result, Image{MIMEType: part.InlineData.MIMEType, Data: data})
	}
	return result, nil
}

// FunctionCalls returns the function calls requested by the first candidate
func (r *Response) FunctionCalls() []*FunctionCall {
	var result []*FunctionCall
	for _, part := range r.Parts() {
		if part.FunctionCall != nil {
			result = append(result, part.FunctionCall)
		}
	}
	return result
}

// FinishReason returns the reason the first candidate stopped generating
func (r *Response) FinishReason() string {
	if candidate := r.first(); candidate != nil {
		return candidate.FinishReason
	}
	return ""
}

// SafetyBlocked returns true if the prompt or the first candidate was
// blocked by a safety filter
func (r *Response) SafetyBlocked() bool {
	if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
		return true
	}
	switch r.FinishReason() {
	case finishReasonSafety, finishReasonBlocklist, finishReasonProhibited, finishReasonSPII, finishReasonImageSafety:
		return true
	}
	return false
}

// Grounding returns the search grounding metadata of the first candidate
func (r *Response) Grounding() *GroundingMetadata {
	if candidate := r.first(); candidate != nil {
		return candidate.GroundingMetadata
	}
	return nil
}

// Usage returns token counts, or nil if the response did not include them
func (r *Response) Usage() *schema.Usage {
	if r.UsageMetadata == nil {
		return nil
	}
	return &schema.Usage{
		InputTokens:  r.UsageMetadata.PromptTokenCount,
		OutputTokens: r.UsageMetadata.CandidatesTokenCount + r.UsageMetadata.ThoughtsTokenCount,
		CachedTokens: r.UsageMetadata.CachedContentTokenCount,
		TotalTokens:  r.UsageMetadata.TotalTokenCount,
	}
}

// JSON decodes the response text into v. Markdown code fences around the
// text are removed first.
func (r *Response) JSON(v any) error {
	text := strings.TrimSpace(r.Text())
	if fenced, ok := strings.CutPrefix(text, "```"); ok {
		fenced = strings.TrimPrefix(fenced, "json")
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(fenced), "```"))
	}
	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		return gemini.ErrBadParameter.With("response is not JSON")
	}
	return json.Unmarshal([]byte(text), v)
}

// Completion returns the response in the form used for thread runs
func (r *Response) Completion() *schema.Completion {
	return &schema.Completion{
		Text:         r.Text(),
		FinishReason: r.FinishReason(),
		Usage:        r.Usage(),
		Response:     r.Raw(),
	}
}

///////////////////////////////////////////////////////////////////////////////
// IMAGE

// Ext returns the file extension for the image, including the dot
func (i Image) Ext() string {
	if m := mimetype.Lookup(i.MIMEType); m != nil {
		return m.Extension()
	}
	return mimetype.Detect(i.Data).Extension()
}

// WriteTo writes the image data to w
func (i Image) WriteTo(w io.Writer) (int64, error) {
	return io.Copy(w, bytes.NewReader(i.Data))
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r Response) String() string {
	return types.Stringify(r.generateResponse)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (r *Response) first() *Candidate {
	if len(r.generateResponse.Candidates) == 0 {
		return nil
	}
	return r.generateResponse.Candidates[0]
}
