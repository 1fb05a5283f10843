package google

import (
	"context"
	"errors"
	"io"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	gemini "github.com/mutablelogic/go-gemini"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Generate sends a single prompt to the model. An empty model name selects
// gemini.DefaultModel. Media can be attached with WithInlineData,
// WithFileData and WithYouTube.
func (c *Client) Generate(ctx context.Context, model, prompt string, opts ...opt.Opt) (*Response, error) {
	var contents []*Content
	if prompt = strings.TrimSpace(prompt); prompt != "" {
		contents = append(contents, NewContent(schema.RoleUser, TextPart(prompt)))
	}
	return c.GenerateContent(ctx, model, contents, opts...)
}

// Chat sends a conversation to the model
func (c *Client) Chat(ctx context.Context, model string, turns []schema.Turn, opts ...opt.Opt) (*Response, error) {
	contents, err := contentsFromTurns(turns)
	if err != nil {
		return nil, err
	}
	return c.GenerateContent(ctx, model, contents, opts...)
}

// GenerateContent sends contents to the model and returns the response.
// With WithStream, text is delivered as it is generated and the
// accumulated response is returned at the end of the stream.
func (c *Client) GenerateContent(ctx context.Context, model string, contents []*Content, opts ...opt.Opt) (*Response, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}
	response, err := c.generate(ctx, model, contents, options)
	if err != nil {
		return nil, providerError(err)
	}
	return response, nil
}

// Invoke performs one round trip with the conversation and returns the
// text of the first candidate. A response without candidates returns an
// error matching gemini.ErrNoCandidates, and any failure to obtain a
// response returns an error matching gemini.ErrProvider.
func (c *Client) Invoke(ctx context.Context, model string, turns []schema.Turn, opts ...opt.Opt) (*schema.Completion, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}
	contents, err := contentsFromTurns(turns)
	if err != nil {
		return nil, err
	}
	response, err := c.generate(ctx, model, contents, options)
	if errors.Is(err, gemini.ErrBadParameter) {
		return nil, err
	} else if err != nil {
		return nil, gemini.ErrProvider.Wrap(err)
	}
	if len(response.Candidates()) == 0 {
		if feedback := response.PromptFeedback; feedback != nil && feedback.BlockReason != "" {
			return nil, gemini.ErrNoCandidates.Withf("prompt blocked: %s", feedback.BlockReason)
		}
		return nil, gemini.ErrNoCandidates
	}
	return response.Completion(), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// generate builds the request and sends it, returning transport errors
// unchanged
func (c *Client) generate(ctx context.Context, model string, contents []*Content, options *opt.Options) (*Response, error) {
	request, err := generateRequestFromOpts(contents, options)
	if err != nil {
		return nil, err
	}
	payload, err := client.NewJSONRequest(request)
	if err != nil {
		return nil, err
	}

	// Streaming path
	model = modelName(model)
	if fn := options.GetStream(); fn != nil {
		return c.generateStream(ctx, model, payload, fn)
	}

	// Non-streaming path
	response := new(Response)
	if err := c.DoWithContext(ctx, payload, response, client.OptPath("models", model+":generateContent")); err != nil {
		return nil, err
	}
	return response, nil
}

// generateStream reads the server-sent events of a streaming request and
// accumulates the chunks into a single response
func (c *Client) generateStream(ctx context.Context, model string, payload client.Payload, fn opt.StreamFn) (*Response, error) {
	var (
		role  string
		parts []*Part
		last  *Candidate
		final generateResponse
	)

	callback := func(event client.TextStreamEvent) error {
		var chunk generateResponse
		if err := event.Json(&chunk); err != nil {
			return err
		}

		// Usage, feedback and version arrive on any chunk
		if chunk.UsageMetadata != nil {
			final.UsageMetadata = chunk.UsageMetadata
		}
		if chunk.PromptFeedback != nil {
			final.PromptFeedback = chunk.PromptFeedback
		}
		if chunk.ModelVersion != "" {
			final.ModelVersion = chunk.ModelVersion
		}
		if chunk.ResponseID != "" {
			final.ResponseID = chunk.ResponseID
		}
		if len(chunk.Candidates) == 0 {
			return nil
		}

		candidate := chunk.Candidates[0]
		last = candidate
		if candidate.Content == nil {
			return nil
		}
		if role == "" {
			role = candidate.Content.Role
		}
		for _, part := range candidate.Content.Parts {
			parts = append(parts, part)
			if part.Text == "" {
				continue
			}
			if part.Thought {
				fn("thinking", part.Text)
			} else {
				fn(schema.RoleModel, part.Text)
			}
		}
		return nil
	}

	var discard generateResponse
	if err := c.DoWithContext(ctx, payload, &discard,
		client.OptPath("models", model+":streamGenerateContent"),
		client.OptQuery(map[string][]string{"alt": {"sse"}}),
		client.OptTextStreamCallback(callback),
	); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	// Merge adjacent text parts so the result reads like a single response
	if last != nil {
		final.Candidates = []*Candidate{{
			Content:            NewContent(role, mergeText(parts)...),
			FinishReason:       last.FinishReason,
			SafetyRatings:      last.SafetyRatings,
			GroundingMetadata:  last.GroundingMetadata,
			URLContextMetadata: last.URLContextMetadata,
		}}
	}
	return &Response{generateResponse: final}, nil
}

// mergeText joins runs of consecutive text parts of the same kind
func mergeText(parts []*Part) []*Part {
	result := make([]*Part, 0, len(parts))
	for _, part := range parts {
		if n := len(result); n > 0 && isPlainText(part) && isPlainText(result[n-1]) && part.Thought == result[n-1].Thought {
			merged := &Part{Text: result[n-1].Text + part.Text, Thought: part.Thought, ThoughtSignature: result[n-1].ThoughtSignature}
			if part.ThoughtSignature != "" {
				merged.ThoughtSignature = part.ThoughtSignature
			}
			result[n-1] = merged
			continue
		}
		result = append(result, part)
	}
	return result
}

func isPlainText(part *Part) bool {
	return part.Text != "" && part.InlineData == nil && part.FileData == nil && part.FunctionCall == nil
}

// modelName removes the resource prefix, and substitutes the default
// model for an empty name
func modelName(model string) string {
	return modelNameOr(model, gemini.DefaultModel)
}

func modelNameOr(model, def string) string {
	model = strings.TrimPrefix(strings.TrimSpace(model), "models/")
	if model == "" {
		return def
	}
	return model
}
