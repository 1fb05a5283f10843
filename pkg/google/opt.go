package google

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
)

///////////////////////////////////////////////////////////////////////////////
// GENERATION OPTIONS
//
// See: https://ai.google.dev/gemini-api/docs/text-generation

// WithSystemPrompt sets the system instruction for the request.
func WithSystemPrompt(value string) opt.Opt {
	return opt.WithSystemPrompt(value)
}

// WithTemperature sets the temperature for the request (0.0 to 2.0).
func WithTemperature(value float64) opt.Opt {
	if value < 0 || value > 2 {
		return opt.Error(fmt.Errorf("temperature must be between 0.0 and 2.0"))
	}
	return opt.SetFloat64(opt.TemperatureKey, value)
}

// WithMaxTokens sets the maximum number of tokens to generate (minimum 1).
func WithMaxTokens(value uint) opt.Opt {
	if value < 1 {
		return opt.Error(fmt.Errorf("max_tokens must be at least 1"))
	}
	return opt.SetUint(opt.MaxTokensKey, value)
}

// WithTopK limits sampling to the K most probable tokens (minimum 1).
func WithTopK(value uint) opt.Opt {
	if value < 1 {
		return opt.Error(fmt.Errorf("top_k must be at least 1"))
	}
	return opt.SetUint(opt.TopKKey, value)
}

// WithTopP sets the nucleus sampling parameter (0.0 to 1.0).
func WithTopP(value float64) opt.Opt {
	if value < 0 || value > 1 {
		return opt.Error(fmt.Errorf("top_p must be between 0.0 and 1.0"))
	}
	return opt.SetFloat64(opt.TopPKey, value)
}

// WithStopSequences stops generation at any of the given sequences.
func WithStopSequences(values ...string) opt.Opt {
	if len(values) == 0 {
		return opt.Error(fmt.Errorf("at least one stop sequence is required"))
	}
	return opt.AddString(opt.StopSequencesKey, values...)
}

// WithSeed sets the seed for repeatable generation.
func WithSeed(value int) opt.Opt {
	return opt.SetInt(opt.SeedKey, value)
}

// WithThinking asks the model to include thought summaries.
//
// See: https://ai.google.dev/gemini-api/docs/thinking
func WithThinking() opt.Opt {
	return opt.SetBool(opt.ThinkingKey, true)
}

// WithThinkingBudget sets the number of thinking tokens. Zero disables
// thinking on models which allow it.
func WithThinkingBudget(tokens uint) opt.Opt {
	return opt.SetUint(opt.ThinkingBudgetKey, tokens)
}

// WithJSONOutput constrains the model to produce JSON conforming to the
// schema.
//
// See: https://ai.google.dev/gemini-api/docs/structured-output
func WithJSONOutput(schema *jsonschema.Schema) opt.Opt {
	if schema == nil {
		return opt.Error(fmt.Errorf("schema is required for JSON output"))
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return opt.Error(fmt.Errorf("failed to serialize JSON schema: %w", err))
	}
	return opt.SetString(opt.JSONSchemaKey, string(data))
}

// WithResponseMIMEType sets the output MIME type, for example
// "application/json" or "text/x.enum".
func WithResponseMIMEType(value string) opt.Opt {
	return opt.SetString(opt.ResponseMIMETypeKey, value)
}

// WithModalities sets the response modalities, for example "TEXT" and
// "IMAGE".
func WithModalities(values ...string) opt.Opt {
	if len(values) == 0 {
		return opt.Error(fmt.Errorf("at least one modality is required"))
	}
	upper := make([]string, 0, len(values))
	for _, value := range values {
		upper = append(upper, strings.ToUpper(strings.TrimSpace(value)))
	}
	return opt.AddString(opt.ModalitiesKey, upper...)
}

// WithCachedContent generates with previously cached content, using its
// name ("cachedContents/...").
//
// See: https://ai.google.dev/gemini-api/docs/caching
func WithCachedContent(name string) opt.Opt {
	if !strings.HasPrefix(name, "cachedContents/") {
		name = "cachedContents/" + name
	}
	return opt.SetString(opt.CachedContentKey, name)
}

// WithStream delivers generated text to fn as it arrives.
func WithStream(fn opt.StreamFn) opt.Opt {
	return opt.WithStream(fn)
}

///////////////////////////////////////////////////////////////////////////////
// TOOL & SAFETY OPTIONS

// WithTools makes tools available to the model.
//
// See: https://ai.google.dev/gemini-api/docs/function-calling
func WithTools(tools ...*Tool) opt.Opt {
	opts := make([]opt.Opt, 0, len(tools))
	for _, tool := range tools {
		if tool != nil {
			opts = append(opts, opt.AddAny(opt.ToolsKey, tool))
		}
	}
	return opt.WithOpts(opts...)
}

// WithToolMode sets the function calling mode (AUTO, ANY, NONE or
// VALIDATED), optionally restricting which functions may be called.
func WithToolMode(mode string, allowed ...string) opt.Opt {
	mode = strings.ToUpper(strings.TrimSpace(mode))
	switch mode {
	case "AUTO", "ANY", "NONE", "VALIDATED":
		return opt.SetAny(opt.ToolModeKey, &functionCallingConfig{Mode: mode, AllowedFunctionNames: allowed})
	default:
		return opt.Error(fmt.Errorf("invalid tool mode %q", mode))
	}
}

// WithSafety sets the block threshold for a harm category, for example
// WithSafety("HARM_CATEGORY_HARASSMENT", "BLOCK_ONLY_HIGH").
//
// See: https://ai.google.dev/gemini-api/docs/safety-settings
func WithSafety(category, threshold string) opt.Opt {
	return opt.AddAny(opt.SafetyKey, &SafetySetting{Category: category, Threshold: threshold})
}

///////////////////////////////////////////////////////////////////////////////
// CONTENT OPTIONS

// WithParts adds parts to the final user turn of a request.
func WithParts(parts ...*Part) opt.Opt {
	opts := make([]opt.Opt, 0, len(parts))
	for _, part := range parts {
		if part != nil {
			opts = append(opts, opt.AddAny(opt.ContentKey, part))
		}
	}
	return opt.WithOpts(opts...)
}

// WithInlineData adds media bytes to the final user turn. When mimetype is
// empty, it is detected from the data.
func WithInlineData(mimetype string, data []byte) opt.Opt {
	if len(data) == 0 {
		return opt.Error(fmt.Errorf("inline data is empty"))
	}
	if mimetype == "" {
		mimetype = DetectMIMEType("", data)
	}
	return WithParts(InlinePart(mimetype, data))
}

// WithFileData adds media referenced by URI to the final user turn.
func WithFileData(mimetype, uri string) opt.Opt {
	if uri == "" {
		return opt.Error(fmt.Errorf("file uri is required"))
	}
	return WithParts(FilePart(mimetype, uri))
}

// WithYouTube adds a public YouTube video to the final user turn.
func WithYouTube(url string) opt.Opt {
	if !IsYouTubeURL(url) {
		return opt.Error(fmt.Errorf("not a YouTube url: %q", url))
	}
	return WithParts(FilePart("", url))
}

// WithVideoSegment clips video parts to the interval from start to end.
// A zero end leaves the clip open.
func WithVideoSegment(start, end time.Duration) opt.Opt {
	if start < 0 || (end != 0 && end <= start) {
		return opt.Error(fmt.Errorf("invalid video segment %v to %v", start, end))
	}
	return opt.WithOpts(
		opt.SetString(opt.StartOffsetKey, duration(start)),
		func(o *opt.Options) error {
			if end > 0 {
				o.Values.Set(opt.EndOffsetKey, duration(end))
			}
			return nil
		},
	)
}

///////////////////////////////////////////////////////////////////////////////
// EMBEDDING OPTIONS
//
// See: https://ai.google.dev/gemini-api/docs/embeddings

// WithTaskType sets the task type for the embedding, for example
// RETRIEVAL_DOCUMENT or SEMANTIC_SIMILARITY.
func WithTaskType(taskType string) opt.Opt {
	return opt.SetString(opt.TaskTypeKey, strings.ToUpper(taskType))
}

// WithTitle sets the document title, used with RETRIEVAL_DOCUMENT.
func WithTitle(title string) opt.Opt {
	return opt.SetString(opt.TitleKey, title)
}

// WithOutputDimensionality truncates the embedding vector.
func WithOutputDimensionality(d uint) opt.Opt {
	return opt.SetUint(opt.OutputDimensionalityKey, d)
}

///////////////////////////////////////////////////////////////////////////////
// FILE & CACHE OPTIONS

// WithPageSize sets the number of items returned per page.
func WithPageSize(value uint) opt.Opt {
	return opt.SetUint(opt.PageSizeKey, value)
}

// WithPageToken continues a listing from a previous page.
func WithPageToken(value string) opt.Opt {
	return opt.SetString(opt.PageTokenKey, value)
}

// WithDisplayName sets the display name of an uploaded file or cache.
func WithDisplayName(value string) opt.Opt {
	return opt.SetString(opt.DisplayNameKey, value)
}

// WithMIMEType overrides MIME type detection for uploads and media.
func WithMIMEType(value string) opt.Opt {
	return opt.SetString(opt.MIMETypeKey, value)
}

// WithTTL sets the lifetime of cached content.
func WithTTL(value time.Duration) opt.Opt {
	if value < time.Second {
		return opt.Error(fmt.Errorf("ttl must be at least one second"))
	}
	return opt.SetString(opt.TTLKey, duration(value))
}

///////////////////////////////////////////////////////////////////////////////
// MEDIA OPTIONS

// WithLanguage sets the language for transcription.
func WithLanguage(value string) opt.Opt {
	return opt.SetString(opt.LanguageKey, value)
}

// WithPrompt replaces the default prompt used for media analysis.
func WithPrompt(value string) opt.Opt {
	return opt.SetString(opt.PromptKey, value)
}

// WithAspectRatio sets the aspect ratio of generated images, either as a
// ratio ("16:9") or a size ("1024x1024").
func WithAspectRatio(value string) opt.Opt {
	return opt.SetString(opt.AspectRatioKey, aspectRatio(value))
}

// WithSampleCount sets the number of images to generate, between 1 and 4.
func WithSampleCount(value uint) opt.Opt {
	return opt.SetUint(opt.SampleCountKey, value)
}

// WithPersonGeneration sets whether people may appear in generated images,
// for example ALLOW_ADULT or DONT_ALLOW.
func WithPersonGeneration(value string) opt.Opt {
	return opt.SetString(opt.PersonGenerationKey, strings.ToUpper(value))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// duration formats a duration in the protobuf JSON form ("1.5s")
func duration(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
