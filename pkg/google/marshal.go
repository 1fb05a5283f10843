package google

import (
	"encoding/json"
	"strings"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TURNS → CONTENTS

// contentsFromTurns converts conversation turns to wire contents. Roles
// are normalised so "assistant" is sent as "model".
func contentsFromTurns(turns []schema.Turn) ([]*Content, error) {
	contents := make([]*Content, 0, len(turns))
	for _, turn := range turns {
		role := schema.NormaliseRole(turn.Role)
		if !schema.IsRole(role) {
			return nil, gemini.ErrBadParameter.Withf("role %q", turn.Role)
		}
		contents = append(contents, NewContent(role, TextPart(turn.Text)))
	}
	return contents, nil
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS → REQUEST

// generateRequestFromOpts builds a request from contents and applied
// options. Parts given with WithParts are added to the final user turn,
// or to a new user turn when the final turn is from the model.
func generateRequestFromOpts(contents []*Content, options *opt.Options) (*generateRequest, error) {
	request := &generateRequest{
		Contents: contents,
	}

	// Extra parts
	if parts := anyOf[*Part](options, opt.ContentKey); len(parts) > 0 {
		if start := options.GetString(opt.StartOffsetKey); start != "" {
			for _, part := range parts {
				if isVideoPart(part) {
					part.VideoMetadata = &VideoMetadata{StartOffset: start, EndOffset: options.GetString(opt.EndOffsetKey)}
				}
			}
		}
		if n := len(request.Contents); n > 0 && request.Contents[n-1].Role == schema.RoleUser {
			last := request.Contents[n-1]
			request.Contents[n-1] = NewContent(last.Role, append(append([]*Part{}, last.Parts...), parts...)...)
		} else {
			request.Contents = append(request.Contents, NewContent(schema.RoleUser, parts...))
		}
	}
	if len(request.Contents) == 0 {
		return nil, gemini.ErrBadParameter.With("request has no contents")
	}

	// System instruction
	if system := options.GetString(opt.SystemPromptKey); system != "" {
		request.SystemInstruction = NewContent("", TextPart(system))
	}

	// Generation config. The omitzero tag drops the block when nothing is set.
	config := &request.GenerationConfig
	if options.Has(opt.TemperatureKey) {
		v := options.GetFloat64(opt.TemperatureKey)
		config.Temperature = &v
	}
	if options.Has(opt.MaxTokensKey) {
		config.MaxOutputTokens = int(options.GetUint(opt.MaxTokensKey))
	}
	if options.Has(opt.TopKKey) {
		v := int(options.GetUint(opt.TopKKey))
		config.TopK = &v
	}
	if options.Has(opt.TopPKey) {
		v := options.GetFloat64(opt.TopPKey)
		config.TopP = &v
	}
	if options.Has(opt.SeedKey) {
		v := options.GetInt(opt.SeedKey)
		config.Seed = &v
	}
	if stop := options.GetStringArray(opt.StopSequencesKey); len(stop) > 0 {
		config.StopSequences = stop
	}
	if modalities := options.GetStringArray(opt.ModalitiesKey); len(modalities) > 0 {
		config.ResponseModalities = modalities
	}
	if options.GetBool(opt.ThinkingKey) || options.Has(opt.ThinkingBudgetKey) {
		config.ThinkingConfig = &thinkingConfig{IncludeThoughts: options.GetBool(opt.ThinkingKey)}
		if options.Has(opt.ThinkingBudgetKey) {
			v := int(options.GetUint(opt.ThinkingBudgetKey))
			config.ThinkingConfig.ThinkingBudget = &v
		}
	}
	if mimetype := options.GetString(opt.ResponseMIMETypeKey); mimetype != "" {
		config.ResponseMIMEType = mimetype
	}
	if schemaJSON := options.GetString(opt.JSONSchemaKey); schemaJSON != "" {
		var s any
		if err := json.Unmarshal([]byte(schemaJSON), &s); err != nil {
			return nil, gemini.ErrBadParameter.Withf("invalid JSON schema: %v", err)
		}
		config.ResponseMIMEType = "application/json"
		config.ResponseJSONSchema = s
	}

	// Tools, safety and cache
	request.Tools = anyOf[*Tool](options, opt.ToolsKey)
	if mode, ok := options.Get(opt.ToolModeKey).(*functionCallingConfig); ok {
		request.ToolConfig = &toolConfig{FunctionCallingConfig: mode}
	}
	request.SafetySettings = anyOf[*SafetySetting](options, opt.SafetyKey)
	request.CachedContent = options.GetString(opt.CachedContentKey)

	return request, nil
}

// GenerateRequest builds the body of a generate request without sending
// it. Useful for testing and debugging.
func GenerateRequest(turns []schema.Turn, opts ...opt.Opt) (any, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}
	contents, err := contentsFromTurns(turns)
	if err != nil {
		return nil, err
	}
	return generateRequestFromOpts(contents, options)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// anyOf returns the values of type T appended to key with opt.AddAny
func anyOf[T any](options *opt.Options, key string) []T {
	values, _ := options.Get(key).([]any)
	result := make([]T, 0, len(values))
	for _, value := range values {
		if v, ok := value.(T); ok {
			result = append(result, v)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func isVideoPart(part *Part) bool {
	switch {
	case part.InlineData != nil:
		return strings.HasPrefix(part.InlineData.MIMEType, "video/")
	case part.FileData != nil:
		return strings.HasPrefix(part.FileData.MIMEType, "video/") || IsYouTubeURL(part.FileData.URI)
	default:
		return false
	}
}
