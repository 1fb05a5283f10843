package google

import (
	"context"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultAudioModel = "gemini-2.5-flash"

	transcribePrompt = "Transcribe this audio clip"

	// Assumed type of audio referenced by URI
	defaultAudioMIMEType = "audio/mp3"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Transcribe returns a transcription of audio sent inline. The MIME type
// is detected from the filename or the data unless WithMIMEType is used,
// and WithLanguage sets the transcription language.
//
// See: https://ai.google.dev/gemini-api/docs/audio
func (c *Client) Transcribe(ctx context.Context, model, filename string, data []byte, opts ...opt.Opt) (*Response, error) {
	if len(data) == 0 {
		return nil, gemini.ErrBadParameter.With("audio data is required")
	}
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}
	mimetype := options.GetString(opt.MIMETypeKey)
	if mimetype == "" {
		mimetype = DetectMIMEType(filename, data)
	}
	return c.Generate(ctx, modelNameOr(model, DefaultAudioModel), audioPrompt(options), with(opts, WithInlineData(mimetype, data))...)
}

// TranscribeURI returns a transcription of audio uploaded with UploadFile
func (c *Client) TranscribeURI(ctx context.Context, model, uri string, opts ...opt.Opt) (*Response, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}
	mimetype := options.GetString(opt.MIMETypeKey)
	if mimetype == "" {
		mimetype = defaultAudioMIMEType
	}
	return c.Generate(ctx, modelNameOr(model, DefaultAudioModel), audioPrompt(options), with(opts, WithFileData(mimetype, uri))...)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func audioPrompt(options *opt.Options) string {
	prompt := options.GetString(opt.PromptKey)
	if prompt == "" {
		prompt = transcribePrompt
	}
	if language := options.GetString(opt.LanguageKey); language != "" {
		prompt += " in " + language
	}
	return prompt
}

// with returns a new slice of options with extra options appended
func with(opts []opt.Opt, extra ...opt.Opt) []opt.Opt {
	result := make([]opt.Opt, 0, len(opts)+len(extra))
	return append(append(result, opts...), extra...)
}
