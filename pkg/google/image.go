package google

import (
	"context"
	"encoding/base64"
	"strings"

	// Packages
	client "github.com/mutablelogic/go-client"
	gemini "github.com/mutablelogic/go-gemini"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultImageModel  = "gemini-2.5-flash-image-preview"
	DefaultImagenModel = "imagen-3.0-generate-002"

	defaultAspectRatio      = "1:1"
	defaultPersonGeneration = "ALLOW_ADULT"
	maxSampleCount          = 4
)

// Image sizes and the aspect ratio Imagen generates for them
var aspectRatios = map[string]string{
	"256x256":   "1:1",
	"512x512":   "1:1",
	"1024x1024": "1:1",
	"256x384":   "3:4",
	"512x768":   "3:4",
	"1024x1536": "3:4",
	"384x256":   "4:3",
	"768x512":   "4:3",
	"1536x1024": "4:3",
	"256x448":   "9:16",
	"512x896":   "9:16",
	"1024x1792": "9:16",
	"448x256":   "16:9",
	"896x512":   "16:9",
	"1792x1024": "16:9",
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GenerateImages creates images from a prompt. Models whose name starts
// with "imagen" use the predict endpoint, with WithSampleCount,
// WithAspectRatio and WithPersonGeneration. Other models generate images
// as part of a response, and images attached with WithInlineData are
// edited. Any text the model returns alongside the images is also
// returned.
//
// See: https://ai.google.dev/gemini-api/docs/image-generation
func (c *Client) GenerateImages(ctx context.Context, model, prompt string, opts ...opt.Opt) ([]Image, string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, "", gemini.ErrBadParameter.With("prompt is required")
	}
	model = modelNameOr(model, DefaultImageModel)
	if strings.HasPrefix(model, "imagen") {
		images, err := c.predictImages(ctx, model, prompt, opts...)
		return images, "", err
	}

	response, err := c.Generate(ctx, model, prompt, with(opts, WithModalities("TEXT", "IMAGE"))...)
	if err != nil {
		return nil, "", err
	}
	images, err := response.Images()
	if err != nil {
		return nil, "", err
	} else if len(images) == 0 {
		if response.SafetyBlocked() {
			return nil, response.Text(), gemini.ErrRefusal.With(response.FinishReason())
		}
		return nil, response.Text(), gemini.ErrNoCandidates.With("no images returned")
	}
	return images, response.Text(), nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (c *Client) predictImages(ctx context.Context, model, prompt string, opts ...opt.Opt) ([]Image, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}

	// Parameters, with sample count clamped to what the model allows
	parameters := predictParameters{
		SampleCount:      min(max(int(options.GetUint(opt.SampleCountKey)), 1), maxSampleCount),
		AspectRatio:      options.GetString(opt.AspectRatioKey),
		PersonGeneration: options.GetString(opt.PersonGenerationKey),
	}
	if parameters.AspectRatio == "" {
		parameters.AspectRatio = defaultAspectRatio
	}
	if parameters.PersonGeneration == "" {
		parameters.PersonGeneration = defaultPersonGeneration
	}
	payload, err := client.NewJSONRequest(&predictRequest{
		Instances:  []predictInstance{{Prompt: prompt}},
		Parameters: parameters,
	})
	if err != nil {
		return nil, err
	}

	var response predictResponse
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("models", model+":predict")); err != nil {
		return nil, providerError(err)
	}

	result := make([]Image, 0, len(response.Predictions))
	for _, prediction := range response.Predictions {
		data, err := base64.StdEncoding.DecodeString(prediction.BytesBase64Encoded)
		if err != nil {
			return nil, gemini.ErrProvider.Withf("image data: %v", err)
		}
		mimetype := prediction.MIMEType
		if mimetype == "" {
			mimetype = "image/png"
		}
		result = append(result, Image{MIMEType: mimetype, Data: data})
	}
	if len(result) == 0 {
		return nil, gemini.ErrNoCandidates.With("no images returned")
	}
	return result, nil
}

// aspectRatio returns the Imagen aspect ratio for a size such as
// "1024x1024" or a ratio such as "16:9". Unknown sizes are square.
func aspectRatio(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if strings.Contains(value, ":") {
		return value
	}
	if ratio, ok := aspectRatios[value]; ok {
		return ratio
	}
	return defaultAspectRatio
}
