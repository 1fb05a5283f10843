package google

import (
	"context"
	"fmt"
	"io"
	"regexp"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultVideoModel = "gemini-2.5-flash"

	// Larger videos need to be uploaded first
	MaxInlineVideoSize = 20 * 1024 * 1024

	describePrompt   = "Describe this video in detail."
	timestampsPrompt = "Extract all timestamps where %q appears in the video. Output them in MM:SS format."

	// Assumed type of video referenced by a file URI
	defaultVideoMIMEType = "video/mp4"
)

var (
	reYouTube = regexp.MustCompile(`^https?://(?:(?:www\.)?youtube\.com/(?:watch\?v=|embed/|v/|shorts/)|youtu\.be/)[\w-]+`)
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// IsYouTubeURL returns true if the url refers to a YouTube video
func IsYouTubeURL(url string) bool {
	return reYouTube.MatchString(url)
}

// AnalyzeVideo asks about a video sent inline, which is limited to
// MaxInlineVideoSize bytes. Use WithVideoSegment to restrict the analysis
// to part of the video.
//
// See: https://ai.google.dev/gemini-api/docs/video-understanding
func (c *Client) AnalyzeVideo(ctx context.Context, model, prompt, filename string, data []byte, opts ...opt.Opt) (*Response, error) {
	if len(data) == 0 {
		return nil, gemini.ErrBadParameter.With("video data is required")
	} else if len(data) > MaxInlineVideoSize {
		return nil, gemini.ErrBadParameter.Withf("video is %d bytes, upload videos larger than %d bytes", len(data), MaxInlineVideoSize)
	}
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}
	mimetype := options.GetString(opt.MIMETypeKey)
	if mimetype == "" {
		mimetype = DetectMIMEType(filename, data)
	}
	return c.Generate(ctx, modelNameOr(model, DefaultVideoModel), videoPrompt(prompt), with(opts, WithInlineData(mimetype, data))...)
}

// AnalyzeVideoURI asks about a video which has been uploaded, or a public
// YouTube video
func (c *Client) AnalyzeVideoURI(ctx context.Context, model, prompt, uri string, opts ...opt.Opt) (*Response, error) {
	var part opt.Opt
	if IsYouTubeURL(uri) {
		part = WithYouTube(uri)
	} else {
		options, err := opt.Apply(opts...)
		if err != nil {
			return nil, err
		}
		mimetype := options.GetString(opt.MIMETypeKey)
		if mimetype == "" {
			mimetype = defaultVideoMIMEType
		}
		part = WithFileData(mimetype, uri)
	}
	return c.Generate(ctx, modelNameOr(model, DefaultVideoModel), videoPrompt(prompt), with(opts, part)...)
}

// UploadVideo uploads a video and waits until it can be analyzed
func (c *Client) UploadVideo(ctx context.Context, filename string, r io.ReadSeeker, opts ...opt.Opt) (*schema.File, error) {
	file, err := c.UploadFile(ctx, filename, r, opts...)
	if err != nil {
		return nil, err
	}
	return c.WaitForFile(ctx, file.Name)
}

// DescribeVideo returns a detailed description of an uploaded or YouTube
// video
func (c *Client) DescribeVideo(ctx context.Context, model, uri string, opts ...opt.Opt) (*Response, error) {
	return c.AnalyzeVideoURI(ctx, model, describePrompt, uri, opts...)
}

// VideoTimestamps asks for the times at which something appears in an
// uploaded or YouTube video
func (c *Client) VideoTimestamps(ctx context.Context, model, uri, query string, opts ...opt.Opt) (*Response, error) {
	if query == "" {
		return nil, gemini.ErrBadParameter.With("query is required")
	}
	return c.AnalyzeVideoURI(ctx, model, fmt.Sprintf(timestampsPrompt, query), uri, opts...)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func videoPrompt(prompt string) string {
	if prompt == "" {
		return describePrompt
	}
	return prompt
}
