package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	gemini "github.com/mutablelogic/go-gemini"
	google "github.com/mutablelogic/go-gemini/pkg/google"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type MediaCommands struct {
	Image      ImageCommand      `cmd:"" name:"image" help:"Generate images from a prompt." group:"MEDIA"`
	Transcribe TranscribeCommand `cmd:"" name:"transcribe" help:"Transcribe an audio file or uploaded audio." group:"MEDIA"`
	Video      VideoCommand      `cmd:"" name:"video" help:"Ask about a video file, uploaded video or YouTube video." group:"MEDIA"`
	Document   DocumentCommand   `cmd:"" name:"document" help:"Ask a question about a document." group:"MEDIA"`
}

type ImageCommand struct {
	Prompt string `arg:"" help:"Description of the image"`
	Output string `name:"output" short:"o" help:"Directory for the image files" type:"existingdir" default:"."`
	Size   string `name:"size" help:"Aspect ratio or size, for example 16:9 or 1024x1024" optional:""`
	Count  uint   `name:"count" help:"Number of images, for Imagen models" optional:""`
}

type TranscribeCommand struct {
	Path     string `arg:"" help:"Audio file or uploaded file URI"`
	Language string `name:"language" help:"Language of the transcript" optional:""`
	Prompt   string `name:"prompt" help:"Replace the transcription prompt" optional:""`
}

type VideoCommand struct {
	Path       string        `arg:"" help:"Video file, uploaded file URI or YouTube URL"`
	Prompt     string        `name:"prompt" help:"Question about the video, a description when empty" optional:""`
	Timestamps string        `name:"timestamps" help:"Find the times at which this appears" optional:""`
	Start      time.Duration `name:"start" help:"Start of the segment to analyze" optional:""`
	End        time.Duration `name:"end" help:"End of the segment to analyze" optional:""`
}

type DocumentCommand struct {
	Path   string `arg:"" help:"Document file" type:"existingfile"`
	Prompt string `arg:"" help:"Question about the document"`
	Inline bool   `name:"inline" help:"Send the document with the request rather than uploading it"`
	Keep   bool   `name:"keep" help:"Keep the uploaded file"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ImageCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ImageCommand")
	defer func() { endSpan(err) }()

	opts := []opt.Opt{}
	if cmd.Size != "" {
		opts = append(opts, google.WithAspectRatio(cmd.Size))
	}
	if cmd.Count > 0 {
		opts = append(opts, google.WithSampleCount(cmd.Count))
	}

	model := ctx.model(google.DefaultImageModel)
	var text string
	images, err := retry(ctx, parent, func(parent context.Context) ([]google.Image, error) {
		var images []google.Image
		var err error
		images, text, err = client.GenerateImages(parent, model, cmd.Prompt, opts...)
		return images, err
	})
	if err != nil {
		return err
	}
	if text != "" {
		fmt.Println(text)
	}

	// Write the images
	stamp := time.Now().Format("20060102-150405")
	for i, image := range images {
		path := filepath.Join(cmd.Output, fmt.Sprintf("image-%s-%d%s", stamp, i+1, image.Ext()))
		if err := writeImage(path, image); err != nil {
			return err
		}
		ctx.log.Info("wrote", zap.String("path", path), zap.String("type", image.MIMEType))
	}
	return nil
}

func (cmd *TranscribeCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "TranscribeCommand")
	defer func() { endSpan(err) }()

	opts := []opt.Opt{}
	if cmd.Language != "" {
		opts = append(opts, google.WithLanguage(cmd.Language))
	}
	if cmd.Prompt != "" {
		opts = append(opts, google.WithPrompt(cmd.Prompt))
	}

	// Read local files, otherwise treat the path as a file URI
	var data []byte
	if !isURI(cmd.Path) {
		if data, err = os.ReadFile(cmd.Path); err != nil {
			return err
		}
	}
	model := ctx.model(google.DefaultAudioModel)
	response, err := retry(ctx, parent, func(parent context.Context) (*google.Response, error) {
		if data == nil {
			return client.TranscribeURI(parent, model, cmd.Path, opts...)
		}
		return client.Transcribe(parent, model, cmd.Path, data, opts...)
	})
	if err != nil {
		return err
	}
	return ctx.output(response)
}

func (cmd *VideoCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	if cmd.End > 0 && cmd.End <= cmd.Start {
		return gemini.ErrBadParameter.With("--end must be after --start")
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "VideoCommand")
	defer func() { endSpan(err) }()

	opts := []opt.Opt{}
	if cmd.Start > 0 || cmd.End > 0 {
		opts = append(opts, google.WithVideoSegment(cmd.Start, cmd.End))
	}

	// Local videos are sent inline when small, otherwise uploaded
	uri := cmd.Path
	var data []byte
	if !isURI(cmd.Path) {
		if data, err = os.ReadFile(cmd.Path); err != nil {
			return err
		}
		if len(data) > google.MaxInlineVideoSize || cmd.Timestamps != "" {
			file, err := cmd.upload(ctx, parent, client)
			if err != nil {
				return err
			}
			uri, data = file.URI, nil
		}
	}

	model := ctx.model(google.DefaultVideoModel)
	response, err := retry(ctx, parent, func(parent context.Context) (*google.Response, error) {
		switch {
		case cmd.Timestamps != "":
			return client.VideoTimestamps(parent, model, uri, cmd.Timestamps, opts...)
		case data != nil:
			return client.AnalyzeVideo(parent, model, cmd.Prompt, cmd.Path, data, opts...)
		default:
			return client.AnalyzeVideoURI(parent, model, cmd.Prompt, uri, opts...)
		}
	})
	if err != nil {
		return err
	}
	return ctx.output(response)
}

func (cmd *DocumentCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "DocumentCommand")
	defer func() { endSpan(err) }()

	model := ctx.model(google.DefaultDocumentModel)

	// Inline documents go with the prompt
	if cmd.Inline {
		data, err := os.ReadFile(cmd.Path)
		if err != nil {
			return err
		}
		inline := google.WithInlineData(google.DetectMIMEType(cmd.Path, data), data)
		response, err := retry(ctx, parent, func(parent context.Context) (*google.Response, error) {
			return client.Generate(parent, model, cmd.Prompt, inline)
		})
		if err != nil {
			return err
		}
		return ctx.output(response)
	}

	// Otherwise upload, ask, and remove the upload unless asked to keep it
	r, err := os.Open(cmd.Path)
	if err != nil {
		return err
	}
	defer r.Close()
	response, file, err := client.ProcessDocument(parent, model, cmd.Prompt, cmd.Path, r)
	if file != nil && !cmd.Keep {
		defer func() {
			if err := client.DeleteFile(context.WithoutCancel(parent), file.Name); err != nil {
				ctx.log.Warn("delete", zap.String("file", file.Name), zap.Error(err))
			}
		}()
	} else if file != nil {
		ctx.log.Info("uploaded", zap.String("file", file.Name))
	}
	if err != nil {
		return err
	}
	return ctx.output(response)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (cmd *VideoCommand) upload(g *Globals, ctx context.Context, client *google.Client) (*schema.File, error) {
	r, err := os.Open(cmd.Path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	file, err := client.UploadVideo(ctx, cmd.Path, r)
	if err != nil {
		return nil, err
	}
	g.log.Info("uploaded", zap.String("file", file.Name), zap.String("uri", file.URI))
	return file, nil
}

// output prints the text of a response, or the completion in other formats
func (g *Globals) output(response *google.Response) error {
	if g.Format != "text" {
		return g.write(response.Completion())
	}
	_, err := fmt.Println(response.Text())
	return err
}

func writeImage(path string, image google.Image) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := image.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// isURI returns true for http and https references
func isURI(path string) bool {
	return strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://")
}
