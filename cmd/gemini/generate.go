package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	gemini "github.com/mutablelogic/go-gemini"
	google "github.com/mutablelogic/go-gemini/pkg/google"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type GenerateCommands struct {
	Generate GenerateCommand `cmd:"" name:"generate" help:"Generate a response to a prompt." group:"GENERATE"`
	Embed    EmbedCommand    `cmd:"" name:"embed" help:"Generate embedding vectors from text." group:"GENERATE"`
}

type GenerateCommand struct {
	Prompt      string   `arg:"" help:"Prompt text"`
	System      string   `name:"system" help:"System prompt" optional:""`
	File        []string `name:"file" help:"Files to attach inline" type:"existingfile" optional:""`
	URL         string   `name:"url" help:"Uploaded file URI or YouTube URL to attach" optional:""`
	Temperature *float64 `name:"temperature" help:"Sampling temperature (0 to 2)" optional:""`
	MaxTokens   uint     `name:"max-tokens" help:"Maximum tokens to generate" optional:""`
	Thinking    bool     `name:"thinking" help:"Include thought summaries"`
	Search      bool     `name:"search" help:"Ground the response with Google Search"`
	JSON        bool     `name:"json" help:"Respond with JSON"`
	Cache       string   `name:"cache" help:"Name of cached content to generate with" optional:""`
	NoStream    bool     `name:"no-stream" help:"Wait for the complete response"`
}

type EmbedCommand struct {
	Text       []string `arg:"" help:"Texts to embed"`
	TaskType   string   `name:"task-type" help:"Task type, for example RETRIEVAL_DOCUMENT" optional:""`
	Dimensions uint     `name:"dimensions" help:"Truncate vectors to this many dimensions" optional:""`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *GenerateCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "GenerateCommand")
	defer func() { endSpan(err) }()

	// Build options
	opts, err := cmd.opts()
	if err != nil {
		return err
	}
	stream := !cmd.NoStream && ctx.Format == "text"
	if stream {
		opts = append(opts, google.WithStream(func(role, text string) {
			if role == "thinking" {
				fmt.Fprint(os.Stderr, text)
			} else {
				fmt.Print(text)
			}
		}))
	}

	// Generate
	model := ctx.model(gemini.DefaultModel)
	response, err := retry(ctx, parent, func(parent context.Context) (*google.Response, error) {
		return client.Generate(parent, model, cmd.Prompt, opts...)
	})
	if err != nil {
		return err
	}

	// Print
	switch {
	case ctx.Format != "text":
		return ctx.write(response.Completion())
	case stream:
		fmt.Println()
	default:
		if thoughts := response.Thoughts(); thoughts != "" {
			fmt.Fprintln(os.Stderr, thoughts)
		}
		fmt.Println(response.Text())
	}
	if response.SafetyBlocked() {
		return gemini.ErrRefusal.With(response.FinishReason())
	}
	if grounding := response.Grounding(); grounding != nil {
		for _, chunk := range grounding.GroundingChunks {
			if chunk.Web != nil {
				fmt.Printf("  [%s] %s\n", chunk.Web.Title, chunk.Web.URI)
			}
		}
	}
	return nil
}

func (cmd *EmbedCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "EmbedCommand")
	defer func() { endSpan(err) }()

	// Options
	opts := []opt.Opt{}
	if cmd.TaskType != "" {
		opts = append(opts, google.WithTaskType(cmd.TaskType))
	}
	if cmd.Dimensions > 0 {
		opts = append(opts, google.WithOutputDimensionality(cmd.Dimensions))
	}

	// Embed
	vectors, err := retry(ctx, parent, func(parent context.Context) ([][]float64, error) {
		return client.BatchEmbedding(parent, ctx.model(google.DefaultEmbeddingModel), cmd.Text, opts...)
	})
	if err != nil {
		return err
	}

	// Print
	if ctx.Format != "text" {
		return ctx.write(vectors)
	}
	for i, vector := range vectors {
		fmt.Printf("%q: %d dimensions %v\n", cmd.Text[i], len(vector), vector[:min(len(vector), 4)])
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (cmd *GenerateCommand) opts() ([]opt.Opt, error) {
	opts := []opt.Opt{}
	if cmd.System != "" {
		opts = append(opts, google.WithSystemPrompt(cmd.System))
	}
	if cmd.Temperature != nil {
		opts = append(opts, google.WithTemperature(*cmd.Temperature))
	}
	if cmd.MaxTokens > 0 {
		opts = append(opts, google.WithMaxTokens(cmd.MaxTokens))
	}
	if cmd.Thinking {
		opts = append(opts, google.WithThinking())
	}
	if cmd.Search {
		opts = append(opts, google.WithTools(google.GoogleSearchTool()))
	}
	if cmd.JSON {
		opts = append(opts, google.WithResponseMIMEType("application/json"))
	}
	if cmd.Cache != "" {
		opts = append(opts, google.WithCachedContent(cmd.Cache))
	}
	for _, path := range cmd.File {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, google.WithInlineData(google.DetectMIMEType(path, data), data))
	}
	switch url := strings.TrimSpace(cmd.URL); {
	case url == "":
		break
	case google.IsYouTubeURL(url):
		opts = append(opts, google.WithYouTube(url))
	default:
		opts = append(opts, google.WithFileData("", url))
	}
	return opts, nil
}
