package main

import (
	"context"
	"fmt"
	"os"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	gemini "github.com/mutablelogic/go-gemini"
	google "github.com/mutablelogic/go-gemini/pkg/google"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	zap "go.uber.org/zap"
	errgroup "golang.org/x/sync/errgroup"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type FileCommands struct {
	UploadFile UploadFileCommand `cmd:"" name:"upload" help:"Upload files for use in prompts." group:"FILE"`
	ListFiles  ListFilesCommand  `cmd:"" name:"files" help:"List uploaded files." group:"FILE"`
	GetFile    GetFileCommand    `cmd:"" name:"file" help:"Get an uploaded file." group:"FILE"`
	DeleteFile DeleteFileCommand `cmd:"" name:"delete-file" help:"Delete an uploaded file." group:"FILE"`
}

type UploadFileCommand struct {
	Path     []string `arg:"" help:"Files to upload" type:"existingfile"`
	MIMEType string   `name:"mime-type" help:"Content type, detected when empty" optional:""`
	Name     string   `name:"name" help:"Display name, when uploading one file" optional:""`
	Wait     bool     `name:"wait" help:"Wait until the files are active"`
}

type ListFilesCommand struct {
	PageSize  uint   `name:"page-size" help:"Maximum files to return" optional:""`
	PageToken string `name:"page-token" help:"Token from a previous page" optional:""`
}

type GetFileCommand struct {
	Name string `arg:"" help:"File name, with or without the files/ prefix"`
}

type DeleteFileCommand struct {
	Name string `arg:"" help:"File name, with or without the files/ prefix"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Number of files uploaded at once
	uploadConcurrency = 4
)

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *UploadFileCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}
	if cmd.Name != "" && len(cmd.Path) > 1 {
		return gemini.ErrBadParameter.With("--name can only be used with one file")
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "UploadFileCommand")
	defer func() { endSpan(err) }()

	// Options
	opts := []opt.Opt{}
	if cmd.MIMEType != "" {
		opts = append(opts, google.WithMIMEType(cmd.MIMEType))
	}
	if cmd.Name != "" {
		opts = append(opts, google.WithDisplayName(cmd.Name))
	}

	// Upload in parallel, keeping the order of the arguments
	files := make([]*schema.File, len(cmd.Path))
	group, parent := errgroup.WithContext(parent)
	group.SetLimit(uploadConcurrency)
	for i, path := range cmd.Path {
		group.Go(func() error {
			file, err := cmd.upload(ctx, parent, client, path, opts...)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			files[i] = file
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	// Print
	if ctx.Format != "text" {
		return ctx.write(files)
	}
	for _, file := range files {
		fmt.Printf("%s %s %s\n", file.Name, file.State, file.URI)
	}
	return nil
}

func (cmd *ListFilesCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ListFilesCommand")
	defer func() { endSpan(err) }()

	opts := []opt.Opt{}
	if cmd.PageSize > 0 {
		opts = append(opts, google.WithPageSize(cmd.PageSize))
	}
	if cmd.PageToken != "" {
		opts = append(opts, google.WithPageToken(cmd.PageToken))
	}
	response, err := retry(ctx, parent, func(parent context.Context) (*schema.ListFilesResponse, error) {
		return client.ListFiles(parent, opts...)
	})
	if err != nil {
		return err
	}

	// Print
	if ctx.Format != "text" {
		return ctx.write(response)
	}
	for _, file := range response.Body {
		fmt.Printf("%-20s %-10s %-24s %s\n", file.Name, file.State, file.MIMEType, file.DisplayName)
	}
	if response.NextPageToken != "" {
		fmt.Println("next page:", response.NextPageToken)
	}
	return nil
}

func (cmd *GetFileCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "GetFileCommand")
	defer func() { endSpan(err) }()

	file, err := retry(ctx, parent, func(parent context.Context) (*schema.File, error) {
		return client.GetFile(parent, cmd.Name)
	})
	if err != nil {
		return err
	}
	return ctx.write(file)
}

func (cmd *DeleteFileCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "DeleteFileCommand")
	defer func() { endSpan(err) }()

	_, err = retry(ctx, parent, func(parent context.Context) (struct{}, error) {
		return struct{}{}, client.DeleteFile(parent, cmd.Name)
	})
	if err == nil {
		ctx.log.Info("deleted", zap.String("file", cmd.Name))
	}
	return err
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (cmd *UploadFileCommand) upload(g *Globals, ctx context.Context, client *google.Client, path string, opts ...opt.Opt) (*schema.File, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	file, err := retry(g, ctx, func(ctx context.Context) (*schema.File, error) {
		return client.UploadFile(ctx, path, r, opts...)
	})
	if err != nil || !cmd.Wait || file.Active() {
		return file, err
	}
	return client.WaitForFile(ctx, file.Name)
}
