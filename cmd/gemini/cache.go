package main

import (
	"context"
	"fmt"
	"os"
	"time"

	// Packages
	otel "github.com/mutablelogic/go-client/pkg/otel"
	google "github.com/mutablelogic/go-gemini/pkg/google"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type CacheCommands struct {
	ListCaches  ListCachesCommand  `cmd:"" name:"caches" help:"List cached content." group:"CACHE"`
	GetCache    GetCacheCommand    `cmd:"" name:"cache" help:"Get cached content, optionally extending its lifetime." group:"CACHE"`
	CreateCache CreateCacheCommand `cmd:"" name:"create-cache" help:"Upload a document and cache it for later prompts." group:"CACHE"`
	DeleteCache DeleteCacheCommand `cmd:"" name:"delete-cache" help:"Delete cached content." group:"CACHE"`
}

type ListCachesCommand struct {
	PageSize  uint   `name:"page-size" help:"Maximum caches to return" optional:""`
	PageToken string `name:"page-token" help:"Token from a previous page" optional:""`
}

type GetCacheCommand struct {
	Name string        `arg:"" help:"Cache name, with or without the cachedContents/ prefix"`
	TTL  time.Duration `name:"ttl" help:"New lifetime, counted from now" optional:""`
}

type CreateCacheCommand struct {
	Path   string        `arg:"" help:"Document to cache" type:"existingfile"`
	System string        `name:"system" help:"System prompt stored with the cache" optional:""`
	Name   string        `name:"name" help:"Display name" optional:""`
	TTL    time.Duration `name:"ttl" help:"Lifetime of the cache" optional:""`
}

type DeleteCacheCommand struct {
	Name string `arg:"" help:"Cache name, with or without the cachedContents/ prefix"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ListCachesCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "ListCachesCommand")
	defer func() { endSpan(err) }()

	opts := []opt.Opt{}
	if cmd.PageSize > 0 {
		opts = append(opts, google.WithPageSize(cmd.PageSize))
	}
	if cmd.PageToken != "" {
		opts = append(opts, google.WithPageToken(cmd.PageToken))
	}
	response, err := retry(ctx, parent, func(parent context.Context) (*schema.ListCachesResponse, error) {
		return client.ListCaches(parent, opts...)
	})
	if err != nil {
		return err
	}

	// Print
	if ctx.Format != "text" {
		return ctx.write(response)
	}
	for _, cache := range response.Body {
		fmt.Printf("%-32s %-24s %8d tokens, expires %s\n", cache.Name, cache.Model, cache.TotalTokens, cache.Expires.Local().Format(time.DateTime))
	}
	if response.NextPageToken != "" {
		fmt.Println("next page:", response.NextPageToken)
	}
	return nil
}

func (cmd *GetCacheCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "GetCacheCommand")
	defer func() { endSpan(err) }()

	cache, err := retry(ctx, parent, func(parent context.Context) (*schema.CachedContent, error) {
		if cmd.TTL > 0 {
			return client.UpdateCacheTTL(parent, cmd.Name, cmd.TTL)
		}
		return client.GetCache(parent, cmd.Name)
	})
	if err != nil {
		return err
	}
	return ctx.write(cache)
}

func (cmd *CreateCacheCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "CreateCacheCommand")
	defer func() { endSpan(err) }()

	r, err := os.Open(cmd.Path)
	if err != nil {
		return err
	}
	defer r.Close()

	opts := []opt.Opt{}
	if cmd.System != "" {
		opts = append(opts, google.WithSystemPrompt(cmd.System))
	}
	if cmd.Name != "" {
		opts = append(opts, google.WithDisplayName(cmd.Name))
	}
	if cmd.TTL > 0 {
		opts = append(opts, google.WithTTL(cmd.TTL))
	}

	// Upload and create, without retries
	cache, file, err := client.CacheDocument(parent, ctx.model(google.DefaultDocumentModel), cmd.Path, r, opts...)
	if err != nil {
		return err
	}
	ctx.log.Debug("uploaded", zap.String("file", file.Name), zap.String("uri", file.URI))
	return ctx.write(cache)
}

func (cmd *DeleteCacheCommand) Run(ctx *Globals) (err error) {
	client, err := ctx.Client()
	if err != nil {
		return err
	}

	// OTEL
	parent, endSpan := otel.StartSpan(ctx.tracer, ctx.ctx, "DeleteCacheCommand")
	defer func() { endSpan(err) }()

	_, err = retry(ctx, parent, func(parent context.Context) (struct{}, error) {
		return struct{}{}, client.DeleteCache(parent, cmd.Name)
	})
	if err == nil {
		ctx.log.Info("deleted", zap.String("cache", cmd.Name))
	}
	return err
}
