package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	// Packages
	backoff "github.com/cenkalti/backoff/v5"
	client "github.com/mutablelogic/go-client"
	gemini "github.com/mutablelogic/go-gemini"
	google "github.com/mutablelogic/go-gemini/pkg/google"
	zap "go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Client returns the Gemini client configured from the global flags
func (g *Globals) Client() (*google.Client, error) {
	if g.client != nil {
		return g.client, nil
	}
	if g.GeminiKey == "" {
		return nil, gemini.ErrBadParameter.With("set GEMINI_API_KEY or use --api-key")
	}

	// Create the client
	var err error
	opts := g.clientOpts()
	if g.Endpoint != "" {
		g.client, err = google.NewWithEndpoint(g.Endpoint, g.GeminiKey, opts...)
	} else {
		g.client, err = google.New(g.GeminiKey, opts...)
	}
	return g.client, err
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// clientOpts returns the transport options shared by every client
func (g *Globals) clientOpts() []client.ClientOpt {
	opts := []client.ClientOpt{}
	if g.Debug || g.Verbose {
		opts = append(opts, client.OptTrace(os.Stderr, g.Verbose))
	}
	if g.tracer != nil {
		opts = append(opts, client.OptTracer(g.tracer))
	}
	if g.Timeout > 0 {
		opts = append(opts, client.OptTimeout(g.Timeout))
	}
	return opts
}

// retry calls fn until it succeeds, fails with an error which is not a
// rate limit or server error, or the attempts are used up
func retry[T any](g *Globals, ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	operation := func() (T, error) {
		result, err := fn(ctx)
		if err != nil && !google.Retryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}
	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(max(g.Retries, 1)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			g.log.Warn("retrying", zap.Error(err), zap.Duration("wait", wait))
		}),
	)
}

// write outputs a value in the selected format
func (g *Globals) write(v any) error {
	switch g.Format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Println(v)
		return err
	}
}

// model returns the model flag, or def when it is not set
func (g *Globals) model(def string) string {
	if g.Model != "" {
		return g.Model
	}
	return def
}
