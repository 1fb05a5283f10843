package google

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	gemini "github.com/mutablelogic/go-gemini"
	opt "github.com/mutablelogic/go-gemini/pkg/opt"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Lifetime of cached content when none is given
	DefaultCacheTTL = 24 * time.Hour
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// CreateCache stores contents with the provider so they can be reused
// across requests with WithCachedContent. The system prompt, tools,
// display name and TTL are taken from the options.
//
// See: https://ai.google.dev/gemini-api/docs/caching
func (c *Client) CreateCache(ctx context.Context, model string, contents []*Content, opts ...opt.Opt) (*schema.CachedContent, error) {
	if len(contents) == 0 {
		return nil, gemini.ErrBadParameter.With("cached content requires contents")
	}
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}

	request := &cacheRequest{
		Model:       "models/" + modelName(model),
		DisplayName: options.GetString(opt.DisplayNameKey),
		Contents:    contents,
		Tools:       anyOf[*Tool](options, opt.ToolsKey),
		TTL:         options.GetString(opt.TTLKey),
	}
	if request.TTL == "" {
		request.TTL = duration(DefaultCacheTTL)
	}
	if system := options.GetString(opt.SystemPromptKey); system != "" {
		request.SystemInstruction = NewContent("", TextPart(system))
	}
	payload, err := client.NewJSONRequest(request)
	if err != nil {
		return nil, err
	}

	var response cacheResource
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("cachedContents")); err != nil {
		return nil, providerError(err)
	}
	return response.toSchema(), nil
}

// ListCaches returns a page of cached content
func (c *Client) ListCaches(ctx context.Context, opts ...opt.Opt) (*schema.ListCachesResponse, error) {
	options, err := opt.Apply(opts...)
	if err != nil {
		return nil, err
	}

	var response listCachesResponse
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("cachedContents"), client.OptQuery(options.Query(opt.PageSizeKey, opt.PageTokenKey))); err != nil {
		return nil, providerError(err)
	}

	result := &schema.ListCachesResponse{
		Body:          make([]schema.CachedContent, 0, len(response.CachedContents)),
		NextPageToken: response.NextPageToken,
	}
	for _, cache := range response.CachedContents {
		result.Body = append(result.Body, *cache.toSchema())
	}
	return result, nil
}

// GetCache returns cached content by name
func (c *Client) GetCache(ctx context.Context, name string) (*schema.CachedContent, error) {
	var response cacheResource
	if err := c.DoWithContext(ctx, nil, &response, client.OptPath("cachedContents", cacheID(name))); err != nil {
		return nil, providerError(err)
	}
	return response.toSchema(), nil
}

// UpdateCacheTTL changes the lifetime of cached content, counted from now
func (c *Client) UpdateCacheTTL(ctx context.Context, name string, ttl time.Duration) (*schema.CachedContent, error) {
	if ttl < time.Second {
		return nil, gemini.ErrBadParameter.With("ttl must be at least one second")
	}
	payload, err := client.NewJSONRequestEx(http.MethodPatch, &cacheRequest{TTL: duration(ttl)}, client.ContentTypeJson)
	if err != nil {
		return nil, err
	}

	var response cacheResource
	if err := c.DoWithContext(ctx, payload, &response, client.OptPath("cachedContents", cacheID(name)), client.OptQuery(url.Values{"updateMask": {"ttl"}})); err != nil {
		return nil, providerError(err)
	}
	return response.toSchema(), nil
}

// DeleteCache deletes cached content by name
func (c *Client) DeleteCache(ctx context.Context, name string) error {
	if err := c.DoWithContext(ctx, client.MethodDelete, nil, client.OptPath("cachedContents", cacheID(name))); err != nil {
		return providerError(err)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (r *cacheResource) toSchema() *schema.CachedContent {
	cache := &schema.CachedContent{
		Name:        r.Name,
		DisplayName: r.DisplayName,
		Model:       strings.TrimPrefix(r.Model, "models/"),
		Created:     timestamp(r.CreateTime),
		Updated:     timestamp(r.UpdateTime),
		Expires:     timestamp(r.ExpireTime),
	}
	if r.UsageMetadata != nil {
		cache.TotalTokens = r.UsageMetadata.TotalTokenCount
	}
	return cache
}

// cacheID returns the identifier of cached content without its prefix
func cacheID(name string) string {
	return strings.TrimPrefix(strings.TrimSpace(name), "cachedContents/")
}
