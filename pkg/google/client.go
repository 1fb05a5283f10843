/*
google implements a client for the Gemini REST API, covering content
generation, streaming, embeddings, files, cached content and media.
https://ai.google.dev/gemini-api/docs

The client also implements gemini.Invoker, so it can drive the runs of
pkg/assistant.
*/
package google

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	// Packages
	client "github.com/mutablelogic/go-client"
	gemini "github.com/mutablelogic/go-gemini"
	modelcache "github.com/mutablelogic/go-gemini/pkg/modelcache"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client
	*modelcache.ModelCache
	upload string
}

var _ gemini.Invoker = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	endPoint       = "https://generativelanguage.googleapis.com/v1beta"
	defaultName    = "gemini"
	modelCacheTTL  = time.Hour
	modelCacheSize = 64
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new Gemini API client with the given API key
func New(apiKey string, opts ...client.ClientOpt) (*Client, error) {
	return NewWithEndpoint(endPoint, apiKey, opts...)
}

// NewWithEndpoint creates a client for an alternative endpoint, which
// should include the API version path (for example ".../v1beta").
func NewWithEndpoint(endpoint, apiKey string, opts ...client.ClientOpt) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, gemini.ErrBadParameter.With("missing API key")
	}
	upload, err := uploadEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	defaults := []client.ClientOpt{
		client.OptEndpoint(endpoint),
		client.OptHeader("x-goog-api-key", apiKey),
	}
	if c, err := client.New(append(defaults, opts...)...); err != nil {
		return nil, err
	} else {
		return &Client{c, modelcache.NewModelCache(modelCacheTTL, modelCacheSize), upload}, nil
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the provider name
func (*Client) Name() string {
	return defaultName
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// uploadEndpoint returns the media upload URL for an API endpoint, which
// places "upload" before the version path
func uploadEndpoint(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", gemini.ErrBadParameter.Withf("endpoint: %v", err)
	} else if u.Scheme == "" || u.Host == "" {
		return "", gemini.ErrBadParameter.Withf("endpoint: %q", endpoint)
	}
	u.Path = "/upload/" + strings.Trim(u.Path, "/") + "/files"
	return u.String(), nil
}

// providerError maps a transport error onto the gemini error codes. A 404
// from the API becomes ErrNotFound, anything else ErrProvider.
func providerError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gemini.ErrProvider) || errors.Is(err, gemini.ErrNotFound) {
		return err
	}
	if status(err) == http.StatusNotFound {
		return gemini.ErrNotFound.Wrap(err)
	}
	return gemini.ErrProvider.Wrap(err)
}

// status returns the HTTP status carried by an error, or zero
func status(err error) int {
	var code httpresponse.Err
	if errors.As(err, &code) {
		return int(code)
	}
	return 0
}

// Retryable returns true when an error is a rate limit or server-side
// failure which may succeed if repeated
func Retryable(err error) bool {
	switch code := status(err); {
	case code == http.StatusTooManyRequests:
		return true
	case code >= 500 && code <= 599:
		return true
	default:
		return false
	}
}
