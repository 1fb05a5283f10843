package httpclient

import (
	"errors"
	"net/http"

	// Packages
	client "github.com/mutablelogic/go-client"
	gemini "github.com/mutablelogic/go-gemini"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Client calls a thread server started with "gemini serve"
type Client struct {
	*client.Client
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client for the server at url, including the path prefix,
// for example "http://localhost:8084/api/gemini"
func New(url string, opts ...client.ClientOpt) (*Client, error) {
	c := new(Client)
	if client, err := client.New(append(opts, client.OptEndpoint(url))...); err != nil {
		return nil, err
	} else {
		c.Client = client
	}
	return c, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// apiError maps the status of a failed request back to a gemini.Err
func apiError(err error) error {
	var code httpresponse.Err
	if !errors.As(err, &code) {
		return err
	}
	switch int(code) {
	case http.StatusNotFound:
		return gemini.ErrNotFound.Wrap(err)
	case http.StatusForbidden:
		return gemini.ErrOwnershipMismatch.Wrap(err)
	case http.StatusBadRequest:
		return gemini.ErrBadParameter.Wrap(err)
	case http.StatusConflict:
		return gemini.ErrConflict.Wrap(err)
	case http.StatusNotImplemented:
		return gemini.ErrNotImplemented.Wrap(err)
	case http.StatusBadGateway:
		return gemini.ErrProvider.Wrap(err)
	default:
		return gemini.ErrInternalServerError.Wrap(err)
	}
}
