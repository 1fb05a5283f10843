/*
httphandler exposes threads, messages and runs over HTTP. Each handler
constructor returns the path, the handler and an OpenAPI description for
registration with a go-server router.
*/
package httphandler

import (
	"errors"
	"net/http"

	// Packages
	gemini "github.com/mutablelogic/go-gemini"
	assistant "github.com/mutablelogic/go-gemini/pkg/assistant"
	server "github.com/mutablelogic/go-server"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Router interface {
	RegisterFunc(path string, handler http.HandlerFunc, middleware bool, spec *openapi.PathItem) error
}

// Handler is the signature of each handler constructor
type Handler func(*assistant.Manager) (string, http.HandlerFunc, *openapi.PathItem)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Handlers lists every handler constructor, in registration order
var Handlers = []Handler{
	ThreadListHandler,
	ThreadHandler,
	MessageHandler,
	RunListHandler,
	RunHandler,
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RegisterHandlers adds every handler to the router
func RegisterHandlers(manager *assistant.Manager, router server.HTTPRouter, middleware bool) error {
	r, ok := router.(Router)
	if !ok {
		return gemini.ErrBadParameter.With("router does not support handler registration")
	}

	var result error
	for _, handler := range Handlers {
		path, fn, spec := handler(manager)
		result = errors.Join(result, r.RegisterFunc(path, fn, middleware, spec))
	}
	return result
}

// Register adds every handler to a standard library mux
func Register(manager *assistant.Manager, mux *http.ServeMux) {
	for _, handler := range Handlers {
		path, fn, _ := handler(manager)
		mux.HandleFunc(path, fn)
	}
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// httpErr converts a gemini.Err into an HTTP status error, keeping the
// message. Unknown codes are internal errors.
func httpErr(err error) error {
	var code gemini.Err
	if !errors.As(err, &code) {
		return err
	}
	switch code {
	case gemini.ErrNotFound:
		return httpresponse.ErrNotFound.With(err)
	case gemini.ErrOwnershipMismatch:
		return httpresponse.Err(http.StatusForbidden).With(err)
	case gemini.ErrBadParameter:
		return httpresponse.ErrBadRequest.With(err)
	case gemini.ErrConflict:
		return httpresponse.ErrConflict.With(err)
	case gemini.ErrNotImplemented:
		return httpresponse.ErrNotImplemented.With(err)
	case gemini.ErrProvider, gemini.ErrNoCandidates, gemini.ErrRefusal, gemini.ErrMaxTokens:
		return httpresponse.Err(http.StatusBadGateway).With(err)
	default:
		return httpresponse.ErrInternalError.With(err)
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
}
