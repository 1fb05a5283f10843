package httphandler

import (
	"net/http"

	// Packages
	assistant "github.com/mutablelogic/go-gemini/pkg/assistant"
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /thread
func ThreadListHandler(manager *assistant.Manager) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/thread", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				threads, err := manager.ListThreads(r.Context())
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.ListThreadsResponse{
					Count: uint(len(threads)),
					Body:  threads,
				})
			case http.MethodPost:
				var req schema.ThreadMeta
				if err := httprequest.Read(r, &req); err != nil {
					_ = httpresponse.Error(w, err)
					return
				}
				thread, err := manager.CreateThread(r.Context(), req)
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusCreated, httprequest.Indent(r), thread)
			default:
				methodNotAllowed(w, r)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "List threads in creation order",
			},
			Post: &openapi.Operation{
				Description: "Create a thread, with an optional model and metadata",
			},
		})
}

// Path: /thread/{thread}
func ThreadHandler(manager *assistant.Manager) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/thread/{thread}", func(w http.ResponseWriter, r *http.Request) {
			id := r.PathValue("thread")
			switch r.Method {
			case http.MethodGet:
				thread, err := manager.GetThread(r.Context(), id)
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), thread)
			case http.MethodPut:
				var req schema.ThreadMeta
				if err := httprequest.Read(r, &req); err != nil {
					_ = httpresponse.Error(w, err)
					return
				}
				thread, err := manager.UpdateThread(r.Context(), id, req)
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), thread)
			case http.MethodDelete:
				deleted, err := manager.DeleteThread(r.Context(), id)
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), deleted)
			default:
				methodNotAllowed(w, r)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "Get a thread",
			},
			Put: &openapi.Operation{
				Description: "Update the model or metadata of a thread",
			},
			Delete: &openapi.Operation{
				Description: "Delete a thread with its messages and runs",
			},
		})
}
