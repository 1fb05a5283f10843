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

// Path: /thread/{thread}/run
func RunListHandler(manager *assistant.Manager) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/thread/{thread}/run", func(w http.ResponseWriter, r *http.Request) {
			thread := r.PathValue("thread")
			switch r.Method {
			case http.MethodGet:
				runs, err := manager.ListRuns(r.Context(), thread)
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.ListRunsResponse{
					Thread: thread,
					Count:  uint(len(runs)),
					Body:   runs,
				})
			case http.MethodPost:
				var req schema.RunMeta
				if err := httprequest.Read(r, &req); err != nil {
					_ = httpresponse.Error(w, err)
					return
				}
				run, err := manager.CreateRun(r.Context(), thread, req)
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusCreated, httprequest.Indent(r), run)
			default:
				methodNotAllowed(w, r)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "List the runs of a thread",
			},
			Post: &openapi.Operation{
				Description: "Send the thread to the model and append the reply",
			},
		})
}

// Path: /thread/{thread}/run/{run}
func RunHandler(manager *assistant.Manager) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/thread/{thread}/run/{run}", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				run, err := manager.GetRun(r.Context(), r.PathValue("thread"), r.PathValue("run"))
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), run)
			default:
				methodNotAllowed(w, r)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "Get a run of a thread",
			},
		})
}
