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

// Path: /thread/{thread}/message
func MessageHandler(manager *assistant.Manager) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/thread/{thread}/message", func(w http.ResponseWriter, r *http.Request) {
			thread := r.PathValue("thread")
			switch r.Method {
			case http.MethodGet:
				messages, err := manager.ListMessages(r.Context(), thread)
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.ListMessagesResponse{
					Thread: thread,
					Count:  uint(len(messages)),
					Body:   messages,
				})
			case http.MethodPost:
				var req schema.MessageMeta
				if err := httprequest.Read(r, &req); err != nil {
					_ = httpresponse.Error(w, err)
					return
				}
				message, err := manager.AddMessage(r.Context(), thread, req.Role, req.Content)
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusCreated, httprequest.Indent(r), message)
			default:
				methodNotAllowed(w, r)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "List the messages of a thread in order",
			},
			Post: &openapi.Operation{
				Description: "Append a message to a thread",
			},
		})
}
