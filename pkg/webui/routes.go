// Package webui serves the endpoints used by the browser UI alongside the REST API.
package webui

import (
	"github.com/gorilla/mux"
	"github.com/inbucket/mailview/pkg/server/web"
)

// SetupRoutes populates routes for the webui into the provided Router.
func SetupRoutes(r *mux.Router) {
	r.Path("/status").Handler(
		web.Handler(ServeStatus)).Name("Status").Methods("GET")
}
