package rest

import (
	"github.com/gorilla/mux"
	"github.com/inbucket/mailview/pkg/server/web"
)

// SetupRoutes populates the routes for the REST interface
func SetupRoutes(r *mux.Router) {
	r.Path("/mail/boxes").Handler(
		web.Handler(MailboxesV1)).Name("MailboxesV1").Methods("GET")
	r.Path("/mail/box/{path:.*}").Handler(
		web.Handler(MailboxV1)).Name("MailboxV1").Methods("GET")
	r.Path("/mail/messages/{path:.*}").Handler(
		web.Handler(MessageV1)).Name("MessageV1").Methods("GET")
}
