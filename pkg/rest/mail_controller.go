package rest

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/inbucket/mailview/pkg/message"
	"github.com/inbucket/mailview/pkg/rest/model"
	"github.com/inbucket/mailview/pkg/server/web"
	"github.com/inbucket/mailview/pkg/storage"
	"github.com/inbucket/mailview/pkg/stringutil"
	"github.com/rs/zerolog/log"
)

// MailboxesV1 renders the names of all mailboxes.
func MailboxesV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) (err error) {
	boxes, err := ctx.Manager.Mailboxes()
	if err != nil {
		return fmt.Errorf("failed to list mailboxes: %w", err)
	}
	if boxes == nil {
		boxes = []string{}
	}
	return web.RenderJSON(w, boxes)
}

// MailboxV1 renders the message listing of a mailbox.
func MailboxV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) (err error) {
	name := stringutil.NormalizePath(ctx.Vars["path"])
	metas, err := ctx.Manager.Messages(name)
	if errors.Is(err, storage.ErrNotExist) {
		web.NotFound(w)
		return nil
	}
	if err != nil {
		// This doesn't indicate empty, likely an IO error
		return fmt.Errorf("failed to get messages for %q: %w", name, err)
	}
	boxes, err := ctx.Manager.Mailboxes()
	if err != nil {
		return fmt.Errorf("failed to list mailboxes: %w", err)
	}
	log.Debug().Str("module", "rest").Str("mailbox", name).Int("count", len(metas)).
		Msg("Listing mailbox")

	jbox := &model.JSONMailboxV1{
		Mailboxes:      boxes,
		CurrentMailbox: name,
		Messages:       make(map[string]*model.JSONMessageHeadersV1, len(metas)),
	}
	for _, m := range metas {
		isNew := "0"
		if m.New {
			isNew = "1"
		}
		jbox.Messages[m.Path] = &model.JSONMessageHeadersV1{
			From:    m.From,
			Subject: m.Subject,
			Date:    m.Date,
			New:     isNew,
		}
	}
	return web.RenderJSON(w, jbox)
}

// MessageV1 renders the skeleton of a message when no query is given. Otherwise the query is a
// comma separated part path and the body of that part is returned with its content type; the
// query "," returns the body of the message itself.
func MessageV1(w http.ResponseWriter, req *http.Request, ctx *web.Context) (err error) {
	path := stringutil.NormalizePath(ctx.Vars["path"])
	query, err := url.QueryUnescape(req.URL.RawQuery)
	if err != nil {
		web.NotFound(w)
		return nil
	}

	if query == "" {
		skel, err := ctx.Manager.Skeleton(path)
		if err != nil {
			return notFoundOr(w, path, err)
		}
		return web.RenderJSON(w, jsonPart(skel))
	}

	loc, err := stringutil.ParsePartPath(query)
	if err != nil {
		log.Debug().Str("module", "rest").Str("path", path).Str("query", query).
			Msg("Malformed part path")
		web.NotFound(w)
		return nil
	}
	part, err := ctx.Manager.Part(path, loc)
	if err != nil {
		return notFoundOr(w, path, err)
	}
	return web.RenderBody(w, part.ContentType, part.Body)
}

// notFoundOr writes a 404 for missing, unparsable or unaddressable messages, and returns any
// other error for the handler to report.
func notFoundOr(w http.ResponseWriter, path string, err error) error {
	var perr *message.ParseError
	switch {
	case errors.Is(err, storage.ErrNotExist),
		errors.Is(err, message.ErrNotFound),
		errors.As(err, &perr):
		log.Debug().Str("module", "rest").Str("path", path).Err(err).Msg("Not found")
		web.NotFound(w)
		return nil
	}
	return fmt.Errorf("failed to load message %q: %w", path, err)
}

// jsonPart converts a skeleton into its wire form.
func jsonPart(m *message.Message) *model.JSONPartV1 {
	parts := make([]*model.JSONPartV1, len(m.Parts))
	for i, p := range m.Parts {
		parts[i] = jsonPart(p)
	}
	headers := m.Header
	if headers == nil {
		headers = map[string]string{}
	}
	return &model.JSONPartV1{
		Headers: headers,
		Parts:   parts,
		CType:   m.ContentType,
	}
}
