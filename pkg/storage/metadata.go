package storage

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset" // Encoded-word charsets for listing headers.
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"
	"github.com/inbucket/mailview/pkg/stringutil"
	"github.com/rs/zerolog/log"
)

// DateFormat is the layout of Metadata.Date.
const DateFormat = "2006-01-02 15:04:05"

// ReadMetadata reads the header block from r and fills in From, Subject and Date. The body
// is not read.
func ReadMetadata(r io.Reader) (*Metadata, error) {
	th, err := textproto.ReadHeader(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	h := mail.Header{Header: message.Header{Header: th}}

	meta := &Metadata{Date: formatDate(h)}
	meta.From = h.Get("From")
	if addrs, err := h.AddressList("From"); err == nil && len(addrs) > 0 {
		meta.From = strings.Join(stringutil.StringAddressList(addrs), ", ")
	}
	meta.Subject = h.Get("Subject")
	if subj, err := h.Subject(); err == nil {
		meta.Subject = subj
	}
	return meta, nil
}

// formatDate normalizes the Date header to DateFormat in local time, keeping the raw value if
// it cannot be parsed.
func formatDate(h mail.Header) string {
	raw := h.Get("Date")
	if raw == "" {
		return ""
	}
	t, err := h.Date()
	if err != nil {
		log.Debug().Str("module", "storage").Str("date", raw).Err(err).
			Msg("Keeping unparsable date")
		return raw
	}
	return t.In(time.Local).Format(DateFormat)
}
