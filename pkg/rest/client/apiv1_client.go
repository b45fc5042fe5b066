// Package client provides a basic REST client for mailview
package client

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/inbucket/mailview/pkg/rest/model"
)

// Client accesses the mailview REST API
type Client struct {
	restClient
}

// ClientOption configures a Client.
type ClientOption func(*http.Client)

// WithTransport sets the transport of the underlying http.Client.
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *http.Client) {
		c.Transport = transport
	}
}

// WithTimeout replaces the default 30 second request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *http.Client) {
		c.Timeout = timeout
	}
}

// New creates a new REST API client given the base URL of a mailview server, ex:
// "http://localhost:9000"
func New(baseURL string, opts ...ClientOption) (*Client, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	hc := &http.Client{
		Timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(hc)
	}
	c := &Client{
		restClient{
			client:  hc,
			baseURL: parsedURL,
		},
	}
	return c, nil
}

// Mailboxes returns the names of all mailboxes.
func (c *Client) Mailboxes(ctx context.Context) (boxes []string, err error) {
	err = c.doJSON(ctx, "GET", "/mail/boxes", &boxes)
	return
}

// Mailbox returns the listing of the named mailbox.
func (c *Client) Mailbox(ctx context.Context, name string) (*Mailbox, error) {
	jbox := &model.JSONMailboxV1{}
	if err := c.doJSON(ctx, "GET", "/mail/box/"+escapePath(name), jbox); err != nil {
		return nil, err
	}
	return &Mailbox{JSONMailboxV1: jbox, client: c}, nil
}

// Skeleton returns the header and structure tree of the message at path.
func (c *Client) Skeleton(ctx context.Context, path string) (*model.JSONPartV1, error) {
	part := &model.JSONPartV1{}
	if err := c.doJSON(ctx, "GET", "/mail/messages/"+escapePath(path), part); err != nil {
		return nil, err
	}
	return part, nil
}

// Part returns the decoded body and content type of the node at loc in the message at path. An
// empty loc selects the message itself.
func (c *Client) Part(ctx context.Context, path string, loc []int) ([]byte, string, error) {
	return c.doBody(ctx, "/mail/messages/"+escapePath(path), FormatLocation(loc))
}

// escapePath escapes each slash separated segment of a mailbox or message path.
func escapePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// FormatLocation renders loc as the comma separated query the server expects, "," for the root.
func FormatLocation(loc []int) string {
	if len(loc) == 0 {
		return ","
	}
	s := make([]string, len(loc))
	for i, n := range loc {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ",")
}

// MessageHeader is the listing summary of one message.
type MessageHeader struct {
	*model.JSONMessageHeadersV1
	Path   string
	client *Client
}

// IsNew reports whether the message is still in its maildir new directory.
func (h *MessageHeader) IsNew() bool {
	return h.New == "1"
}

// Skeleton returns the structure of this message.
func (h *MessageHeader) Skeleton(ctx context.Context) (*model.JSONPartV1, error) {
	return h.client.Skeleton(ctx, h.Path)
}

// Part returns a body of this message.
func (h *MessageHeader) Part(ctx context.Context, loc []int) ([]byte, string, error) {
	return h.client.Part(ctx, h.Path, loc)
}

// Mailbox is a mailbox listing.
type Mailbox struct {
	*model.JSONMailboxV1
	client *Client
}

// Headers returns the message summaries ordered by path.
func (m *Mailbox) Headers() []*MessageHeader {
	paths := make([]string, 0, len(m.Messages))
	for p := range m.Messages {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	headers := make([]*MessageHeader, len(paths))
	for i, p := range paths {
		headers[i] = &MessageHeader{JSONMessageHeadersV1: m.Messages[p], Path: p, client: m.client}
	}
	return headers
}
