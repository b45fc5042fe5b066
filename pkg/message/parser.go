package message

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/quotedprintable"
	nettextproto "net/textproto"
	"strings"

	"github.com/emersion/go-message/textproto"
	"github.com/inbucket/mailview/pkg/webui/sanitize"
	"github.com/jhillyerd/enmime/v2/mediatype"
)

// DefaultMaxDepth is the multipart nesting limit used by Parse.
const DefaultMaxDepth = 32

const defaultContentType = "text/plain"

var (
	crlf = []byte("\r\n")
	lf   = []byte("\n")

	wordDecoder = &mime.WordDecoder{}
)

// Parser turns raw message bytes into a Message tree. The zero value uses DefaultMaxDepth.
type Parser struct {
	MaxDepth int
}

// Parse parses raw with the default Parser.
func Parse(raw []byte) (*Message, error) {
	return (&Parser{}).Parse(raw)
}

// Parse parses raw into a Message tree. A malformed root header block returns a *ParseError;
// problems further down the tree degrade the affected node to a leaf holding raw bytes.
func (p *Parser) Parse(raw []byte) (*Message, error) {
	m, err := p.parse(raw, 0)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return m, nil
}

func (p *Parser) maxDepth() int {
	if p.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return p.MaxDepth
}

func (p *Parser) parse(raw []byte, depth int) (*Message, error) {
	if len(raw) == 0 {
		return &Message{Header: map[string]string{}, ContentType: defaultContentType}, nil
	}
	hblock, body := splitHeader(raw)
	header, lookup, err := readHeader(hblock)
	if err != nil {
		return nil, err
	}
	ctype, params := contentType(lookup["Content-Type"])
	m := &Message{Header: header, ContentType: ctype}

	if strings.HasPrefix(ctype, "multipart/") && params["boundary"] != "" {
		chunks := splitMultipart(body, params["boundary"])
		if len(chunks) > 0 {
			if depth+1 > p.maxDepth() {
				return nil, ErrTooDeep
			}
			m.Parts = make([]*Message, 0, len(chunks))
			for _, chunk := range chunks {
				child, err := p.parse(chunk, depth+1)
				if errors.Is(err, ErrTooDeep) {
					return nil, err
				}
				if err != nil {
					// Unreadable part header, keep the bytes as an opaque leaf.
					child = &Message{
						Header:      map[string]string{},
						ContentType: defaultContentType,
						Body:        chunk,
					}
				}
				m.Parts = append(m.Parts, child)
			}
			return m, nil
		}
	}
	if strings.HasPrefix(ctype, "multipart/") {
		// Declared multipart without usable boundary, raw body.
		m.Body = body
		return m, nil
	}

	m.Body = decodeBody(body, lookup["Content-Transfer-Encoding"])
	if ctype == "text/html" {
		m.Body = []byte(sanitize.HTML(string(m.Body)))
	}
	return m, nil
}

// splitHeader separates the header block from the body at the first empty line. The returned
// header block includes its final line ending.
func splitHeader(raw []byte) (header, body []byte) {
	if bytes.HasPrefix(raw, crlf) {
		return nil, raw[2:]
	}
	if bytes.HasPrefix(raw, lf) {
		return nil, raw[1:]
	}
	for i := 0; ; {
		j := bytes.IndexByte(raw[i:], '\n')
		if j < 0 {
			return raw, nil
		}
		next := i + j + 1
		rest := raw[next:]
		if bytes.HasPrefix(rest, crlf) {
			return raw[:next], rest[2:]
		}
		if bytes.HasPrefix(rest, lf) {
			return raw[:next], rest[1:]
		}
		i = next
	}
}

// readHeader decodes a header block into a map keyed by field names as written. Folded lines
// are joined and RFC 2047 encoded words decoded; a repeated field keeps its last value. The
// second map holds the same values under canonical names for case insensitive lookups.
func readHeader(block []byte) (header, lookup map[string]string, err error) {
	header = make(map[string]string)
	lookup = make(map[string]string)
	if len(block) == 0 {
		return header, lookup, nil
	}
	var b bytes.Buffer
	b.Grow(len(block) + 4)
	b.Write(block)
	if !bytes.HasSuffix(block, lf) {
		b.Write(crlf)
	}
	b.Write(crlf)
	h, err := textproto.ReadHeader(bufio.NewReader(&b))
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	fields := h.Fields()
	for fields.Next() {
		v := fields.Value()
		if dec, err := wordDecoder.DecodeHeader(v); err == nil {
			v = dec
		}
		header[fieldName(fields)] = v
		lookup[nettextproto.CanonicalMIMEHeaderKey(fields.Key())] = v
	}
	return header, lookup, nil
}

// fieldName returns the name of the current field with its original spelling.
func fieldName(fields textproto.HeaderFields) string {
	if raw, err := fields.Raw(); err == nil {
		if name, _, ok := bytes.Cut(raw, []byte(":")); ok {
			if name = bytes.TrimSpace(name); len(name) > 0 {
				return string(name)
			}
		}
	}
	return fields.Key()
}

// contentType returns the lower case media type and its parameters. A missing or unusable
// value is text/plain.
func contentType(value string) (string, map[string]string) {
	if strings.TrimSpace(value) == "" {
		return defaultContentType, map[string]string{}
	}
	mtype, params, _, err := mediatype.Parse(value)
	if err != nil || mtype == "" {
		mtype, _, _ = strings.Cut(value, ";")
		mtype = strings.ToLower(strings.TrimSpace(mtype))
		params = map[string]string{}
	}
	if mtype == "" || !strings.Contains(mtype, "/") {
		mtype = defaultContentType
	}
	if params == nil {
		params = map[string]string{}
	}
	return strings.ToLower(mtype), params
}

// splitMultipart returns the body of each part delimited by boundary. The preamble and
// epilogue are discarded. The line ending before a delimiter line belongs to the delimiter.
// A missing close delimiter ends the last part at the end of body.
func splitMultipart(body []byte, boundary string) [][]byte {
	delim := []byte("--" + boundary)
	var parts [][]byte
	start := -1
	for pos := 0; pos <= len(body); {
		var line []byte
		next := len(body) + 1
		if eol := bytes.IndexByte(body[pos:], '\n'); eol < 0 {
			line = body[pos:]
		} else {
			line = body[pos : pos+eol]
			next = pos + eol + 1
		}
		trimmed := bytes.TrimRight(line, " \t\r")
		if rest, ok := bytes.CutPrefix(trimmed, delim); ok {
			closing := bytes.Equal(rest, []byte("--"))
			if closing || len(rest) == 0 {
				if start >= 0 {
					parts = append(parts, body[start:partEnd(body, start, pos)])
				}
				if closing {
					return parts
				}
				start = min(next, len(body))
			}
		}
		pos = next
	}
	if start >= 0 && start < len(body) {
		parts = append(parts, body[start:])
	}
	return parts
}

// partEnd backs up over the line ending that precedes the delimiter line at pos.
func partEnd(body []byte, start, pos int) int {
	end := pos
	if end > start && body[end-1] == '\n' {
		end--
		if end > start && body[end-1] == '\r' {
			end--
		}
	}
	return end
}

// decodeBody applies the Content-Transfer-Encoding. Unknown encodings pass through, and a
// failed decode returns the raw bytes.
func decodeBody(body []byte, encoding string) []byte {
	var r io.Reader
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, bytes.NewReader(stripSpace(body)))
	case "quoted-printable":
		r = quotedprintable.NewReader(bytes.NewReader(body))
	default:
		return body
	}
	dec, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return dec
}

// stripSpace removes the whitespace base64 bodies are commonly wrapped with.
func stripSpace(b []byte) []byte {
	return bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, b)
}
