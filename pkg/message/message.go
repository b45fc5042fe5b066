// Package message contains the parsed message tree and the logic to build and address it.
package message

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound indicates a part path does not resolve to a part.
	ErrNotFound = errors.New("part not found")

	// ErrEmptyPath is returned by Resolve when given no indices; use the root instead.
	ErrEmptyPath = errors.New("empty part path")

	// ErrTooDeep indicates multipart nesting exceeded the parser depth limit.
	ErrTooDeep = errors.New("multipart nesting too deep")
)

// Message is a node in a parsed MIME tree. A node is either composite (Parts non-empty, Body
// empty) or a leaf (no Parts). Messages are not modified after Parse returns them.
type Message struct {
	Header      map[string]string
	ContentType string
	Parts       []*Message
	Body        []byte
}

// IsLeaf returns true if this node has no sub-parts.
func (m *Message) IsLeaf() bool {
	return len(m.Parts) == 0
}

// Skeleton returns a deep copy of the tree with every Body removed.
func (m *Message) Skeleton() *Message {
	header := make(map[string]string, len(m.Header))
	for k, v := range m.Header {
		header[k] = v
	}
	parts := make([]*Message, len(m.Parts))
	for i, p := range m.Parts {
		parts[i] = p.Skeleton()
	}
	return &Message{
		Header:      header,
		ContentType: m.ContentType,
		Parts:       parts,
	}
}

// ParseError is returned when a message source cannot be parsed.
type ParseError struct {
	Path string // Source path, empty when parsing raw bytes.
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("parse message: %v", e.Err)
	}
	return fmt.Sprintf("parse message %q: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// AddressError is returned when a part path does not resolve.
type AddressError struct {
	Path  []int
	Depth int // Index into Path that failed.
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("part %s: index %d at depth %d out of range",
		FormatPath(e.Path), e.Path[e.Depth], e.Depth)
}

// Is makes AddressError match ErrNotFound.
func (e *AddressError) Is(target error) bool {
	return target == ErrNotFound
}

// FormatPath renders a part path as comma separated indices.
func FormatPath(path []int) string {
	s := make([]string, len(path))
	for i, n := range path {
		s[i] = strconv.Itoa(n)
	}
	return strings.Join(s, ",")
}
