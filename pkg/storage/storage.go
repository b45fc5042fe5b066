// Package storage contains implementation independent mailbox store logic.
package storage

import (
	"errors"
	"time"
)

// ErrNotExist indicates the requested message or mailbox does not exist.
var ErrNotExist = errors.New("does not exist")

// Store provides read access to a tree of mailboxes. Paths are relative to the store root and
// slash separated.
type Store interface {
	// Mailboxes lists every mailbox in the store, sorted.
	Mailboxes() ([]string, error)
	// Messages lists the messages in a mailbox.
	Messages(mailbox string) ([]*Metadata, error)
	// Source returns the raw bytes of the message at path.
	Source(path string) ([]byte, error)
	// Stamp identifies the current version of the message at path.
	Stamp(path string) (Stamp, error)
}

// Stamp changes whenever the source of a message changes.
type Stamp struct {
	ModTime time.Time
	Size    int64
}

// Metadata summarizes a stored message for listings.
type Metadata struct {
	Path    string // Store relative path, usable with Store.Source.
	Mailbox string
	From    string
	Subject string
	Date    string // Normalized local time, or the raw header when unparsable.
	New     bool   // Not yet moved to cur by a mail client.
}
