package test

import (
	"errors"
	"sort"

	"github.com/inbucket/mailview/pkg/message"
	"github.com/inbucket/mailview/pkg/storage"
	"github.com/inbucket/mailview/pkg/stringutil"
)

// ErrInternal is returned by ManagerStub for the mailbox and message named "error".
var ErrInternal = errors.New("internal error")

// ManagerStub is a test stub for message.Manager
type ManagerStub struct {
	mailboxes map[string][]*storage.Metadata
	messages  map[string]*message.Message
}

var _ message.Manager = &ManagerStub{}

// NewManager creates a new ManagerStub.
func NewManager() *ManagerStub {
	return &ManagerStub{
		mailboxes: make(map[string][]*storage.Metadata),
		messages:  make(map[string]*message.Message),
	}
}

// AddMailbox creates an empty mailbox.
func (m *ManagerStub) AddMailbox(mailbox string) {
	if _, ok := m.mailboxes[mailbox]; !ok {
		m.mailboxes[mailbox] = nil
	}
}

// AddMessage adds a parsed message and its listing metadata. meta.Mailbox selects the mailbox
// and meta.Path the message.
func (m *ManagerStub) AddMessage(meta *storage.Metadata, msg *message.Message) {
	m.mailboxes[meta.Mailbox] = append(m.mailboxes[meta.Mailbox], meta)
	m.messages[meta.Path] = msg
}

// Mailboxes lists the mailboxes in sorted order; the mailbox "error" fails the listing.
func (m *ManagerStub) Mailboxes() ([]string, error) {
	names := make([]string, 0, len(m.mailboxes))
	for k := range m.mailboxes {
		if k == "error" {
			return nil, ErrInternal
		}
		names = append(names, k)
	}
	sort.Strings(names)
	return names, nil
}

// Messages gets all the metadata for the specified mailbox.
func (m *ManagerStub) Messages(mailbox string) ([]*storage.Metadata, error) {
	if mailbox == "error" {
		return nil, ErrInternal
	}
	metas, ok := m.mailboxes[mailbox]
	if !ok {
		return nil, storage.ErrNotExist
	}
	return metas, nil
}

// GetMessage gets a message by path.
func (m *ManagerStub) GetMessage(path string) (*message.Message, error) {
	path = stringutil.NormalizePath(path)
	if path == "error" {
		return nil, ErrInternal
	}
	if msg, ok := m.messages[path]; ok {
		return msg, nil
	}
	return nil, storage.ErrNotExist
}

// Skeleton returns the body-less copy of a message.
func (m *ManagerStub) Skeleton(path string) (*message.Message, error) {
	msg, err := m.GetMessage(path)
	if err != nil {
		return nil, err
	}
	return msg.Skeleton(), nil
}

// Part resolves loc within a message.
func (m *ManagerStub) Part(path string, loc []int) (*message.Message, error) {
	msg, err := m.GetMessage(path)
	if err != nil {
		return nil, err
	}
	if len(loc) == 0 {
		return msg, nil
	}
	return message.Resolve(msg, loc)
}
