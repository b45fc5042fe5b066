// Package mem implements an in-memory storage.Store laid out like a maildir tree. It backs
// tests and demos that should not touch the file system.
package mem

import (
	"bytes"
	"path"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/inbucket/mailview/pkg/storage"
	"github.com/inbucket/mailview/pkg/stringutil"
)

// Store implements an in-memory message store.
type Store struct {
	sync.Mutex
	boxes map[string]*mbox
	seq   atomic.Int64
}

type mbox struct {
	sync.RWMutex
	name     string
	messages map[string]*entry // Keyed by full store path.
}

type entry struct {
	path   string
	isNew  bool
	source []byte
	stamp  storage.Stamp
}

var _ storage.Store = &Store{}

// New returns an empty memory store.
func New() *Store {
	return &Store{boxes: make(map[string]*mbox)}
}

// AddMessage stores source as message name in mailbox, under new/ when isNew is set and cur/
// otherwise. Returns the store path of the message.
func (s *Store) AddMessage(mailbox, name string, isNew bool, source []byte) string {
	mailbox = stringutil.NormalizePath(mailbox)
	sub := "cur"
	if isNew {
		sub = "new"
	}
	p := path.Join(mailbox, sub, name)
	// Each write gets a distinct stamp, even when the source is the same length.
	stamp := storage.Stamp{ModTime: time.Unix(0, s.seq.Add(1)), Size: int64(len(source))}
	s.withMailbox(mailbox, true, func(mb *mbox) {
		mb.messages[p] = &entry{path: p, isNew: isNew, source: source, stamp: stamp}
	})
	return p
}

// Mailboxes lists the mailboxes that have been created.
func (s *Store) Mailboxes() ([]string, error) {
	s.Lock()
	names := make([]string, 0, len(s.boxes))
	for k := range s.boxes {
		names = append(names, k)
	}
	s.Unlock()
	sort.Strings(names)
	return names, nil
}

// Messages lists the messages in mailbox.
func (s *Store) Messages(mailbox string) ([]*storage.Metadata, error) {
	mailbox = stringutil.NormalizePath(mailbox)
	mb := s.mailbox(mailbox)
	if mb == nil {
		return nil, storage.ErrNotExist
	}
	mb.RLock()
	defer mb.RUnlock()
	metas := make([]*storage.Metadata, 0, len(mb.messages))
	for _, e := range mb.messages {
		meta, err := storage.ReadMetadata(bytes.NewReader(e.source))
		if err != nil {
			meta = &storage.Metadata{}
		}
		meta.Path = e.path
		meta.Mailbox = mailbox
		meta.New = e.isNew
		metas = append(metas, meta)
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Path < metas[j].Path })
	return metas, nil
}

// Source returns the raw message stored at p.
func (s *Store) Source(p string) ([]byte, error) {
	e := s.entry(p)
	if e == nil {
		return nil, storage.ErrNotExist
	}
	return e.source, nil
}

// Stamp returns the version stamp assigned when the message at p was last added.
func (s *Store) Stamp(p string) (storage.Stamp, error) {
	e := s.entry(p)
	if e == nil {
		return storage.Stamp{}, storage.ErrNotExist
	}
	return e.stamp, nil
}

// entry looks up the message at p; entries are never mutated once stored.
func (s *Store) entry(p string) *entry {
	p = stringutil.NormalizePath(p)
	mailbox := path.Dir(path.Dir(p))
	if mailbox == "." {
		mailbox = ""
	}
	mb := s.mailbox(mailbox)
	if mb == nil {
		return nil
	}
	mb.RLock()
	defer mb.RUnlock()
	return mb.messages[p]
}

// RemoveMessage deletes the message at p, if present.
func (s *Store) RemoveMessage(p string) {
	p = stringutil.NormalizePath(p)
	mailbox := path.Dir(path.Dir(p))
	if mailbox == "." {
		mailbox = ""
	}
	if mb := s.mailbox(mailbox); mb != nil {
		mb.Lock()
		delete(mb.messages, p)
		mb.Unlock()
	}
}

// mailbox returns the named mailbox or nil.
func (s *Store) mailbox(name string) *mbox {
	s.Lock()
	defer s.Unlock()
	return s.boxes[name]
}

// withMailbox gets or creates a mailbox, locks it, then calls f.
func (s *Store) withMailbox(mailbox string, writeLock bool, f func(mb *mbox)) {
	s.Lock()
	mb, ok := s.boxes[mailbox]
	if !ok {
		// Create mailbox
		mb = &mbox{
			name:     mailbox,
			messages: make(map[string]*entry),
		}
		s.boxes[mailbox] = mb
	}
	s.Unlock()
	if writeLock {
		mb.Lock()
	} else {
		mb.RLock()
	}
	defer func() {
		if writeLock {
			mb.Unlock()
		} else {
			mb.RUnlock()
		}
	}()
	f(mb)
}
