package message

import (
	"errors"
	"time"

	"github.com/inbucket/mailview/pkg/cache"
	"github.com/inbucket/mailview/pkg/metric"
	"github.com/inbucket/mailview/pkg/storage"
	"github.com/inbucket/mailview/pkg/stringutil"
	"github.com/rs/zerolog/log"
)

// Manager is the interface controllers use to interact with messages.
type Manager interface {
	Mailboxes() ([]string, error)
	Messages(mailbox string) ([]*storage.Metadata, error)
	GetMessage(path string) (*Message, error)
	Skeleton(path string) (*Message, error)
	Part(path string, loc []int) (*Message, error)
}

// StoreManager is a message Manager backed by the storage.Store, memoizing parsed messages.
// A cached parse is reused only while the store reports the same stamp for its path.
type StoreManager struct {
	Store  storage.Store
	Cache  *cache.Cache[*cached]
	Parser *Parser
}

// cached pairs a parsed message with the stamp of the source it was parsed from.
type cached struct {
	msg   *Message
	stamp storage.Stamp
}

var _ Manager = &StoreManager{}

// NewStoreManager creates a StoreManager caching up to size parsed messages. A nil parser uses
// the defaults.
func NewStoreManager(store storage.Store, size int, parser *Parser) (*StoreManager, error) {
	if parser == nil {
		parser = &Parser{}
	}
	sm := &StoreManager{Store: store, Parser: parser}
	c, err := cache.New(size, sm.load)
	if err != nil {
		return nil, err
	}
	sm.Cache = c
	return sm, nil
}

// Mailboxes lists the mailboxes in the store.
func (s *StoreManager) Mailboxes() ([]string, error) {
	return s.Store.Mailboxes()
}

// Messages returns listing metadata for the specified mailbox.
func (s *StoreManager) Messages(mailbox string) ([]*storage.Metadata, error) {
	return s.Store.Messages(mailbox)
}

// GetMessage returns the parsed message at path. The result is shared with other callers and
// must not be modified.
func (s *StoreManager) GetMessage(path string) (*Message, error) {
	path = stringutil.NormalizePath(path)
	c, err := s.Cache.GetOrLoad(path)
	if err != nil {
		return nil, err
	}
	stamp, err := s.Store.Stamp(path)
	switch {
	case errors.Is(err, storage.ErrNotExist):
		s.Forget(path)
		return nil, err
	case err != nil:
		return nil, err
	case stamp.Size == c.stamp.Size && stamp.ModTime.Equal(c.stamp.ModTime):
		return c.msg, nil
	}
	log.Debug().Str("module", "manager").Str("path", path).Msg("Message changed, reparsing")
	s.Forget(path)
	c, err = s.Cache.GetOrLoad(path)
	if err != nil {
		return nil, err
	}
	return c.msg, nil
}

// Skeleton returns the structure and headers of the message at path, without bodies.
func (s *StoreManager) Skeleton(path string) (*Message, error) {
	m, err := s.GetMessage(path)
	if err != nil {
		return nil, err
	}
	return m.Skeleton(), nil
}

// Part returns the node at loc within the message at path; an empty loc is the message itself.
func (s *StoreManager) Part(path string, loc []int) (*Message, error) {
	m, err := s.GetMessage(path)
	if err != nil {
		return nil, err
	}
	if len(loc) == 0 {
		return m, nil
	}
	return Resolve(m, loc)
}

// Forget drops any cached parse of the message at path, so the next request reads it again.
func (s *StoreManager) Forget(path string) {
	s.Cache.Remove(stringutil.NormalizePath(path))
}

// load is the cache loader: stamp, read and parse the source.
func (s *StoreManager) load(path string) (*cached, error) {
	start := time.Now()
	stamp, err := s.Store.Stamp(path)
	var raw []byte
	if err == nil {
		raw, err = s.Store.Source(path)
	}
	if err != nil {
		metric.ParseDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		if !errors.Is(err, storage.ErrNotExist) {
			log.Error().Str("module", "manager").Str("path", path).Err(err).
				Msg("Failed to read message")
		}
		return nil, err
	}
	m, err := s.Parser.Parse(raw)
	if err != nil {
		metric.ParseDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		log.Error().Str("module", "manager").Str("path", path).Err(err).
			Msg("Failed to parse message")
		return nil, err
	}
	metric.ParseDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	log.Debug().Str("module", "manager").Str("path", path).Int("bytes", len(raw)).
		Msg("Parsed message")
	return &cached{msg: m, stamp: stamp}, nil
}
