package message_test

import (
	"errors"
	"testing"

	"github.com/inbucket/mailview/pkg/message"
	"github.com/inbucket/mailview/pkg/storage"
	"github.com/inbucket/mailview/pkg/storage/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps a mem.Store and counts Source calls.
type countingStore struct {
	*mem.Store
	reads map[string]int
}

func (s *countingStore) Source(path string) ([]byte, error) {
	s.reads[path]++
	return s.Store.Source(path)
}

func testStoreManager(t *testing.T, size int) (*message.StoreManager, *countingStore, string) {
	t.Helper()
	store := &countingStore{Store: mem.New(), reads: make(map[string]int)}
	path := store.AddMessage("INBOX", "nested", false, readTestData(t, "nested.eml"))
	sm, err := message.NewStoreManager(store, size, nil)
	require.NoError(t, err)
	return sm, store, path
}

func TestNewStoreManagerBadSize(t *testing.T) {
	_, err := message.NewStoreManager(mem.New(), 0, nil)
	assert.Error(t, err)
}

func TestManagerGetMessageCached(t *testing.T) {
	sm, store, path := testStoreManager(t, 2)

	m1, err := sm.GetMessage(path)
	require.NoError(t, err)
	m2, err := sm.GetMessage("/" + path)
	require.NoError(t, err)

	assert.Same(t, m1, m2)
	assert.Equal(t, 1, store.reads[path])

	sm.Forget(path)
	_, err = sm.GetMessage(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.reads[path])
}

func TestManagerReparsesReplacedMessage(t *testing.T) {
	sm, store, path := testStoreManager(t, 2)

	m1, err := sm.GetMessage(path)
	require.NoError(t, err)
	store.AddMessage("INBOX", "nested", false, []byte("Subject: replaced\n\nnew body"))

	m2, err := sm.GetMessage(path)
	require.NoError(t, err)
	assert.NotSame(t, m1, m2)
	assert.Equal(t, "replaced", m2.Header["Subject"])
	assert.Equal(t, "new body", string(m2.Body))
	assert.Equal(t, 2, store.reads[path])

	m3, err := sm.GetMessage(path)
	require.NoError(t, err)
	assert.Same(t, m2, m3)
	assert.Equal(t, 2, store.reads[path])
}

func TestManagerForgetsRemovedMessage(t *testing.T) {
	sm, store, path := testStoreManager(t, 2)

	_, err := sm.GetMessage(path)
	require.NoError(t, err)
	require.Equal(t, 1, sm.Cache.Len())
	store.RemoveMessage(path)

	_, err = sm.GetMessage(path)
	assert.ErrorIs(t, err, storage.ErrNotExist)
	assert.Equal(t, 0, sm.Cache.Len())
}

func TestManagerSkeleton(t *testing.T) {
	sm, _, path := testStoreManager(t, 2)

	skel, err := sm.Skeleton(path)
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", skel.ContentType)
	require.Len(t, skel.Parts, 2)
	assert.Empty(t, skel.Parts[1].Body)

	// The cached tree keeps its bodies.
	full, err := sm.GetMessage(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(full.Parts[1].Body))
}

func TestManagerPart(t *testing.T) {
	sm, _, path := testStoreManager(t, 2)

	root, err := sm.Part(path, []int{})
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", root.ContentType)

	html, err := sm.Part(path, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, "text/html", html.ContentType)
	assert.Equal(t, "<p>Hi</p>", string(html.Body))

	_, err = sm.Part(path, []int{0, 5})
	assert.ErrorIs(t, err, message.ErrNotFound)
}

func TestManagerMissingMessage(t *testing.T) {
	sm, store, _ := testStoreManager(t, 2)

	_, err := sm.GetMessage("INBOX/cur/none")
	assert.ErrorIs(t, err, storage.ErrNotExist)
	_, err = sm.GetMessage("INBOX/cur/none")
	assert.ErrorIs(t, err, storage.ErrNotExist)
	assert.Equal(t, 2, store.reads["INBOX/cur/none"], "failures are not cached")
}

func TestManagerParseErrorCarriesPath(t *testing.T) {
	sm, store, _ := testStoreManager(t, 2)
	bad := store.AddMessage("INBOX", "bad", true, []byte("no header colon\n\nbody"))

	_, err := sm.GetMessage(bad)
	require.Error(t, err)
	var perr *message.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, bad, perr.Path)
}

func TestManagerListing(t *testing.T) {
	sm, _, path := testStoreManager(t, 2)

	boxes, err := sm.Mailboxes()
	require.NoError(t, err)
	assert.Equal(t, []string{"INBOX"}, boxes)

	metas, err := sm.Messages("INBOX")
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, path, metas[0].Path)
	assert.Equal(t, "Café report", metas[0].Subject)
}

func TestManagerStoreErrorNotCached(t *testing.T) {
	store := &storage.MockStore{}
	ioErr := errors.New("disk on fire")
	store.On("Stamp", "INBOX/cur/1").Return(storage.Stamp{Size: 10}, nil).Twice()
	store.On("Source", "INBOX/cur/1").Return(nil, ioErr).Twice()
	sm, err := message.NewStoreManager(store, 4, nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = sm.GetMessage("/INBOX/cur/1")
		assert.ErrorIs(t, err, ioErr)
	}
	store.AssertExpectations(t)
	assert.Equal(t, 0, sm.Cache.Len())
}

func TestManagerListingPassesThrough(t *testing.T) {
	store := &storage.MockStore{}
	metas := []*storage.Metadata{{Path: "INBOX/new/1", Mailbox: "INBOX", New: true}}
	store.On("Mailboxes").Return([]string{"INBOX"}, nil)
	store.On("Messages", "INBOX").Return(metas, nil)
	sm, err := message.NewStoreManager(store, 4, nil)
	require.NoError(t, err)

	boxes, err := sm.Mailboxes()
	require.NoError(t, err)
	assert.Equal(t, []string{"INBOX"}, boxes)
	got, err := sm.Messages("INBOX")
	require.NoError(t, err)
	assert.Equal(t, metas, got)
	store.AssertExpectations(t)
}
