package mem

import (
	"fmt"
	"sync"
	"testing"

	"github.com/inbucket/mailview/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndList(t *testing.T) {
	s := New()
	p1 := s.AddMessage("INBOX", "b", false, []byte("Subject: cur\n\nbody"))
	p2 := s.AddMessage("/INBOX/", "a", true, []byte("Subject: new\nDate: nope\n\nbody"))
	s.AddMessage("Sent", "c", false, []byte("Subject: sent\n\nbody"))

	assert.Equal(t, "INBOX/cur/b", p1)
	assert.Equal(t, "INBOX/new/a", p2)

	boxes, err := s.Mailboxes()
	require.NoError(t, err)
	assert.Equal(t, []string{"INBOX", "Sent"}, boxes)

	metas, err := s.Messages("INBOX")
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "INBOX/cur/b", metas[0].Path)
	assert.Equal(t, "cur", metas[0].Subject)
	assert.False(t, metas[0].New)
	assert.Equal(t, "INBOX/new/a", metas[1].Path)
	assert.True(t, metas[1].New)
	assert.Equal(t, "nope", metas[1].Date)
}

func TestSourceAndRemove(t *testing.T) {
	s := New()
	p := s.AddMessage("a/b", "m1", false, []byte("Subject: x\n\nhello"))
	assert.Equal(t, "a/b/cur/m1", p)

	got, err := s.Source(p)
	require.NoError(t, err)
	assert.Equal(t, "Subject: x\n\nhello", string(got))

	_, err = s.Source("a/b/cur/missing")
	assert.ErrorIs(t, err, storage.ErrNotExist)
	_, err = s.Source("nope/cur/m1")
	assert.ErrorIs(t, err, storage.ErrNotExist)
	_, err = s.Messages("nope")
	assert.ErrorIs(t, err, storage.ErrNotExist)

	s.RemoveMessage(p)
	_, err = s.Source(p)
	assert.ErrorIs(t, err, storage.ErrNotExist)
}

func TestConcurrentAdd(t *testing.T) {
	s := New()
	boxes := []string{"alpha", "beta", "whiskey", "tango", "foxtrot"}
	n := 10
	var wg sync.WaitGroup
	for _, mailbox := range boxes {
		wg.Add(1)
		go func(mailbox string) {
			defer wg.Done()
			for i := 0; i < n; i++ {
				s.AddMessage(mailbox, fmt.Sprintf("m%d", i), i%2 == 0, []byte("Subject: s\n\nb"))
			}
		}(mailbox)
	}
	wg.Wait()

	for _, mailbox := range boxes {
		metas, err := s.Messages(mailbox)
		require.NoError(t, err)
		assert.Len(t, metas, n)
	}
}
