package test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/inbucket/mailview/pkg/storage"
)

// Deliverer places source in the store under test as message name of mailbox, in the new
// directory when isNew is set. It returns the store path of the message.
type Deliverer func(t *testing.T, mailbox, name string, isNew bool, source []byte) string

// StoreFactory returns a new, empty store for the test suite and a way to fill it.
type StoreFactory func(t *testing.T) (storage.Store, Deliverer)

// StoreSuite runs a set of general tests on the provided Store.
func StoreSuite(t *testing.T, factory StoreFactory) {
	testCases := []struct {
		name string
		test func(*testing.T, storage.Store, Deliverer)
	}{
		{"metadata", testMetadata},
		{"content", testContent},
		{"listing order", testListingOrder},
		{"new flag", testNewFlag},
		{"missing", testMissing},
		{"stamp", testStamp},
		{"mailboxes", testMailboxes},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, deliver := factory(t)
			tc.test(t, store, deliver)
		})
	}
}

// testMetadata verifies listing headers are read from the message.
func testMetadata(t *testing.T, store storage.Store, deliver Deliverer) {
	mailbox := "testmailbox"
	date := time.Date(2021, 3, 4, 5, 6, 7, 0, time.Local)
	subject := "fantastic test subject line"
	p := deliver(t, mailbox, "1614834367.1.host", true,
		BuildMessage("From Person <from@person.com>", subject, date, "doesn't matter"))

	metas := GetAndCountMessages(t, store, mailbox, 1)
	if len(metas) != 1 {
		return
	}
	got := metas[0]
	if got.Path != p {
		t.Errorf("got path %q, want: %q", got.Path, p)
	}
	if got.Mailbox != mailbox {
		t.Errorf("got mailbox %q, want: %q", got.Mailbox, mailbox)
	}
	if want := `"From Person" <from@person.com>`; got.From != want {
		t.Errorf("got from %q, want: %q", got.From, want)
	}
	if got.Subject != subject {
		t.Errorf("got subject %q, want: %q", got.Subject, subject)
	}
	if want := date.Format(storage.DateFormat); got.Date != want {
		t.Errorf("got date %q, want: %q", got.Date, want)
	}
}

// testContent verifies the source is returned byte for byte.
func testContent(t *testing.T, store storage.Store, deliver Deliverer) {
	source := []byte("Subject: content\r\nContent-Type: text/plain\r\n\r\nline one\r\nline two\r\n")
	p := deliver(t, "INBOX", "1.host", false, source)

	got, err := store.Source(p)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, source) {
		t.Errorf("got source %q, want: %q", got, source)
	}
}

// testListingOrder verifies messages are listed in path order, across new and cur.
func testListingOrder(t *testing.T, store storage.Store, deliver Deliverer) {
	mailbox := "INBOX"
	date := time.Now()
	want := []string{
		deliver(t, mailbox, "3.host", false, BuildMessage("a@host", "three", date, "3")),
		deliver(t, mailbox, "1.host", false, BuildMessage("a@host", "one", date, "1")),
		deliver(t, mailbox, "2.host", true, BuildMessage("a@host", "two", date, "2")),
	}
	want[0], want[1] = want[1], want[0]

	metas := GetAndCountMessages(t, store, mailbox, len(want))
	for i, m := range metas {
		if i < len(want) && m.Path != want[i] {
			t.Errorf("metas[%v].Path == %q, want: %q", i, m.Path, want[i])
		}
	}
}

// testNewFlag verifies New reflects the directory the message was delivered to.
func testNewFlag(t *testing.T, store storage.Store, deliver Deliverer) {
	date := time.Now()
	pnew := deliver(t, "INBOX", "1.host", true, BuildMessage("a@host", "new", date, "n"))
	deliver(t, "INBOX", "2.host", false, BuildMessage("a@host", "seen", date, "s"))

	for _, m := range GetAndCountMessages(t, store, "INBOX", 2) {
		if m.New != (m.Path == pnew) {
			t.Errorf("%q New == %v", m.Path, m.New)
		}
	}
}

// testMissing verifies absent mailboxes and messages report storage.ErrNotExist.
func testMissing(t *testing.T, store storage.Store, deliver Deliverer) {
	p := deliver(t, "INBOX", "1.host", true, BuildMessage("a@host", "x", time.Now(), "x"))

	if _, err := store.Messages("nobox"); !errors.Is(err, storage.ErrNotExist) {
		t.Errorf("Messages(nobox) error == %v, want: ErrNotExist", err)
	}
	for _, src := range []string{p + ".gone", "INBOX/new/missing", "nobox/cur/1.host", ""} {
		if _, err := store.Source(src); !errors.Is(err, storage.ErrNotExist) {
			t.Errorf("Source(%q) error == %v, want: ErrNotExist", src, err)
		}
	}
}

// testStamp verifies the stamp changes when a message is rewritten, and is missing once the
// message is gone.
func testStamp(t *testing.T, store storage.Store, deliver Deliverer) {
	p := deliver(t, "INBOX", "1.host", false, []byte("Subject: a\r\n\r\nshort\r\n"))
	before, err := store.Stamp(p)
	if err != nil {
		t.Fatal(err)
	}
	again, err := store.Stamp(p)
	if err != nil {
		t.Fatal(err)
	}
	if again != before {
		t.Errorf("Stamp(%q) == %+v, then %+v for unchanged message", p, before, again)
	}

	deliver(t, "INBOX", "1.host", false, []byte("Subject: a\r\n\r\nmuch longer body\r\n"))
	after, err := store.Stamp(p)
	if err != nil {
		t.Fatal(err)
	}
	if after == before {
		t.Errorf("Stamp(%q) unchanged after rewrite: %+v", p, after)
	}

	for _, src := range []string{p + ".gone", "nobox/cur/1.host", ""} {
		if _, err := store.Stamp(src); !errors.Is(err, storage.ErrNotExist) {
			t.Errorf("Stamp(%q) error == %v, want: ErrNotExist", src, err)
		}
	}
}

// testMailboxes verifies every mailbox holding messages is listed in order.
func testMailboxes(t *testing.T, store storage.Store, deliver Deliverer) {
	date := time.Now()
	deliver(t, "Sent", "1.host", false, BuildMessage("a@host", "s", date, "s"))
	deliver(t, "INBOX/Sub", "2.host", true, BuildMessage("a@host", "b", date, "b"))
	deliver(t, "INBOX", "3.host", true, BuildMessage("a@host", "a", date, "a"))

	got, err := store.Mailboxes()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"INBOX", "INBOX/Sub", "Sent"}
	if len(got) != len(want) {
		t.Fatalf("got mailboxes %q, want: %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got mailboxes %q, want: %q", got, want)
			break
		}
	}
}
