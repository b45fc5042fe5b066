package test

import (
	"fmt"
	"testing"
	"time"

	"github.com/inbucket/mailview/pkg/storage"
)

// BuildMessage returns a single part text message with the given listing headers.
func BuildMessage(from, subject string, date time.Time, body string) []byte {
	return []byte(fmt.Sprintf(
		"To: Some Body <somebody@host>\r\nFrom: %s\r\nSubject: %s\r\nDate: %s\r\n\r\n%s\r\n",
		from, subject, date.Format(time.RFC1123Z), body))
}

// GetAndCountMessages is a test helper that expects to receive count messages or fails the test, it
// also checks return error.
func GetAndCountMessages(
	t *testing.T,
	s storage.Store,
	mailbox string,
	count int,
) []*storage.Metadata {
	t.Helper()
	metas, err := s.Messages(mailbox)
	if err != nil {
		t.Fatalf("Failed to get Messages for %q: %v", mailbox, err)
	}
	if len(metas) != count {
		t.Errorf("Got %v messages for %q, want: %v", len(metas), mailbox, count)
	}

	return metas
}
