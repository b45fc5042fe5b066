package maildir_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/inbucket/mailview/pkg/config"
	"github.com/inbucket/mailview/pkg/storage"
	"github.com/inbucket/mailview/pkg/storage/maildir"
	"github.com/inbucket/mailview/pkg/stringutil"
	"github.com/inbucket/mailview/pkg/test"
)

func TestSuite(t *testing.T) {
	for _, escape := range []bool{false, true} {
		name := "plain"
		if escape {
			name = "escaped colon"
		}
		t.Run(name, func(t *testing.T) {
			test.StoreSuite(t, func(t *testing.T) (storage.Store, test.Deliverer) {
				return setupStore(t, escape)
			})
		})
	}
}

func setupStore(t *testing.T, escape bool) (storage.Store, test.Deliverer) {
	root := t.TempDir()
	store, err := maildir.New(config.Maildir{Path: root, EscapeColon: escape})
	if err != nil {
		t.Fatal(err)
	}
	deliver := func(t *testing.T, mailbox, name string, isNew bool, source []byte) string {
		t.Helper()
		sub := "cur"
		if isNew {
			sub = "new"
		}
		for _, d := range []string{"new", "cur", "tmp"} {
			if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(mailbox), d), 0o755); err != nil {
				t.Fatal(err)
			}
		}
		diskName := name
		if escape {
			diskName = stringutil.EscapeColon(name)
		}
		err := os.WriteFile(filepath.Join(root, filepath.FromSlash(mailbox), sub, diskName), source, 0o644)
		if err != nil {
			t.Fatal(err)
		}
		return mailbox + "/" + sub + "/" + name
	}
	return store, deliver
}
