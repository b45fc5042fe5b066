// Package maildir implements storage.Store over a directory tree of maildir mailboxes.
package maildir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/inbucket/mailview/pkg/config"
	"github.com/inbucket/mailview/pkg/storage"
	"github.com/inbucket/mailview/pkg/stringutil"
	"github.com/rs/zerolog/log"
)

// Subdirectories of a maildir; they are never mailboxes themselves.
const (
	dirNew = "new"
	dirCur = "cur"
	dirTmp = "tmp"
)

// Store reads mailboxes below a root directory.
type Store struct {
	root        string
	escapeColon bool
}

var _ storage.Store = &Store{}

// New creates a Store for the configured maildir root, which must exist.
func New(cfg config.Maildir) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("maildir path not specified")
	}
	fi, err := os.Stat(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("maildir root: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("maildir root %q is not a directory", cfg.Path)
	}
	return &Store{root: cfg.Path, escapeColon: cfg.EscapeColon}, nil
}

// Mailboxes returns every directory below the root other than maildir new, cur and tmp
// directories.
func (s *Store) Mailboxes() ([]string, error) {
	var boxes []string
	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == s.root {
				return err
			}
			log.Warn().Str("module", "storage").Str("path", p).Err(err).
				Msg("Skipping unreadable directory")
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p == s.root {
			return nil
		}
		switch d.Name() {
		case dirNew, dirCur, dirTmp:
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		boxes = append(boxes, s.fromDisk(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(boxes)
	return boxes, nil
}

// Messages lists the messages in the new and cur directories of mailbox.
func (s *Store) Messages(mailbox string) ([]*storage.Metadata, error) {
	mailbox = stringutil.NormalizePath(mailbox)
	dir := s.diskPath(mailbox)
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return nil, storage.ErrNotExist
	}
	var metas []*storage.Metadata
	for _, sub := range []string{dirNew, dirCur} {
		entries, err := os.ReadDir(filepath.Join(dir, sub))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			msgPath := path.Join(mailbox, sub, s.fromDisk(e.Name()))
			meta, err := s.readMetadata(filepath.Join(dir, sub, e.Name()))
			if err != nil {
				log.Warn().Str("module", "storage").Str("path", msgPath).Err(err).
					Msg("Unreadable message header")
				continue
			}
			meta.Path = msgPath
			meta.Mailbox = mailbox
			meta.New = sub == dirNew
			metas = append(metas, meta)
		}
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].Path < metas[j].Path })
	log.Debug().Str("module", "storage").Str("mailbox", mailbox).Int("count", len(metas)).
		Msg("Listed mailbox")
	return metas, nil
}

// Source returns the raw message at path. Paths that do not name a file below the root
// return storage.ErrNotExist.
func (s *Store) Source(p string) ([]byte, error) {
	p = stringutil.NormalizePath(p)
	if p == "" {
		return nil, storage.ErrNotExist
	}
	data, err := os.ReadFile(s.diskPath(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isDirErr(s.diskPath(p)) {
			return nil, storage.ErrNotExist
		}
		return nil, err
	}
	return data, nil
}

// Stamp returns the modification time and size of the message file at p.
func (s *Store) Stamp(p string) (storage.Stamp, error) {
	p = stringutil.NormalizePath(p)
	if p == "" {
		return storage.Stamp{}, storage.ErrNotExist
	}
	fi, err := os.Stat(s.diskPath(p))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return storage.Stamp{}, storage.ErrNotExist
		}
		return storage.Stamp{}, err
	}
	if fi.IsDir() {
		return storage.Stamp{}, storage.ErrNotExist
	}
	return storage.Stamp{ModTime: fi.ModTime(), Size: fi.Size()}, nil
}

// readMetadata reads only the header block of the message file at p.
func (s *Store) readMetadata(p string) (*storage.Metadata, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return storage.ReadMetadata(f)
}

// diskPath maps a store relative path to the file system.
func (s *Store) diskPath(p string) string {
	if s.escapeColon {
		p = stringutil.EscapeColon(p)
	}
	return filepath.Join(s.root, filepath.FromSlash(p))
}

// fromDisk maps a file system name back to its store form.
func (s *Store) fromDisk(name string) string {
	if s.escapeColon {
		return stringutil.UnescapeColon(name)
	}
	return name
}

func isDirErr(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
