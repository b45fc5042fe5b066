package storage

import (
	"github.com/stretchr/testify/mock"
)

// MockStore is a shared mock for unit testing
type MockStore struct {
	mock.Mock
}

var _ Store = &MockStore{}

// Mailboxes mock function
func (m *MockStore) Mailboxes() ([]string, error) {
	args := m.Called()
	boxes, _ := args.Get(0).([]string)
	return boxes, args.Error(1)
}

// Messages mock function
func (m *MockStore) Messages(mailbox string) ([]*Metadata, error) {
	args := m.Called(mailbox)
	metas, _ := args.Get(0).([]*Metadata)
	return metas, args.Error(1)
}

// Stamp mock function
func (m *MockStore) Stamp(path string) (Stamp, error) {
	args := m.Called(path)
	st, _ := args.Get(0).(Stamp)
	return st, args.Error(1)
}

// Source mock function
func (m *MockStore) Source(path string) ([]byte, error) {
	args := m.Called(path)
	source, _ := args.Get(0).([]byte)
	return source, args.Error(1)
}
