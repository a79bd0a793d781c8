// Package memory is an in-process store, mostly for tests and for
// embedding the merge engine without touching disk.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store"
)

// Store keeps a dataset in memory. Loads and saves copy the dataset so
// callers never share rows with the store.
type Store struct {
	name string

	mu      sync.RWMutex
	data    *records.Dataset
	backups []*records.Dataset
	saveErr error
}

var _ store.Store = (*Store)(nil)

// New returns a Store holding a copy of ds. A nil ds makes Load fail with
// a not-found error until something is saved.
func New(name string, ds *records.Dataset) *Store {
	s := &Store{name: name}
	if ds != nil {
		s.data = ds.Clone()
	}
	return s
}

// Location implements store.Store.
func (s *Store) Location() string { return "memory:" + s.name }

// Load implements store.Source.
func (s *Store) Load(_ context.Context) (*records.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, &errors.NotFoundError{Resource: "dataset", ID: s.Location()}
	}
	return s.data.Clone(), nil
}

// Save implements store.Sink.
func (s *Store) Save(_ context.Context, ds *records.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return errors.WrapStore("memory", "save", s.Location(), s.saveErr)
	}
	s.data = ds.Clone()
	return nil
}

// Backup implements store.Store.
func (s *Store) Backup(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return "", nil
	}
	s.backups = append(s.backups, s.data.Clone())
	return fmt.Sprintf("%s@%d", s.Location(), len(s.backups)), nil
}

// Backups returns the snapshots taken so far, oldest first.
func (s *Store) Backups() []*records.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*records.Dataset(nil), s.backups...)
}

// FailSaves makes every following Save return err. Nil restores normal
// behaviour.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}
