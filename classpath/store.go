// Package classpath holds the shared class index that completion queries
// read from, and keeps it in sync with jars, class directories and
// source roots on disk.
package classpath

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/caret/java"
)

var log = commonlog.GetLogger("caret.classpath")

// ErrStale is returned by View in StaleFail mode while the index is
// being rebuilt. Callers may retry.
var ErrStale = errors.New("class index is being rebuilt")

// StaleMode selects what View does while a rebuild is running.
type StaleMode string

const (
	StaleBlock StaleMode = "block"
	StaleFail  StaleMode = "fail"
)

func ParseStaleMode(s string) (StaleMode, error) {
	switch StaleMode(s) {
	case "", StaleBlock:
		return StaleBlock, nil
	case StaleFail:
		return StaleFail, nil
	}
	return "", errors.Errorf("unknown stale mode %q", s)
}

// Builder collects the models of a rebuild. It is not safe for
// concurrent use.
type Builder struct {
	models []*java.ClassModel
}

func (b *Builder) Add(models ...*java.ClassModel) {
	b.models = append(b.models, models...)
}

func (b *Builder) Len() int {
	return len(b.models)
}

// Store implements java.ClassLookup over an immutable snapshot that is
// swapped whole on every change.
type Store struct {
	mode StaleMode

	// writeMu serialises Add and Reindex.
	writeMu sync.Mutex

	mu         sync.RWMutex
	index      *java.Index
	generation uint64
	rebuilding chan struct{}
	// pending is the rebuild a pending store starts out in. The first
	// Reindex takes it over and closes it.
	pending chan struct{}
}

func NewStore(mode StaleMode) *Store {
	if mode == "" {
		mode = StaleBlock
	}
	return &Store{mode: mode, index: java.NewIndex()}
}

// NewPendingStore returns a store that treats its empty index as being
// rebuilt until the first Reindex finishes, so early views block or fail
// instead of reading nothing.
func NewPendingStore(mode StaleMode) *Store {
	s := NewStore(mode)
	s.pending = make(chan struct{})
	s.rebuilding = s.pending
	return s
}

func (s *Store) Mode() StaleMode {
	return s.mode
}

// View returns the current snapshot. While a rebuild is running it waits
// for the rebuild to publish, or fails with ErrStale in StaleFail mode.
func (s *Store) View() (java.ClassIndex, error) {
	for {
		s.mu.RLock()
		index, done := s.index, s.rebuilding
		s.mu.RUnlock()

		if done == nil {
			return index, nil
		}
		if s.mode == StaleFail {
			return nil, ErrStale
		}
		<-done
	}
}

// Generation counts published snapshots.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Classes lists every class of the current snapshot ordered by name.
func (s *Store) Classes() []*java.ClassModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Classes()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// Add publishes a snapshot extending the current one with models. A model
// replaces a class of the same name.
func (s *Store) Add(models ...*java.ClassModel) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	all := append(s.index.Classes(), models...)
	s.mu.RUnlock()

	s.publish(java.NewIndex(all...))
}

// Reindex rebuilds the snapshot from scratch with build. Views taken while
// build runs block or fail according to the stale mode. When build fails
// the previous snapshot stays in place.
func (s *Store) Reindex(build func(*Builder) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	done := s.pending
	if done == nil {
		done = make(chan struct{})
	}
	s.pending = nil
	s.rebuilding = done
	s.mu.Unlock()

	b := &Builder{}
	err := build(b)

	s.mu.Lock()
	if err == nil {
		s.index = java.NewIndex(b.models...)
		s.generation++
	}
	s.rebuilding = nil
	s.mu.Unlock()
	close(done)

	if err != nil {
		return errors.Wrap(err, "reindex")
	}
	log.Debugf("published generation %d with %d classes", s.Generation(), b.Len())
	return nil
}

func (s *Store) publish(index *java.Index) {
	s.mu.Lock()
	s.index = index
	s.generation++
	s.mu.Unlock()
}
