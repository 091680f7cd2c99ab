package classpath

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/caret/java"
)

func model(name string) *java.ClassModel {
	return &java.ClassModel{Name: name, SimpleName: strings.TrimPrefix(name, "p."), Package: "p", Kind: java.ClassKindClass}
}

func TestStoreAdd(t *testing.T) {
	s := NewStore("")
	assert.Equal(t, StaleBlock, s.Mode())

	index, err := s.View()
	require.NoError(t, err)
	assert.Nil(t, index.FindClass("p.A"))
	assert.Equal(t, uint64(0), s.Generation())

	s.Add(model("p.A"))
	s.Add(model("p.B"))
	index, err = s.View()
	require.NoError(t, err)
	assert.NotNil(t, index.FindClass("p.A"))
	assert.NotNil(t, index.FindClass("p.B"))
	assert.Equal(t, uint64(2), s.Generation())
	assert.Equal(t, 2, s.Len())
}

func TestStoreSnapshotsAreImmutable(t *testing.T) {
	s := NewStore(StaleBlock)
	s.Add(model("p.A"))
	before, err := s.View()
	require.NoError(t, err)

	s.Add(model("p.B"))
	assert.Nil(t, before.FindClass("p.B"))
}

func TestStoreReindex(t *testing.T) {
	s := NewStore(StaleBlock)
	s.Add(model("p.Old"))

	require.NoError(t, s.Reindex(func(b *Builder) error {
		b.Add(model("p.New"))
		return nil
	}))
	index, err := s.View()
	require.NoError(t, err)
	assert.Nil(t, index.FindClass("p.Old"))
	assert.NotNil(t, index.FindClass("p.New"))

	generation := s.Generation()
	boom := errors.New("boom")
	err = s.Reindex(func(b *Builder) error {
		b.Add(model("p.Partial"))
		return boom
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, generation, s.Generation())
	index, err = s.View()
	require.NoError(t, err)
	assert.NotNil(t, index.FindClass("p.New"))
	assert.Nil(t, index.FindClass("p.Partial"))
}

// startRebuild runs a reindex that publishes p.Next once release is
// closed and waits until the rebuild has begun.
func startRebuild(t *testing.T, s *Store) (release chan struct{}, finished chan error) {
	t.Helper()
	started := make(chan struct{})
	release = make(chan struct{})
	finished = make(chan error, 1)
	go func() {
		finished <- s.Reindex(func(b *Builder) error {
			close(started)
			<-release
			b.Add(model("p.Next"))
			return nil
		})
	}()
	<-started
	return release, finished
}

func TestStoreViewBlocksDuringReindex(t *testing.T) {
	s := NewStore(StaleBlock)
	release, finished := startRebuild(t, s)

	views := make(chan java.ClassIndex, 1)
	go func() {
		index, err := s.View()
		assert.NoError(t, err)
		views <- index
	}()

	select {
	case <-views:
		t.Fatal("View returned while the rebuild was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-finished)
	select {
	case index := <-views:
		assert.NotNil(t, index.FindClass("p.Next"))
	case <-time.After(time.Second):
		t.Fatal("View did not return after the rebuild")
	}
}

func TestStoreViewFailsDuringReindex(t *testing.T) {
	s := NewStore(StaleFail)
	release, finished := startRebuild(t, s)

	_, err := s.View()
	assert.True(t, errors.Is(err, ErrStale))

	close(release)
	require.NoError(t, <-finished)
	index, err := s.View()
	require.NoError(t, err)
	assert.NotNil(t, index.FindClass("p.Next"))
}

func TestPendingStoreFailsUntilFirstReindex(t *testing.T) {
	s := NewPendingStore(StaleFail)

	_, err := s.View()
	assert.True(t, errors.Is(err, ErrStale))

	s.Add(model("p.Early"))
	_, err = s.View()
	assert.True(t, errors.Is(err, ErrStale), "Add must not end the pending state")

	require.NoError(t, s.Reindex(func(b *Builder) error {
		b.Add(model("p.Loaded"))
		return nil
	}))
	index, err := s.View()
	require.NoError(t, err)
	assert.NotNil(t, index.FindClass("p.Loaded"))
}

func TestPendingStoreBlocksUntilFirstReindex(t *testing.T) {
	s := NewPendingStore(StaleBlock)

	views := make(chan java.ClassIndex, 1)
	go func() {
		index, err := s.View()
		assert.NoError(t, err)
		views <- index
	}()

	select {
	case <-views:
		t.Fatal("View returned before the first reindex")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, s.Reindex(func(b *Builder) error {
		b.Add(model("p.Loaded"))
		return nil
	}))
	select {
	case index := <-views:
		assert.NotNil(t, index.FindClass("p.Loaded"))
	case <-time.After(time.Second):
		t.Fatal("View did not return after the first reindex")
	}
}

func TestPendingStoreReleasedByFailedReindex(t *testing.T) {
	s := NewPendingStore(StaleFail)

	err := s.Reindex(func(b *Builder) error {
		return errors.New("unreadable jar")
	})
	require.Error(t, err)

	index, err := s.View()
	require.NoError(t, err)
	assert.Empty(t, index.Packages())
	assert.Equal(t, 0, s.Len())
}

func TestParseStaleMode(t *testing.T) {
	mode, err := ParseStaleMode("")
	require.NoError(t, err)
	assert.Equal(t, StaleBlock, mode)

	mode, err = ParseStaleMode("fail")
	require.NoError(t, err)
	assert.Equal(t, StaleFail, mode)

	_, err = ParseStaleMode("sometimes")
	assert.Error(t, err)
}
