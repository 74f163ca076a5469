package offsets

import (
	"bytes"
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/rvno/roadline/pkg/geom"
)

// recordingStore records Set calls and can be told to fail.
type recordingStore struct {
	*MemoryStore
	mu   sync.Mutex
	keys []string
	fail error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: NewMemoryStore(nil)}
}

func (s *recordingStore) Set(ctx context.Context, key string, o geom.Offset) error {
	s.mu.Lock()
	s.keys = append(s.keys, key)
	fail := s.fail
	s.mu.Unlock()
	if fail != nil {
		return fail
	}
	return s.MemoryStore.Set(ctx, key, o)
}

func TestAsyncWriterAppliesInOrder(t *testing.T) {
	store := newRecordingStore()
	w := NewAsyncWriter(store)

	w.Persist("2022", geom.Offset{DX: 1})
	w.Persist("2021", geom.Offset{DX: 2})
	w.Persist("2022", geom.Offset{DX: 15, DY: -10})
	require.NoError(t, w.Close())

	require.Equal(t, []string{"2022", "2021", "2022"}, store.keys)
	o, err := store.Get(context.Background(), "2022")
	require.NoError(t, err)
	require.Equal(t, geom.Offset{DX: 15, DY: -10}, o)
}

func TestAsyncWriterResetRunsAfterPendingWrites(t *testing.T) {
	store := newRecordingStore()
	w := NewAsyncWriter(store)

	w.Persist("2022", geom.Offset{DX: 15, DY: -10})
	w.Reset("2022")
	w.Persist("2021", geom.Offset{DX: 4})
	require.NoError(t, w.Close())

	all, err := store.All(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]geom.Offset{"2021": {DX: 4}}, all)
}

func TestAsyncWriterFlushWaitsForQueuedWrites(t *testing.T) {
	store := newRecordingStore()
	w := NewAsyncWriter(store)
	defer w.Close()

	w.Persist("2022", geom.Offset{DX: 15, DY: -10})
	require.NoError(t, w.Flush(context.Background()))
	o, err := store.Get(context.Background(), "2022")
	require.NoError(t, err)
	require.Equal(t, geom.Offset{DX: 15, DY: -10}, o)

	require.NoError(t, w.Close())
	require.NoError(t, w.Flush(context.Background()))
}

func TestAsyncWriterLogsFailuresWithoutRetry(t *testing.T) {
	store := newRecordingStore()
	store.fail = stderrors.New("disk full")

	var buf bytes.Buffer
	var failed []string
	w := NewAsyncWriter(store,
		WithLogger(log.New(&buf)),
		WithErrorHandler(func(key string, err error) { failed = append(failed, key) }),
	)
	w.Persist("2022", geom.Offset{DX: 15})
	require.NoError(t, w.Close())

	require.Equal(t, []string{"2022"}, store.keys, "failed write must not be retried")
	require.Equal(t, []string{"2022"}, failed)
	require.Contains(t, buf.String(), "offset write failed")
}

func TestAsyncWriterDropsAfterClose(t *testing.T) {
	store := newRecordingStore()
	w := NewAsyncWriter(store, WithQueueSize(1))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	w.Persist("2022", geom.Offset{DX: 1})
	require.Empty(t, store.keys)
}
