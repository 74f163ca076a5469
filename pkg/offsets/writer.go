package offsets

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rvno/roadline/pkg/geom"
	"github.com/rvno/roadline/pkg/observability"
)

// Default AsyncWriter settings.
const (
	DefaultQueueSize    = 64
	DefaultWriteTimeout = 5 * time.Second
)

type write struct {
	key    string
	offset geom.Offset
	remove bool
	// barrier, when set, is closed once every earlier write has been applied.
	barrier chan struct{}
}

// AsyncWriter applies offset writes on a single background goroutine.
//
// Writes are applied in the order Persist was called. A failed write is
// logged and dropped: the in-memory position stays correct for the session
// and reverts to the last stored value on the next load. Persist only blocks
// when the queue is full.
type AsyncWriter struct {
	store   Store
	logger  *log.Logger
	timeout time.Duration
	onError func(key string, err error)

	queue chan write
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

// WriterOption configures an AsyncWriter.
type WriterOption func(*AsyncWriter)

// WithLogger sets the logger used for write failures.
func WithLogger(l *log.Logger) WriterOption {
	return func(w *AsyncWriter) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithWriteTimeout bounds each individual write.
func WithWriteTimeout(d time.Duration) WriterOption {
	return func(w *AsyncWriter) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithQueueSize sets how many writes may be pending before Persist blocks.
func WithQueueSize(n int) WriterOption {
	return func(w *AsyncWriter) {
		if n > 0 {
			w.queue = make(chan write, n)
		}
	}
}

// WithErrorHandler registers a callback for failed writes, for callers
// that want to surface a transient notice.
func WithErrorHandler(fn func(key string, err error)) WriterOption {
	return func(w *AsyncWriter) { w.onError = fn }
}

// NewAsyncWriter starts a writer for store.
func NewAsyncWriter(store Store, opts ...WriterOption) *AsyncWriter {
	w := &AsyncWriter{
		store:   store,
		logger:  log.New(io.Discard),
		timeout: DefaultWriteTimeout,
		queue:   make(chan write, DefaultQueueSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.run()
	return w
}

// Persist queues an upsert of key. It never reports an error; writes
// submitted after Close are logged and dropped.
func (w *AsyncWriter) Persist(key string, o geom.Offset) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.logger.Warn("offset write after close dropped", "key", key)
		return
	}
	w.queue <- write{key: key, offset: o}
}

// Reset queues a delete of key behind any pending writes, so an earlier
// Persist of the same key cannot land after it.
func (w *AsyncWriter) Reset(key string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.logger.Warn("offset reset after close dropped", "key", key)
		return
	}
	w.queue <- write{key: key, remove: true}
}

// Close stops accepting writes, waits for the queued ones to finish and
// returns. It does not close the store.
func (w *AsyncWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return nil
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()
	<-w.done
	return nil
}

// Flush waits until every write queued before the call has been applied.
// It returns ctx.Err() if ctx ends first and nil once the writer is closed.
func (w *AsyncWriter) Flush(ctx context.Context) error {
	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		<-w.done
		return nil
	}
	barrier := make(chan struct{})
	w.queue <- write{barrier: barrier}
	w.mu.RUnlock()

	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *AsyncWriter) run() {
	defer close(w.done)
	for wr := range w.queue {
		if wr.barrier != nil {
			close(wr.barrier)
			continue
		}
		w.apply(wr)
	}
}

func (w *AsyncWriter) apply(wr write) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	hooks := observability.Persist()
	hooks.OnPersistStart(ctx, wr.key)
	start := time.Now()
	var err error
	if wr.remove {
		err = w.store.Delete(ctx, wr.key)
	} else {
		err = w.store.Set(ctx, wr.key, wr.offset)
	}
	hooks.OnPersistComplete(ctx, wr.key, time.Since(start), err)

	if err != nil {
		w.logger.Error("offset write failed", "key", wr.key, "dx", wr.offset.DX, "dy", wr.offset.DY, "err", err)
		if w.onError != nil {
			w.onError(wr.key, err)
		}
		return
	}
	if wr.remove {
		w.logger.Debug("offset reset", "key", wr.key)
		return
	}
	w.logger.Debug("offset saved", "key", wr.key, "dx", wr.offset.DX, "dy", wr.offset.DY)
}
