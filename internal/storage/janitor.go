package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Janitor deletes blobs in the background after their database rows are
// gone. Deletion of a record must never block or fail on object storage, so
// callers schedule paths fire-and-forget; a blob whose delete ultimately
// fails is orphaned, which is harmless and cheaper than holding a request
// open for storage retries.
type Janitor struct {
	store   Storage
	log     zerolog.Logger
	queue   chan string
	wg      sync.WaitGroup
	once    sync.Once
	timeout time.Duration
}

// NewJanitor starts workers goroutines draining the deletion queue.
func NewJanitor(store Storage, workers int, log zerolog.Logger) *Janitor {
	if workers <= 0 {
		workers = 4
	}
	j := &Janitor{
		store:   store,
		log:     log,
		queue:   make(chan string, 1024),
		timeout: 30 * time.Second,
	}
	j.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go j.worker()
	}
	return j
}

// Schedule enqueues blob paths for deletion. It never blocks: when the
// queue is full the paths are dropped with a warning, leaving orphans for an
// out-of-band sweep.
func (j *Janitor) Schedule(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		select {
		case j.queue <- path:
		default:
			j.log.Warn().Str("path", path).Msg("blob deletion queue full, orphaning blob")
		}
	}
}

// Close stops accepting work and waits for in-flight deletions to finish.
func (j *Janitor) Close() {
	j.once.Do(func() {
		close(j.queue)
	})
	j.wg.Wait()
}

func (j *Janitor) worker() {
	defer j.wg.Done()
	for path := range j.queue {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		if err := j.store.Delete(ctx, path); err != nil {
			j.log.Warn().Err(err).Str("path", path).Msg("blob deletion failed, orphaning blob")
		}
		cancel()
	}
}
