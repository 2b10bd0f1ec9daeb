// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mzheludkov/pinpoint/internal/metrics"
	"github.com/mzheludkov/pinpoint/internal/models"
)

// Writer drains queued dot inserts on a single goroutine, keeping the
// insert order per login. Enqueue never blocks the caller; a full
// queue drops the task.
type Writer struct {
	store *Store
	log   zerolog.Logger

	mu      sync.Mutex
	tasks   *sync.Cond
	queue   []models.StoreTask
	maxSize int
	stopped bool
}

// NewWriter builds a writer over store with a bounded queue.
func NewWriter(store *Store, queueSize int, log zerolog.Logger) *Writer {
	if queueSize <= 0 {
		queueSize = 256
	}
	w := &Writer{
		store:   store,
		log:     log.With().Str("component", "store-writer").Logger(),
		maxSize: queueSize,
	}
	w.tasks = sync.NewCond(&w.mu)
	return w
}

// EnqueueInsert queues one dot insert. Reports false when the queue is
// full or the writer has stopped.
func (w *Writer) EnqueueInsert(task models.StoreTask) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped || len(w.queue) >= w.maxSize {
		return false
	}
	w.queue = append(w.queue, task)
	metrics.StoreQueueDepth.Set(float64(len(w.queue)))
	w.tasks.Signal()
	return true
}

// QueueDepth reports the number of pending tasks.
func (w *Writer) QueueDepth() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Serve drains the queue until ctx is canceled, then flushes what is
// already queued before returning. Failed inserts are logged and
// dropped; the writer keeps going.
func (w *Writer) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()
		w.tasks.Broadcast()
	})
	defer stop()

	for {
		w.mu.Lock()
		for len(w.queue) == 0 && !w.stopped {
			w.tasks.Wait()
		}
		if len(w.queue) == 0 && w.stopped {
			w.mu.Unlock()
			return ctx.Err()
		}
		task := w.queue[0]
		w.queue = w.queue[1:]
		metrics.StoreQueueDepth.Set(float64(len(w.queue)))
		w.mu.Unlock()

		if err := w.store.InsertDot(context.Background(), task.Login, task.Dot); err != nil {
			metrics.StoreWriteErrors.Inc()
			w.log.Error().Err(err).Str("login", task.Login).Msg("dot insert failed")
		}
	}
}

// String names the writer in supervisor logs.
func (w *Writer) String() string { return "store-writer" }
