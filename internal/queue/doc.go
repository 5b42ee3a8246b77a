// Package queue persists cache entries on a single background worker.
//
// Writes are queued in FIFO order and executed one at a time, so entries
// reach disk in the order they were set. Each queued buffer is registered in
// a pending-writes multimap keyed by entry ID until its write finishes,
// successfully or not; the same ID can have several buffers in flight when it
// is overwritten quickly, so completion matches on buffer identity.
//
// WaitForWorkComplete is the only cross-goroutine synchronization point the
// cache uses: it returns once the queue is empty and the worker is idle.
//
//	q := queue.New(queue.Config{})
//	defer q.Close()
//
//	if err := q.Enqueue(path, queue.NewBuffer(id, data)); err != nil { ... }
//	q.WaitForWorkComplete()
package queue
