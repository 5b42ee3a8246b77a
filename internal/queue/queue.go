package queue

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/blobcache/internal/fs"
	"github.com/hupe1980/blobcache/internal/resource"
)

// ErrClosed is returned when work is queued after Close.
var ErrClosed = errors.New("queue: closed")

// WriteFunc observes a finished write.
type WriteFunc func(id uint32, bytes int, d time.Duration, err error)

// Config configures a Queue.
type Config struct {
	// FS is used to create entry files. Defaults to fs.Default.
	FS fs.FileSystem
	// Resources bounds pending bytes and write throughput. Optional.
	Resources *resource.Controller
	// OnWrite is called by the worker after every write. Optional.
	OnWrite WriteFunc
	// Logger receives write failures and debug output. Optional.
	Logger *slog.Logger
}

// Queue is a FIFO of deferred tasks drained by one worker goroutine.
type Queue struct {
	cfg Config
	ctx context.Context

	mu            sync.Mutex
	workAvailable *sync.Cond
	workerIdle    *sync.Cond
	tasks         []Task
	idle          bool
	closed        bool
	pending       map[uint32][]*Buffer

	done chan struct{}
}

// New creates a queue and starts its worker.
func New(cfg Config) *Queue {
	if cfg.FS == nil {
		cfg.FS = fs.Default
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	q := &Queue{
		cfg:     cfg,
		ctx:     context.Background(),
		idle:    true,
		pending: make(map[uint32][]*Buffer),
		done:    make(chan struct{}),
	}
	q.workAvailable = sync.NewCond(&q.mu)
	q.workerIdle = sync.NewCond(&q.mu)

	go q.run()

	return q
}

// Enqueue registers buf as pending for its entry and queues its write to path.
// It blocks only when a pending-bytes limit is configured and reached.
func (q *Queue) Enqueue(path string, buf *Buffer) error {
	if err := q.cfg.Resources.AcquirePending(q.ctx, buf.Size()); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		q.cfg.Resources.ReleasePending(buf.Size())
		return ErrClosed
	}

	q.pending[buf.id] = append(q.pending[buf.id], buf)
	q.push(writeTask(path, buf))
	return nil
}

// push appends t and wakes the worker. Must hold q.mu.
func (q *Queue) push(t Task) {
	q.tasks = append(q.tasks, t)
	q.workAvailable.Signal()
}

// Pending reports whether a write for id is queued or in flight.
func (q *Queue) Pending(id uint32) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending[id]) > 0
}

// PendingCount returns the number of buffers not yet written.
func (q *Queue) PendingCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, bufs := range q.pending {
		n += len(bufs)
	}
	return n
}

// WaitForWorkComplete blocks until the queue is empty and the worker is idle.
func (q *Queue) WaitForWorkComplete() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.tasks) > 0 || !q.idle {
		q.workerIdle.Wait()
	}
}

// Close lets the worker finish queued writes, stops it and waits for it to exit.
// It is idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.push(exitTask())
	q.mu.Unlock()

	q.WaitForWorkComplete()
	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.tasks) == 0 {
			q.idle = true
			q.workerIdle.Broadcast()
			q.workAvailable.Wait()
		}

		q.idle = false
		task := q.tasks[0]
		q.tasks[0] = Task{}
		q.tasks = q.tasks[1:]

		if task.Command == CommandExit {
			q.cfg.Logger.Debug("write worker exiting")
			q.idle = true
			q.workerIdle.Broadcast()
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()

		q.process(task)
	}
}

func (q *Queue) process(task Task) {
	switch task.Command {
	case CommandWriteToDisk:
		start := time.Now()
		n, err := q.write(task.Path, task.Buffer.Bytes())
		d := time.Since(start)

		q.complete(task.Buffer)

		if err != nil {
			q.cfg.Logger.Error("deferred write failed",
				"id", task.Buffer.id,
				"path", task.Path,
				"written", n,
				"error", err,
			)
		} else {
			q.cfg.Logger.Debug("deferred write completed",
				"id", task.Buffer.id,
				"path", task.Path,
				"bytes", n,
			)
		}
		if q.cfg.OnWrite != nil {
			q.cfg.OnWrite(task.Buffer.id, n, d, err)
		}
	default:
		q.cfg.Logger.Error("unhandled task", "command", task.Command)
	}
}

// write creates or truncates path and stores data in one write.
// A failed write leaves whatever reached the file; it is detected on read.
func (q *Queue) write(path string, data []byte) (int, error) {
	f, err := q.cfg.FS.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}

	w := resource.NewRateLimitedWriter(q.ctx, f, q.cfg.Resources)
	n, err := w.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		_ = f.Close()
		return n, fmt.Errorf("write %s: %w", path, err)
	}

	return n, f.Close()
}

// complete drops buf from the pending registry.
func (q *Queue) complete(buf *Buffer) {
	q.mu.Lock()
	defer q.mu.Unlock()

	bufs := q.pending[buf.id]
	if i := slices.Index(bufs, buf); i >= 0 {
		bufs = slices.Delete(bufs, i, i+1)
	}
	if len(bufs) == 0 {
		delete(q.pending, buf.id)
	} else {
		q.pending[buf.id] = bufs
	}

	q.cfg.Resources.ReleasePending(buf.Size())
}
