package interprocess

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// ptrAt returns a pointer into data at the given byte offset. Callers are
// responsible for ensuring data is long enough and properly aligned for
// the type they cast the result to; the shared region's layout guarantees
// this for queueHeader at offset 0, since mmap/MapViewOfFile return
// page-aligned (and so far-more-than-8-byte-aligned) addresses.
func ptrAt(data []byte, offset int64) unsafe.Pointer {
	return unsafe.Pointer(&data[offset])
}

// Queue is the public entrypoint: it owns the memory-mapped shared region
// and the wake-up signal for one (path, name) queue, and hands out
// Publishers and Subscribers that share them. Safe for concurrent use.
type Queue struct {
	opts Options

	mmf     memoryFile
	header  *queueHeader
	ring    *ring
	signal  wakeupSignal
	metrics *Metrics

	closed int32
}

// Open creates or attaches to the queue described by opts, per spec.md
// §3.3: the first process to open a given (path, name) creates the
// backing region; later ones attach to it.
func Open(opts Options) (*Queue, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	mmf, err := openMemoryFile(opts)
	if err != nil {
		return nil, err
	}

	signal, err := newWakeupSignal(opts)
	if err != nil {
		mmf.Close()
		return nil, err
	}

	data := mmf.bytes()
	header := (*queueHeader)(ptrAt(data, 0))
	ringData := data[queueHeaderSize:]

	q := &Queue{
		opts:    opts,
		mmf:     mmf,
		header:  header,
		ring:    newRing(ringData, opts.Capacity),
		signal:  signal,
		metrics: opts.Metrics,
	}

	logger().WithFields(map[string]interface{}{
		"queue":    opts.QueueName,
		"capacity": opts.Capacity,
		"creator":  mmf.created(),
	}).Debug("queue opened")

	return q, nil
}

// NewPublisher returns a Publisher attached to this queue.
func (q *Queue) NewPublisher() *Publisher {
	return newPublisher(q)
}

// NewSubscriber returns a Subscriber attached to this queue.
func (q *Queue) NewSubscriber() *Subscriber {
	return newSubscriber(q)
}

// Close unmaps the shared region and releases the wake-up signal. If this
// process created the backing region (POSIX) or is the last to release it
// (Windows, via kernel reference counting), the underlying object is
// destroyed per spec.md §3.3. Idempotent.
func (q *Queue) Close() error {
	if !atomic.CompareAndSwapInt32(&q.closed, 0, 1) {
		return nil
	}

	var errs []error
	if err := q.signal.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := q.mmf.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("interprocess: closing queue: %v", errs)
	}
	return nil
}
