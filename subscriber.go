package interprocess

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Subscriber claims frames from a queue's ring in FIFO order and hands
// their bodies back to the caller. Safe for concurrent use by multiple
// goroutines and multiple processes attached to the same queue.
type Subscriber struct {
	q       *Queue
	header  *queueHeader
	ring    *ring
	signal  wakeupSignal
	metrics *Metrics

	closed int32
}

func newSubscriber(q *Queue) *Subscriber {
	return &Subscriber{q: q, header: q.header, ring: q.ring, signal: q.signal, metrics: q.metrics}
}

// Close marks this Subscriber as no longer usable. It does not affect the
// underlying Queue or other Publishers/Subscribers attached to it.
func (s *Subscriber) Close() error {
	atomic.StoreInt32(&s.closed, 1)
	return nil
}

// TryDequeue attempts to claim and copy out the oldest unconsumed message
// without blocking. If dest is large enough to hold the body it is reused
// and returned; otherwise a freshly allocated slice is returned. It
// returns ErrQueueEmpty if there is no message to claim (ordinary
// backpressure — the caller should retry later).
func (s *Subscriber) TryDequeue(dest []byte) ([]byte, error) {
	if atomic.LoadInt32(&s.closed) != 0 || atomic.LoadInt32(&s.q.closed) != 0 {
		return nil, ErrClosed
	}

	head := s.header.loadHead()
	tail := s.header.loadTail()
	if head == tail {
		s.metrics.incQueueEmpty()
		return nil, ErrQueueEmpty
	}

	start := alignedFrameStart(head, s.ring.capacity)
	h := s.ring.header(start)

	// Claim: only a header in ReadyToBeConsumed is ours to take. Losing
	// this CAS means another subscriber (or a publisher still mid-write,
	// in the brief window before it flips the state) got here first or
	// hasn't published yet; either way this is ordinary contention, not
	// an error.
	if !h.casState(stateReadyToBeConsumed, stateLockedToBeConsumed) {
		s.metrics.incQueueEmpty()
		return nil, ErrQueueEmpty
	}

	// Re-check: HeadOffset may have moved between our first load and the
	// claim above. With a stale head, the slot at its ring index can
	// already hold a newer frame that reads Ready once the ring has
	// wrapped; that claim is reverted here.
	if s.header.loadHead() != head {
		h.casState(stateLockedToBeConsumed, stateReadyToBeConsumed)
		return nil, ErrQueueEmpty
	}

	bodyLen := h.bodyLength
	body := s.ring.read(s.ring.bodyOffset(start), bodyLen, dest)

	// Hygiene: zero the body and header before releasing the slot, so a
	// reused frame never exposes a previous message's bytes.
	s.ring.clear(s.ring.bodyOffset(start), bodyLen)
	h.bodyLength = 0
	atomic.StoreInt32(&h.state, stateEmpty)

	newHead := advance(start, frameLen(bodyLen))
	if !s.header.casHead(head, newHead) {
		// We hold the only claim on this slot; HeadOffset cannot have
		// moved out from under us. A CAS failure here means the queue's
		// invariants have been violated, by a bug in this package or by
		// a corrupted shared region.
		panic(fmt.Errorf("%w: HeadOffset changed while exclusively claimed", ErrInvariantBreach))
	}

	s.metrics.incDequeued()
	return body, nil
}

// Dequeue claims and copies out the oldest unconsumed message, blocking
// (with cooperative yields and wake-up waits, never a busy spin) until a
// message is available or ctx is done.
func (s *Subscriber) Dequeue(ctx context.Context, dest []byte) ([]byte, error) {
	b := newBackoff(s.signal, s.metrics)
	for {
		body, err := s.TryDequeue(dest)
		if err == nil {
			return body, nil
		}
		if !IsWouldBlock(err) {
			return nil, err
		}
		if err := b.wait(ctx); err != nil {
			return nil, err
		}
	}
}
