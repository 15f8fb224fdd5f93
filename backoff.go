package interprocess

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/cenkalti/backoff"
)

// blockingBackoff implements the tiered wait strategy spec.md §4.5
// prescribes for blocking Dequeue (and, symmetrically, blocking Enqueue):
// a handful of cooperative yields, then a growing parked wait on the
// wake-up signal, then a steady 10ms park. It never busy-spins past the
// first tier, and the wake-up signal is only ever a latency hint — a
// missed or coalesced signal just means the next TryEnqueue/TryDequeue
// happens up to one tier-interval later.
//
// The growing tier is timed with backoff.ExponentialBackOff (grounded in
// runsc/cgroup and runsc/specutils's retry loops in the teacher's wider
// example pack), capped at the spec's 10ms ceiling; the teacher's own
// spin.WaitStrategy informs the yield-then-park shape but is specific to
// a single-process SPSC queue and isn't reused verbatim here since our
// signal must cross process boundaries.
type blockingBackoff struct {
	signal  wakeupSignal
	metrics *Metrics
	attempt int
	grow    *backoff.ExponentialBackOff
}

const (
	yieldAttempts = 10
	growAttempts  = 10
	steadyWait    = 10 * time.Millisecond
)

func newBackoff(signal wakeupSignal, metrics *Metrics) *blockingBackoff {
	grow := backoff.NewExponentialBackOff()
	grow.InitialInterval = 1 * time.Millisecond
	grow.MaxInterval = steadyWait
	grow.Multiplier = 1.5
	grow.RandomizationFactor = 0
	grow.MaxElapsedTime = 0
	grow.Reset()
	return &blockingBackoff{signal: signal, metrics: metrics, grow: grow}
}

// wait blocks for one tier's worth of time, or returns ErrCancelled if ctx
// is done first.
func (b *blockingBackoff) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}

	b.attempt++
	if b.attempt <= yieldAttempts {
		runtime.Gosched()
		return nil
	}

	d := steadyWait
	if b.attempt <= yieldAttempts+growAttempts {
		d = b.grow.NextBackOff()
	}
	woken, err := b.signal.wait(ctx, d)
	if err != nil {
		return err
	}
	if !woken {
		b.metrics.incSignalMiss()
	}
	return nil
}
