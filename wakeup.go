package interprocess

import (
	"context"
	"fmt"
	"io"
	"time"
)

// wakeupSignal is the Wake-up Signal component (spec.md §4.6). It is
// never load-bearing for correctness — every caller also polls shared
// state directly — so a missed or coalesced release only costs latency,
// never a lost message.
type wakeupSignal interface {
	io.Closer

	// release wakes at least one parked waiter, if any is parked at the
	// moment of the call. Never blocks, never fails the caller's publish
	// or dequeue.
	release()

	// wait blocks until a release arrives, timeout elapses, or ctx is
	// done. A timeout elapsing is not an error: the caller is expected to
	// re-poll shared state and call wait again. The bool return reports
	// whether a release woke the call (false means the timeout elapsed),
	// purely for metrics — correctness never depends on it.
	wait(ctx context.Context, timeout time.Duration) (bool, error)
}

func waitCtxOrTimer(ctx context.Context, timeout time.Duration, woken <-chan struct{}) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-woken:
		return true, nil
	case <-timer.C:
		return false, nil
	case <-ctx.Done():
		return false, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
	}
}
