//go:build windows

package interprocess

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sys/windows"
)

// maxParkedWaiters bounds a Windows semaphore's max count. spec.md §4.6
// allows "a suitably large constant"; subscriber counts in the thousands
// within one host are not a realistic deployment for this queue.
const maxParkedWaiters = 1 << 16

// windowsWakeup implements the Wake-up Signal with a named semaphore
// CT_IP_<queue>, per spec.md §4.6.
type windowsWakeup struct {
	sem windows.Handle
}

func newWakeupSignal(opts Options) (wakeupSignal, error) {
	name, err := windows.UTF16PtrFromString("Local\\CT_IP_" + opts.QueueName)
	if err != nil {
		return nil, fmt.Errorf("interprocess: encoding semaphore name: %w", err)
	}
	sem, err := windows.CreateSemaphore(nil, 0, maxParkedWaiters, name)
	if sem == 0 {
		return nil, fmt.Errorf("interprocess: CreateSemaphore: %w", err)
	}
	return &windowsWakeup{sem: sem}, nil
}

func (w *windowsWakeup) release() {
	windows.ReleaseSemaphore(w.sem, 1, nil)
}

func (w *windowsWakeup) wait(ctx context.Context, timeout time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	if ctx.Done() == nil {
		event, err := windows.WaitForSingleObject(w.sem, uint32(timeout/time.Millisecond))
		if err != nil {
			return false, fmt.Errorf("interprocess: WaitForSingleObject: %w", err)
		}
		return event == windows.WAIT_OBJECT_0, nil
	}

	// A context with a deadline/cancel needs to race the blocking wait
	// against ctx.Done(), since WaitForSingleObject has no Go-cancellable
	// form. A short poll interval keeps cancellation latency bounded
	// without busy-spinning.
	const pollStep = 10 * time.Millisecond
	remaining := timeout
	for remaining > 0 {
		select {
		case <-ctx.Done():
			return false, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		default:
		}
		step := pollStep
		if remaining < step {
			step = remaining
		}
		event, err := windows.WaitForSingleObject(w.sem, uint32(step/time.Millisecond))
		if err != nil {
			return false, fmt.Errorf("interprocess: WaitForSingleObject: %w", err)
		}
		if event == windows.WAIT_OBJECT_0 {
			return true, nil
		}
		remaining -= step
	}
	return false, nil
}

func (w *windowsWakeup) Close() error {
	if err := windows.CloseHandle(w.sem); err != nil {
		return fmt.Errorf("interprocess: closing semaphore handle: %w", err)
	}
	return nil
}
