package interprocess

import "errors"

// Sentinel errors returned by this package. Each is wrapped with
// additional context via fmt.Errorf("...: %w", ...) at the call site, so
// callers should compare with errors.Is rather than direct equality.
var (
	// ErrInvalidOption is returned by Open when an Options field is out of
	// range. Fatal to the caller; the queue was never created. TryEnqueue
	// and Enqueue also return it for an empty body.
	ErrInvalidOption = errors.New("interprocess: invalid option")

	// ErrAlreadyExistsIncompatible is returned when an existing backing
	// object (a POSIX file or a Windows named section) is found smaller
	// than this queue's Options require.
	ErrAlreadyExistsIncompatible = errors.New("interprocess: existing shared region has incompatible size")

	// ErrMessageTooLarge is returned by TryEnqueue and Enqueue when the body plus its
	// frame header would exceed the ring's capacity. The queue's state is
	// unchanged.
	ErrMessageTooLarge = errors.New("interprocess: message too large for queue capacity")

	// ErrQueueFull is returned by TryEnqueue when there isn't enough free
	// space to reserve a frame. Not a failure: callers should treat it as
	// ordinary backpressure.
	ErrQueueFull = errors.New("interprocess: queue is full")

	// ErrQueueEmpty is returned by TryDequeue when there is no message to
	// claim. Not a failure: callers should treat it as ordinary
	// backpressure.
	ErrQueueEmpty = errors.New("interprocess: queue is empty")

	// ErrCancelled is returned when a blocking call's context is done
	// before the operation could complete. The queue's state is
	// unchanged.
	ErrCancelled = errors.New("interprocess: operation cancelled")

	// ErrClosed is returned by any operation attempted after the owning
	// Queue, Publisher, or Subscriber has been closed.
	ErrClosed = errors.New("interprocess: queue is closed")

	// ErrInvariantBreach indicates a compare-and-swap that this process
	// held an exclusive lock for nonetheless failed. This can only mean
	// memory corruption or a bug in another process sharing the queue; it
	// is never a normal runtime condition.
	ErrInvariantBreach = errors.New("interprocess: invariant breach")
)

// IsWouldBlock reports whether err indicates the operation would need to
// block: the queue was full (publish) or empty (dequeue). Callers polling
// TryEnqueue/TryDequeue in a loop should treat this as a normal retry
// signal, not a failure.
func IsWouldBlock(err error) bool {
	return errors.Is(err, ErrQueueFull) || errors.Is(err, ErrQueueEmpty)
}

// IsCancelled reports whether err resulted from a cancelled context.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
