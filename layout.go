package interprocess

import (
	"sync/atomic"
	"unsafe"
)

// Message header states, per spec.md §3.1. Zero value (Empty) is what a
// freshly zero-filled region contains, so bytes outside the occupied
// [head, tail) range never look like a valid frame.
const (
	stateEmpty              int32 = 0
	stateLockedToBeEnqueued int32 = 1
	stateReadyToBeConsumed  int32 = 2
	stateLockedToBeConsumed int32 = 3
)

// queueHeader is the fixed record at offset 0 of the shared region.
// TailOffset and HeadOffset are each cache-line padded so that a
// publisher's CAS on tailOffset and a subscriber's CAS on headOffset never
// false-share a cache line — the same layout choice the teacher's
// QueueHeader makes for WritePos/ReadPos.
type queueHeader struct {
	tailOffset int64    // modified only by publishers, via CAS
	_          [56]byte // pad to 64 bytes
	headOffset int64    // modified only by subscribers, via CAS
	_          [56]byte // pad to 64 bytes
}

const queueHeaderSize = int64(unsafe.Sizeof(queueHeader{}))

func (h *queueHeader) loadTail() int64 {
	return atomic.LoadInt64(&h.tailOffset)
}

func (h *queueHeader) loadHead() int64 {
	return atomic.LoadInt64(&h.headOffset)
}

func (h *queueHeader) casTail(old, new int64) bool {
	return atomic.CompareAndSwapInt64(&h.tailOffset, old, new)
}

func (h *queueHeader) casHead(old, new int64) bool {
	return atomic.CompareAndSwapInt64(&h.headOffset, old, new)
}

// messageHeader precedes every message body in the ring, 8-byte aligned.
type messageHeader struct {
	state      int32
	_          [4]byte // pad State to an 8-byte boundary ahead of BodyLength
	bodyLength int64
}

const messageHeaderSize = int64(unsafe.Sizeof(messageHeader{}))

func (h *messageHeader) loadState() int32 {
	return atomic.LoadInt32(&h.state)
}

func (h *messageHeader) casState(old, new int32) bool {
	return atomic.CompareAndSwapInt32(&h.state, old, new)
}

// ceil8 rounds n up to the next multiple of 8.
func ceil8(n int64) int64 {
	return (n + 7) &^ 7
}

// frameLen returns the total 8-byte-aligned length of a frame carrying a
// body of bodyLen bytes: header + body + padding.
func frameLen(bodyLen int64) int64 {
	return ceil8(messageHeaderSize + bodyLen)
}
