package interprocess

import "unsafe"

// ring is the Circular Buffer component (spec.md §4.3): address arithmetic
// over a Capacity-byte window of the shared region, with bounded,
// wrap-aware reads and writes. data is a zero-copy []byte view over the
// mapped region, produced by the platform-specific memoryFile.
type ring struct {
	data     []byte
	capacity int64
}

func newRing(data []byte, capacity int64) *ring {
	if int64(len(data)) != capacity {
		panic("interprocess: ring data length does not match capacity")
	}
	return &ring{data: data, capacity: capacity}
}

// alignedFrameStart returns the offset at which a frame header placed at
// offset must actually begin. Message headers are messageHeaderSize bytes
// and are never split across the ring's physical wrap point: every offset
// produced by this package is 8-byte aligned, and capacity is a power of
// two, so the distance from any 8-aligned offset to the ring's end is
// always itself a multiple of 8. That leaves exactly one case where a
// header wouldn't fit contiguously — 8 bytes of room left, less than
// messageHeaderSize — and in that case both the publisher (reserving a
// new frame) and the subscriber (locating the next frame) skip those
// trailing bytes identically, purely from capacity and offset, without
// writing or reading anything there. That symmetry is what keeps the two
// sides agreed, per the requirement in spec.md §4.3.
//
// A frame's body, by contrast, is plain bytes and is allowed to straddle
// the wrap point — ring.read/ring.write already concatenate the two
// contiguous spans when that happens.
func alignedFrameStart(offset, capacity int64) int64 {
	spaceToEnd := capacity - ringIndex(offset, capacity)
	if spaceToEnd < messageHeaderSize {
		return advance(offset, spaceToEnd)
	}
	return offset
}

// header returns a pointer to the message header whose frame begins at
// offset. The caller must have already applied alignedFrameStart.
func (r *ring) header(offset int64) *messageHeader {
	idx := ringIndex(offset, r.capacity)
	return (*messageHeader)(unsafe.Pointer(&r.data[idx]))
}

// bodyOffset returns the offset of the first byte of the body belonging to
// a frame whose header starts at offset. The body may straddle the wrap
// point, so it is accessed through read/write/clear.
func (r *ring) bodyOffset(offset int64) int64 {
	return advance(offset, messageHeaderSize)
}

// read copies length bytes starting at offset into dest if dest is large
// enough, or into a freshly allocated slice otherwise, wrapping around the
// ring's end if necessary.
func (r *ring) read(offset, length int64, dest []byte) []byte {
	var out []byte
	if int64(len(dest)) >= length {
		out = dest[:length]
	} else {
		out = make([]byte, length)
	}
	idx := ringIndex(offset, r.capacity)
	contiguous := r.capacity - idx
	if contiguous >= length {
		copy(out, r.data[idx:idx+length])
	} else {
		copy(out, r.data[idx:])
		copy(out[contiguous:], r.data[:length-contiguous])
	}
	return out
}

// write copies src into the ring starting at offset, wrapping around the
// ring's end if necessary.
func (r *ring) write(offset int64, src []byte) {
	idx := ringIndex(offset, r.capacity)
	contiguous := r.capacity - idx
	length := int64(len(src))
	if contiguous >= length {
		copy(r.data[idx:idx+length], src)
	} else {
		copy(r.data[idx:], src[:contiguous])
		copy(r.data[:length-contiguous], src[contiguous:])
	}
}

// clear zeroes length bytes starting at offset, wrapping if necessary.
func (r *ring) clear(offset, length int64) {
	idx := ringIndex(offset, r.capacity)
	contiguous := r.capacity - idx
	if contiguous >= length {
		clearBytes(r.data[idx : idx+length])
	} else {
		clearBytes(r.data[idx:])
		clearBytes(r.data[:length-contiguous])
	}
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
