package interprocess

// Offsets grow monotonically forever; only offset mod Capacity indexes the
// ring. spec.md §4.3 flags the source's overflow-safe increment as a
// one-time wrap that silently breaks FIFO once the queue survives long
// enough to hit it, and asks for "a genuine modular-offset scheme shared
// by both sides" instead.
//
// This implementation is that scheme: offsets are stored as int64 (per
// spec.md §3.1) but all arithmetic is done on their uint64 bit pattern,
// which wraps around modulo 2^64 with defined, lossless semantics in Go.
// (newOffset - oldOffset) == increment holds exactly under that wraparound
// for every increment used by this package (frame lengths, always > 0 and
// far smaller than 2^64). Reducing a wrapped offset modulo Capacity stays
// correct forever only if Capacity divides 2^64 evenly, i.e. Capacity is a
// power of two — which is exactly what Options.validate enforces. This is
// a deliberate tightening of spec.md's "multiple of 8" rule; see
// DESIGN.md, Open Question 1.

// advance returns offset+increment using wraparound-safe arithmetic.
func advance(offset, increment int64) int64 {
	return int64(uint64(offset) + uint64(increment))
}

// ringIndex returns the byte index into a ring of the given capacity that
// offset addresses.
func ringIndex(offset, capacity int64) int64 {
	return int64(uint64(offset) & uint64(capacity-1))
}
