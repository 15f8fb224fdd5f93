package interprocess

import (
	"math"
	"testing"
)

func TestAdvanceWrapsPastMaxInt64(t *testing.T) {
	offset := int64(math.MaxInt64 - 3)
	got := advance(offset, 10)
	want := int64(math.MinInt64 + 6) // wraps through the uint64 range
	if got != want {
		t.Fatalf("advance(%d, 10) = %d, want %d", offset, got, want)
	}
}

func TestRingIndexStableAcrossWrap(t *testing.T) {
	capacity := int64(64)
	offset := int64(math.MaxInt64 - 3) // not itself a multiple of capacity
	before := ringIndex(offset, capacity)
	after := ringIndex(advance(offset, capacity), capacity)
	if before != after {
		t.Fatalf("ringIndex not stable under +capacity across wraparound: %d vs %d", before, after)
	}
}

func TestRingIndexMatchesModuloForSmallOffsets(t *testing.T) {
	capacity := int64(128)
	for _, offset := range []int64{0, 1, 63, 64, 127, 128, 255} {
		if got, want := ringIndex(offset, capacity), offset%capacity; got != want {
			t.Fatalf("ringIndex(%d, %d) = %d, want %d", offset, capacity, got, want)
		}
	}
}
