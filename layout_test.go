package interprocess

import "testing"

func TestQueueHeaderFieldsArePaddedApart(t *testing.T) {
	if got := queueHeaderSize; got < 128 {
		t.Fatalf("queueHeaderSize = %d, want at least 128 to keep TailOffset and HeadOffset off the same cache line", got)
	}
}

func TestFrameLenRoundsUpToEightBytes(t *testing.T) {
	cases := []struct{ bodyLen, want int64 }{
		{0, ceil8(messageHeaderSize)},
		{1, ceil8(messageHeaderSize + 1)},
		{8, messageHeaderSize + 8},
		{9, ceil8(messageHeaderSize + 9)},
	}
	for _, c := range cases {
		if got := frameLen(c.bodyLen); got != c.want {
			t.Errorf("frameLen(%d) = %d, want %d", c.bodyLen, got, c.want)
		}
		if got := frameLen(c.bodyLen); got%8 != 0 {
			t.Errorf("frameLen(%d) = %d, not 8-byte aligned", c.bodyLen, got)
		}
	}
}

func TestMessageHeaderCASOnlySucceedsFromExpectedState(t *testing.T) {
	h := &messageHeader{state: stateEmpty}

	if h.casState(stateReadyToBeConsumed, stateLockedToBeConsumed) {
		t.Fatal("CAS succeeded from the wrong expected state")
	}
	if !h.casState(stateEmpty, stateLockedToBeEnqueued) {
		t.Fatal("CAS failed from the correct expected state")
	}
	if got := h.loadState(); got != stateLockedToBeEnqueued {
		t.Fatalf("state after CAS = %d, want %d", got, stateLockedToBeEnqueued)
	}
}
