package interprocess

import (
	"context"
	"testing"
	"time"
)

func TestBlockingBackoffYieldsBeforeParking(t *testing.T) {
	b := newBackoff(noopSignal{}, nil)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < yieldAttempts; i++ {
		if err := b.wait(ctx); err != nil {
			t.Fatalf("wait during yield tier: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("first %d attempts took %v, expected cooperative yields only", yieldAttempts, elapsed)
	}
}

func TestBlockingBackoffReturnsCancelledImmediately(t *testing.T) {
	b := newBackoff(noopSignal{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := b.wait(ctx); !IsCancelled(err) {
		t.Fatalf("wait with cancelled ctx = %v, want a cancelled error", err)
	}
}
