//go:build !windows

package interprocess

import (
	"context"
	"testing"
	"time"
)

func TestWakeupSignalReleaseWakesWaiter(t *testing.T) {
	dir := t.TempDir()
	opts := Options{QueueName: "wake-basic", Path: dir, Capacity: 64}

	a, err := newWakeupSignal(opts)
	if err != nil {
		t.Fatalf("newWakeupSignal a: %v", err)
	}
	defer a.Close()

	b, err := newWakeupSignal(opts)
	if err != nil {
		t.Fatalf("newWakeupSignal b: %v", err)
	}
	defer b.Close()

	// Give the two signals' discovery loops time to find and dial each
	// other's sockets before we start timing the release.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		a.(*posixWakeup).mu.Lock()
		n := len(a.(*posixWakeup).peers)
		a.(*posixWakeup).mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	ctx := context.Background()
	woke := make(chan bool, 1)
	go func() {
		woken, err := b.wait(ctx, 2*time.Second)
		if err != nil {
			t.Errorf("wait: %v", err)
			return
		}
		woke <- woken
	}()

	time.Sleep(50 * time.Millisecond)
	a.release()

	select {
	case woken := <-woke:
		if !woken {
			t.Fatal("wait returned without being woken; release did not arrive before the timeout")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("wait never returned")
	}
}

func TestWakeupSignalWaitTimesOutWithNoPeers(t *testing.T) {
	dir := t.TempDir()
	opts := Options{QueueName: "wake-lonely", Path: dir, Capacity: 64}

	s, err := newWakeupSignal(opts)
	if err != nil {
		t.Fatalf("newWakeupSignal: %v", err)
	}
	defer s.Close()

	start := time.Now()
	woken, err := s.wait(context.Background(), 50*time.Millisecond)
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if woken {
		t.Fatal("wait reported woken with no peers connected")
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("wait returned too early (%v), expected to degrade to the timeout", elapsed)
	}
}

func TestWakeupSignalWaitRespectsCancellation(t *testing.T) {
	dir := t.TempDir()
	opts := Options{QueueName: "wake-cancel", Path: dir, Capacity: 64}

	s, err := newWakeupSignal(opts)
	if err != nil {
		t.Fatalf("newWakeupSignal: %v", err)
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.wait(ctx, time.Second); !IsCancelled(err) {
		t.Fatalf("wait with cancelled ctx = %v, want a cancelled error", err)
	}
}
