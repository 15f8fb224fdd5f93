//go:build !windows

package interprocess

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// posixWakeup implements the Wake-up Signal over a domain-socket fan-out,
// per spec.md §4.6: POSIX has no portable, leak-free named semaphore, so
// every process that opens the queue runs both a Server (listens on its
// own socket, reads the bytes that peers' release() writes to it, and
// feeds them into this process's own wait()) and a Client (dials every
// other discoverable server; release() writes one byte to each of them
// and also wakes this process's own waiter).
//
// The per-run random suffix in each socket's filename exists so that a
// crashed process's stale socket path is never reused by a new process
// that happens to get the same pid; spec.md leaves the suffix's source
// unspecified (an earlier revision used a wall-clock tick, which two
// processes started in the same tick could collide on) — see DESIGN.md,
// Open Question 2. crypto/rand costs one syscall at startup and removes
// the collision entirely.
type posixWakeup struct {
	dir      string
	selfPath string
	listener net.Listener

	mu    sync.Mutex
	peers map[string]net.Conn // dialed client-side conns, keyed by the peer socket path found in dir

	woken chan struct{}

	closeOnce sync.Once
	closeCh   chan struct{}
}

func wakeupDir(opts Options) string {
	dir := opts.Path
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, ".cloudtoid", "interprocess", "wake", opts.QueueName)
}

func randSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

func newWakeupSignal(opts Options) (wakeupSignal, error) {
	dir := wakeupDir(opts)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("interprocess: creating wake-up socket directory: %w", err)
	}

	suffix, err := randSuffix()
	if err != nil {
		return nil, fmt.Errorf("interprocess: generating wake-up socket suffix: %w", err)
	}
	selfPath := filepath.Join(dir, fmt.Sprintf("%d-%s.sock", os.Getpid(), suffix))

	listener, err := net.Listen("unix", selfPath)
	if err != nil {
		return nil, fmt.Errorf("interprocess: listening on wake-up socket: %w", err)
	}

	w := &posixWakeup{
		dir:      dir,
		selfPath: selfPath,
		listener: listener,
		peers:    make(map[string]net.Conn),
		woken:    make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
	}
	go w.acceptLoop()
	go w.discoverLoop()
	return w, nil
}

func (w *posixWakeup) acceptLoop() {
	for {
		conn, err := w.listener.Accept()
		if err != nil {
			return
		}
		go w.serveClient(conn)
	}
}

// serveClient blocks reading single bytes sent by one remote client's
// release() and feeds this process's own woken channel. It is the server
// side of the fan-out: this process is the one releasing to that client,
// but the same byte stream direction also lets a remote client's own
// releases reach us if the remote process symmetrically connects back —
// in practice every process dials every other process it discovers, so
// both directions exist between any two live peers.
func (w *posixWakeup) serveClient(conn net.Conn) {
	defer conn.Close()
	buf := make([]byte, 1)
	for {
		if _, err := conn.Read(buf); err != nil {
			return
		}
		select {
		case w.woken <- struct{}{}:
		default:
		}
	}
}

// discoverLoop periodically scans the wake-up directory for peer sockets
// and dials any not already connected, so that a subscriber or publisher
// started after this process still eventually gets discovered ("the
// client reconnects lazily", spec.md §4.6).
func (w *posixWakeup) discoverLoop() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-w.closeCh:
			return
		case <-ticker.C:
			w.discoverOnce()
		}
	}
}

func (w *posixWakeup) discoverOnce() {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		if path == w.selfPath {
			continue
		}
		w.mu.Lock()
		_, known := w.peers[path]
		w.mu.Unlock()
		if known {
			continue
		}
		conn, err := net.DialTimeout("unix", path, 100*time.Millisecond)
		if err != nil {
			continue
		}
		w.mu.Lock()
		w.peers[path] = conn
		w.mu.Unlock()
		go w.maintainPeer(path, conn)
	}
}

// maintainPeer drops a peer from the known set once its connection dies,
// so discoverOnce will redial it (or its replacement) on a later pass.
func (w *posixWakeup) maintainPeer(path string, conn net.Conn) {
	buf := make([]byte, 1)
	for {
		if _, err := conn.Read(buf); err != nil {
			w.mu.Lock()
			delete(w.peers, path)
			w.mu.Unlock()
			conn.Close()
			return
		}
		select {
		case w.woken <- struct{}{}:
		default:
		}
	}
}

func (w *posixWakeup) release() {
	select {
	case w.woken <- struct{}{}:
	default:
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, conn := range w.peers {
		if _, err := conn.Write([]byte{1}); err != nil {
			conn.Close()
			delete(w.peers, path)
		}
	}
}

func (w *posixWakeup) wait(ctx context.Context, timeout time.Duration) (bool, error) {
	return waitCtxOrTimer(ctx, timeout, w.woken)
}

func (w *posixWakeup) Close() error {
	w.closeOnce.Do(func() {
		close(w.closeCh)
		w.listener.Close()
		w.mu.Lock()
		for _, conn := range w.peers {
			conn.Close()
		}
		w.mu.Unlock()
		if err := os.Remove(w.selfPath); err != nil && !os.IsNotExist(err) {
			logger().WithError(err).Warn("removing wake-up socket on dispose failed")
		}
	})
	return nil
}
