package interprocess

import "io"

// memoryFile is the Memory File component (spec.md §4.1): it creates or
// opens the backing object for the shared region, maps it, and ties the
// mapping's (and, on POSIX, the file's) lifetime to disposal policy.
// openMemoryFile is provided per-platform, in mmf_unix.go
// and mmf_windows.go.
type memoryFile interface {
	io.Closer

	// bytes returns the mapped region as a []byte of exactly size bytes.
	// Valid until Close.
	bytes() []byte

	// created reports whether this process is the one that created the
	// backing object (and so owns delete-on-dispose responsibility, on
	// POSIX).
	created() bool
}
