//go:build !windows

package interprocess

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// posixMemoryFile backs a queue's shared region with a regular file under
// <path>/.cloudtoid/interprocess/mmf/<queue>.qu, mapped MAP_SHARED.
type posixMemoryFile struct {
	file     *os.File
	data     []byte
	isCreator bool
}

func backingFilePath(opts Options) string {
	dir := opts.Path
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, ".cloudtoid", "interprocess", "mmf", opts.QueueName+".qu")
}

// openMemoryFile implements spec.md §4.1's POSIX creation protocol: try an
// exclusive create first; on collision, either attach non-destructively or
// (CreateOrOverride) truncate and take over ownership.
func openMemoryFile(opts Options) (memoryFile, error) {
	path := backingFilePath(opts)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("interprocess: creating mmf directory: %w", err)
	}

	size := opts.BytesCapacity()

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	isCreator := err == nil
	if err != nil {
		if !os.IsExist(err) {
			return nil, fmt.Errorf("interprocess: creating mmf: %w", err)
		}
		flags := os.O_RDWR
		if opts.CreateOrOverride {
			flags |= os.O_TRUNC
			isCreator = true
		}
		f, err = os.OpenFile(path, flags, 0o644)
		if err != nil {
			return nil, fmt.Errorf("interprocess: opening existing mmf: %w", err)
		}
	}

	if isCreator {
		if err := f.Truncate(size); err != nil {
			f.Close()
			if isCreator {
				os.Remove(path)
			}
			return nil, fmt.Errorf("interprocess: sizing mmf: %w", err)
		}
	} else {
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("interprocess: stat mmf: %w", err)
		}
		if info.Size() < size {
			f.Close()
			return nil, fmt.Errorf("%w: existing mmf %s is %d bytes, want at least %d (creator still initializing?)", ErrAlreadyExistsIncompatible, path, info.Size(), size)
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		if isCreator {
			if rmErr := os.Remove(path); rmErr != nil {
				logger().WithError(rmErr).Warn("best-effort unlink of mmf after failed mmap also failed")
			}
		}
		return nil, fmt.Errorf("interprocess: mmap: %w", err)
	}

	return &posixMemoryFile{file: f, data: data, isCreator: isCreator}, nil
}

func (m *posixMemoryFile) bytes() []byte { return m.data }
func (m *posixMemoryFile) created() bool { return m.isCreator }

// Close unmaps the region and, if this process created the backing file
// or took it over with CreateOrOverride, deletes it. Errors during the file close/unlink are logged, never
// returned, so they never mask a prior error from the mapping itself.
func (m *posixMemoryFile) Close() error {
	path := m.file.Name()
	err := unix.Munmap(m.data)
	if closeErr := m.file.Close(); closeErr != nil {
		logger().WithError(closeErr).Warn("closing mmf file descriptor failed")
	}
	if m.isCreator {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			logger().WithError(rmErr).Warn("unlinking mmf on dispose failed")
		}
	}
	if err != nil {
		return fmt.Errorf("interprocess: munmap: %w", err)
	}
	return nil
}
