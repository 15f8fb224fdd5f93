//go:build windows

package interprocess

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

func unsafeBytesFromPointer(addr uintptr, size int) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
}

// windowsMemoryFile backs a queue's shared region with a named section
// CT_IP_<queue>, per spec.md §4.1. There is no filesystem artifact;
// lifetime is reference-counted by the kernel, so Close just unmaps and
// closes this process's handles.
type windowsMemoryFile struct {
	section windows.Handle
	addr    uintptr
	data    []byte
	isCreator bool
}

func sectionName(opts Options) string {
	return "Local\\CT_IP_" + opts.QueueName
}

func openMemoryFile(opts Options) (memoryFile, error) {
	size := uint64(opts.BytesCapacity())
	name, err := windows.UTF16PtrFromString(sectionName(opts))
	if err != nil {
		return nil, fmt.Errorf("interprocess: encoding section name: %w", err)
	}

	section, err := windows.CreateFileMapping(
		windows.InvalidHandle,
		nil,
		windows.PAGE_READWRITE,
		uint32(size>>32),
		uint32(size&0xFFFFFFFF),
		name,
	)
	// CreateFileMapping succeeds whether or not the section already
	// existed; ERROR_ALREADY_EXISTS just tells us which case it was. When
	// it did already exist, the size we passed above was ignored by the
	// OS — the section keeps whatever size its creator gave it.
	isCreator := err != windows.ERROR_ALREADY_EXISTS
	if section == 0 {
		return nil, fmt.Errorf("interprocess: CreateFileMapping: %w", err)
	}

	// A fresh section is mapped at its known size directly. An existing
	// one is mapped with dwNumberOfBytesToMap=0, which maps its whole
	// actual extent regardless of what we asked CreateFileMapping for;
	// VirtualQuery below then tells us what that extent actually was, so
	// we can check it against what this queue's Options expect before
	// treating the mapping as usable.
	mapSize := uintptr(size)
	if !isCreator {
		mapSize = 0
	}

	addr, err := windows.MapViewOfFile(section, windows.FILE_MAP_ALL_ACCESS, 0, 0, mapSize)
	if addr == 0 {
		windows.CloseHandle(section)
		return nil, fmt.Errorf("interprocess: MapViewOfFile: %w", err)
	}

	if !isCreator {
		var mbi windows.MemoryBasicInformation
		if err := windows.VirtualQuery(addr, &mbi, unsafe.Sizeof(mbi)); err != nil {
			windows.UnmapViewOfFile(addr)
			windows.CloseHandle(section)
			return nil, fmt.Errorf("interprocess: VirtualQuery: %w", err)
		}
		if uint64(mbi.RegionSize) < size {
			windows.UnmapViewOfFile(addr)
			windows.CloseHandle(section)
			return nil, fmt.Errorf("%w: existing section %s is %d bytes, want at least %d", ErrAlreadyExistsIncompatible, sectionName(opts), mbi.RegionSize, size)
		}
	}

	data := unsafeBytesFromPointer(addr, int(size))
	return &windowsMemoryFile{section: section, addr: addr, data: data, isCreator: isCreator}, nil
}

func (m *windowsMemoryFile) bytes() []byte { return m.data }
func (m *windowsMemoryFile) created() bool { return m.isCreator }

func (m *windowsMemoryFile) Close() error {
	err := windows.UnmapViewOfFile(m.addr)
	if closeErr := windows.CloseHandle(m.section); closeErr != nil {
		logger().WithError(closeErr).Warn("closing section handle failed")
	}
	if err != nil {
		return fmt.Errorf("interprocess: UnmapViewOfFile: %w", err)
	}
	return nil
}
