//go:build !windows

package interprocess

import (
	"os"
	"testing"
)

func TestOpenMemoryFileCreatesAndZeroFills(t *testing.T) {
	dir := t.TempDir()
	opts := Options{QueueName: "mmf-create", Path: dir, Capacity: 64}

	mf, err := openMemoryFile(opts)
	if err != nil {
		t.Fatalf("openMemoryFile: %v", err)
	}
	defer mf.Close()

	if !mf.created() {
		t.Fatal("first opener should be the creator")
	}
	data := mf.bytes()
	if int64(len(data)) != opts.BytesCapacity() {
		t.Fatalf("mapped region is %d bytes, want %d", len(data), opts.BytesCapacity())
	}
	for i, b := range data {
		if b != 0 {
			t.Fatalf("byte %d of a freshly created region is %#x, want 0", i, b)
		}
	}
}

func TestOpenMemoryFileSecondOpenerAttachesNonDestructively(t *testing.T) {
	dir := t.TempDir()
	opts := Options{QueueName: "mmf-attach", Path: dir, Capacity: 64}

	first, err := openMemoryFile(opts)
	if err != nil {
		t.Fatalf("first openMemoryFile: %v", err)
	}
	defer first.Close()
	first.bytes()[0] = 0xAB

	second, err := openMemoryFile(opts)
	if err != nil {
		t.Fatalf("second openMemoryFile: %v", err)
	}
	defer second.Close()

	if second.created() {
		t.Fatal("second opener should not claim creator status")
	}
	if second.bytes()[0] != 0xAB {
		t.Fatal("second opener did not see the first opener's write")
	}
}

func TestOpenMemoryFileCloseDeletesFileWhenCreator(t *testing.T) {
	dir := t.TempDir()
	opts := Options{QueueName: "mmf-cleanup", Path: dir, Capacity: 64}

	mf, err := openMemoryFile(opts)
	if err != nil {
		t.Fatalf("openMemoryFile: %v", err)
	}
	path := backingFilePath(opts)
	if err := mf.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("backing file still exists after creator closed: %v", err)
	}
}

func TestOpenMemoryFileCreateOrOverrideTruncates(t *testing.T) {
	dir := t.TempDir()
	opts := Options{QueueName: "mmf-override", Path: dir, Capacity: 64}

	first, err := openMemoryFile(opts)
	if err != nil {
		t.Fatalf("first openMemoryFile: %v", err)
	}
	first.bytes()[0] = 0xCD
	defer first.Close()

	opts.CreateOrOverride = true
	second, err := openMemoryFile(opts)
	if err != nil {
		t.Fatalf("second openMemoryFile: %v", err)
	}
	defer second.Close()

	if !second.created() {
		t.Fatal("CreateOrOverride opener should take over creator status")
	}
	if second.bytes()[0] != 0 {
		t.Fatal("CreateOrOverride should truncate the existing file")
	}
}
