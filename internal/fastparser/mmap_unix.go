//go:build unix

package fastparser

import (
	"fmt"
	"os"
	"syscall"
)

// MmapFile opens filename and memory-maps it read-only.
// Returns the mapped bytes and a cleanup function that unmaps the region
// and closes the file.
//
// Mapping lets both parsing passes read the file straight from the page
// cache:
//   - The file is never copied into the Go heap
//   - Workers scanning different chunks share the same pages
//   - Only the arena of the resulting Frame is allocated
//
// Example usage:
//
//	data, cleanup, err := MmapFile("large.csv")
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
//	frame, err := Build(data, Config{})
//	// Use frame...
//
// IMPORTANT: Do not use the data slice after calling cleanup().
func MmapFile(filename string) ([]byte, func(), error) {
	// Open the file
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	data, unmap, err := MapHandle(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	cleanup := func() {
		unmap()
		f.Close()
	}
	return data, cleanup, nil
}

// MapHandle memory-maps an open file read-only for its full size. The
// returned cleanup unmaps the region but leaves f open; the caller keeps
// ownership of the handle.
//
// Example usage:
//
//	f, _ := os.Open("large.csv")
//	defer f.Close()
//
//	data, unmap, err := MapHandle(f)
//	if err != nil {
//	    return err
//	}
//	defer unmap()
//
// An empty file yields an empty slice and a no-op cleanup; mmap rejects
// zero lengths.
func MapHandle(f *os.File) ([]byte, func(), error) {
	// Get file size
	stat, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("cannot map directory %s", f.Name())
	}

	size := stat.Size()
	if size == 0 {
		return []byte{}, func() {}, nil
	}
	if int64(int(size)) != size {
		return nil, nil, fmt.Errorf("file of %d bytes cannot be mapped", size)
	}

	// Map the whole file read-only
	data, err := syscall.Mmap(
		int(f.Fd()),
		0,
		int(size),
		syscall.PROT_READ,
		syscall.MAP_SHARED,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to mmap file: %w", err)
	}

	return data, func() { _ = syscall.Munmap(data) }, nil
}
