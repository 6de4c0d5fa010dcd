//go:build !unix

package fastparser

import (
	"fmt"
	"io"
	"os"
)

// MmapFile reads a file into memory on platforms without mmap support.
// The cleanup function is a no-op kept for parity with the unix build.
//
// Example usage:
//
//	data, cleanup, err := MmapFile("large.csv")
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
func MmapFile(filename string) ([]byte, func(), error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, func() {}, nil
}

// MapHandle reads an open file from its start into memory. f stays open.
func MapHandle(f *os.File) ([]byte, func(), error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("failed to seek file: %w", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, func() {}, nil
}
