// Package csvtable provides configurable options for table parsing.
package csvtable

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/shapestone/shape-csvtable/internal/fastparser"
)

// Observer receives pass timings and table sizes while a table is built.
// internal/metrics provides a prometheus-backed implementation.
type Observer interface {
	ObservePass(name string, d time.Duration)
	ObserveTable(bytes, chunks, rows, columns int)
	ObserveFailure(reason string)
}

// Options configures table parsing.
type Options struct {
	// Delimiter separates fields. It must not be \r, \n or the quote byte.
	// Default: ','
	Delimiter byte

	// Quote encloses fields that contain delimiters, quotes or line breaks.
	// A doubled quote inside a quoted field stands for one literal quote.
	// Default: '"'
	Quote byte

	// Header treats the first record as column names. Names are exposed
	// through Table.Name and the record is excluded from Table.Rows.
	// Default: false
	Header bool

	// ChunkSize is the number of input bytes each worker scans at a time.
	// It is rounded up to a multiple of 8. Tuning it never changes the
	// resulting table.
	// Default: 1 MiB
	ChunkSize int

	// Workers bounds the number of goroutines used by the parallel passes.
	// Default: runtime.GOMAXPROCS(0)
	Workers int

	// TrimBOM drops a leading UTF-8 byte order mark before parsing.
	// Default: false
	TrimBOM bool

	// Logger receives debug output for each pass. Nil discards it.
	Logger *slog.Logger

	// Observer, if set, receives timings and sizes.
	Observer Observer
}

// DefaultOptions returns the default parsing configuration.
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
		Quote:     '"',
		ChunkSize: fastparser.DefaultChunkSize,
	}
}

// withDefaults fills zero delimiter and quote bytes.
func (o Options) withDefaults() Options {
	if o.Delimiter == 0 {
		o.Delimiter = ','
	}
	if o.Quote == 0 {
		o.Quote = '"'
	}
	return o
}

// validate rejects byte choices that would make the format ambiguous.
func (o Options) validate() error {
	switch {
	case o.Delimiter == '\r' || o.Delimiter == '\n':
		return fmt.Errorf("%w: delimiter %q is a line break", ErrInvalidOptions, o.Delimiter)
	case o.Quote == '\r' || o.Quote == '\n':
		return fmt.Errorf("%w: quote %q is a line break", ErrInvalidOptions, o.Quote)
	case o.Delimiter == o.Quote:
		return fmt.Errorf("%w: delimiter and quote are both %q", ErrInvalidOptions, o.Delimiter)
	case o.ChunkSize < 0:
		return fmt.Errorf("%w: negative chunk size %d", ErrInvalidOptions, o.ChunkSize)
	case o.Workers < 0:
		return fmt.Errorf("%w: negative worker count %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

func (o Options) config() fastparser.Config {
	return fastparser.Config{
		Delim:     o.Delimiter,
		Quote:     o.Quote,
		ChunkSize: o.ChunkSize,
		Workers:   o.Workers,
		Observer:  o.Observer,
		Logger:    o.Logger,
	}
}
