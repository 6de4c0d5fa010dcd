package fastparser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shapestone/shape-csvtable/internal/fastparser/swar"
)

const (
	// DefaultChunkSize is the number of input bytes each worker scans per
	// chunk. It only affects speed, never the parsed table.
	DefaultChunkSize = 1 << 20

	// MinInputSize is the shortest input Build accepts.
	MinInputSize = 2
)

var (
	// ErrInputTooShort is returned for inputs shorter than MinInputSize.
	ErrInputTooShort = errors.New("fastparser: input too short")
	// ErrNoRows is returned when no row boundary survives quote parity,
	// typically because an unterminated quote swallowed every line feed.
	ErrNoRows = errors.New("fastparser: no rows resolved")
	// ErrTooLarge is returned when the span table or arena cannot be sized.
	ErrTooLarge = errors.New("fastparser: table too large")
)

// Pass names reported to an Observer.
const (
	PassScan    = "scan"
	PassResolve = "resolve"
	PassRewrite = "rewrite"
)

// Observer receives timing and size information from Build. Implementations
// must be safe for concurrent use when shared between builds.
type Observer interface {
	ObservePass(name string, d time.Duration)
	ObserveTable(bytes, chunks, rows, columns int)
	ObserveFailure(reason string)
}

// Config controls a Build call.
type Config struct {
	Delim     byte
	Quote     byte
	ChunkSize int
	Workers   int
	Observer  Observer
	Logger    *slog.Logger
}

// normalized fills defaults and rounds the chunk size up to a whole number
// of words.
func (c Config) normalized() Config {
	if c.Delim == 0 {
		c.Delim = ','
	}
	if c.Quote == 0 {
		c.Quote = '"'
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if rem := c.ChunkSize % swar.WordSize; rem != 0 {
		c.ChunkSize += swar.WordSize - rem
	}
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

// Build parses data into a Frame.
//
// The chunk metadata pass and the rewrite pass run on cfg.Workers
// goroutines; reconciliation, column counting and allocation run on the
// calling goroutine between them. Build either returns a complete Frame or
// an error and no Frame. data is never modified.
//
// Example usage:
//
//	data, cleanup, err := MmapFile("large.csv")
//	if err != nil {
//	    return err
//	}
//	defer cleanup()
//
//	frame, err := Build(data, Config{Workers: 8})
//	if err != nil {
//	    return err
//	}
//	field, ok := frame.Field(1, 0) // row 1, column 0
//
// The Frame does not reference data, so cleanup may run as soon as Build
// returns.
func Build(data []byte, cfg Config) (*Frame, error) {
	cfg = cfg.normalized()
	log := cfg.Logger

	if len(data) < MinInputSize {
		return nil, fail(cfg, "short_input", fmt.Errorf("%w: %d bytes", ErrInputTooShort, len(data)))
	}

	sc := swar.New(cfg.Delim, cfg.Quote)
	n := len(data)

	// Pass 1: per-chunk terminator counts under both quote parities
	start := time.Now()
	meta := scanChunks(data, cfg.ChunkSize, sc, cfg.Workers)
	observePass(cfg, PassScan, start)

	// Pick each chunk's parity and cut the input into row-aligned windows
	start = time.Now()
	layout := Resolve(meta, cfg.ChunkSize, data)
	chunks := len(meta)
	meta = nil
	if err := layout.Validate(n); err != nil {
		return nil, fail(cfg, "layout", fmt.Errorf("fastparser: inconsistent layout: %w", err))
	}
	columns := countColumns(data[:layout.FirstLineEnd], sc)
	frame, err := allocate(layout.Rows, columns, n)
	observePass(cfg, PassResolve, start)
	if err != nil {
		reason := "allocation"
		if errors.Is(err, ErrNoRows) {
			reason = "no_rows"
		}
		return nil, fail(cfg, reason, err)
	}

	log.Debug("layout resolved",
		"bytes", n,
		"chunks", chunks,
		"windows", len(layout.Windows),
		"rows", layout.Rows,
		"columns", columns)

	// Pass 2: copy fields into the arena, one window per task
	start = time.Now()
	parallelFor(len(layout.Windows), cfg.Workers, func(i int) {
		rewriteWindow(frame, data, layout.Windows[i], sc)
	})
	observePass(cfg, PassRewrite, start)

	if cfg.Observer != nil {
		cfg.Observer.ObserveTable(n, chunks, frame.Rows, frame.Columns)
	}
	return frame, nil
}

func observePass(cfg Config, name string, start time.Time) {
	d := time.Since(start)
	cfg.Logger.Debug("pass finished", "pass", name, "duration", d)
	if cfg.Observer != nil {
		cfg.Observer.ObservePass(name, d)
	}
}

func fail(cfg Config, reason string, err error) error {
	cfg.Logger.Warn("build failed", "reason", reason, "error", err)
	if cfg.Observer != nil {
		cfg.Observer.ObserveFailure(reason)
	}
	return err
}

// parallelFor calls fn(i) for every i in [0, n) on at most workers
// goroutines and returns once all calls have finished.
func parallelFor(n, workers int, fn func(i int)) {
	if n <= 0 {
		return
	}
	workers = max(1, min(workers, n))
	if workers == 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(next.Add(1) - 1)
				if i >= n {
					return
				}
				fn(i)
			}
		}()
	}
	wg.Wait()
}
