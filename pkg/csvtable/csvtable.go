// Package csvtable parses CSV data into an immutable column-oriented table.
//
// The whole input is processed in one call. It is split into fixed-size
// chunks that are scanned in parallel; a short serial step then works out
// where records really begin, since a quoted field may hold delimiters and
// line breaks; finally every chunk's fields are copied into a single arena
// in parallel.
//
// # Parsing APIs
//
//   - Parse([]byte, Options) - parses a buffer already in memory
//   - ParseFile(string, Options) - memory-maps a file, or decompresses a .zst file
//   - ParseHandle(*os.File, Options) - memory-maps an already open file
//
// Tables export to Shape's AST with Table.ToAST, and Render writes such an
// AST back to CSV text.
//
// # Example usage:
//
//	table, err := csvtable.Parse([]byte("name,age\nAlice,30\nBob,25\n"),
//	    csvtable.Options{Header: true})
//	if err != nil {
//	    // handle error
//	}
//	name, _ := table.Field(table.Index("name"), 1) // "Bob"
//
// # Format
//
//   - Records end with LF, CRLF or LF CR; a final record without a
//     terminator still counts.
//   - The first record fixes the column count. Shorter records leave the
//     remaining fields absent; longer records are truncated.
//   - Quote bytes are stripped. Inside a quoted field a doubled quote
//     stands for one literal quote.
//   - Every field is returned as text; no type inference is done.
//
// # Thread Safety
//
// Parse functions may be called concurrently. A Table is read-only and
// safe for concurrent use.
package csvtable

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spkg/bom"

	"github.com/shapestone/shape-csvtable/internal/fastparser"
)

// Parse builds a Table from data. data is never modified and may be
// released or reused once Parse returns.
func Parse(data []byte, opts Options) (*Table, error) {
	return parse(data, "", opts)
}

func parse(data []byte, path string, opts Options) (*Table, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.TrimBOM {
		data = bom.Clean(data)
	}

	frame, err := fastparser.Build(data, opts.config())
	if err != nil {
		return nil, &BuildError{Op: "parse", Path: path, Size: len(data), Err: classify(err), cause: err}
	}

	t := newTable(frame, opts.Header)
	if opts.Logger != nil {
		opts.Logger.Debug("table parsed",
			"path", path,
			"bytes", len(data),
			"rows", t.Rows(),
			"columns", t.Columns(),
			"header", t.HasHeader())
	}
	return t, nil
}

// ParseFile builds a Table from the file at path. Files ending in .zst are
// decoded into memory first; every other file is memory-mapped read-only
// and unmapped before ParseFile returns, whatever the outcome.
func ParseFile(path string, opts Options) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		return parseCompressed(path, opts)
	}

	data, cleanup, err := fastparser.MmapFile(path)
	if err != nil {
		return nil, &BuildError{Op: "map", Path: path, Err: ErrIO, cause: err}
	}
	defer cleanup()

	return parse(data, path, opts)
}

// ParseHandle builds a Table from an open file, mapping it read-only for
// its full size. The caller keeps ownership of f; the mapping is released
// before ParseHandle returns.
func ParseHandle(f *os.File, opts Options) (*Table, error) {
	if f == nil {
		return nil, &BuildError{Op: "map", Err: ErrIO, cause: errors.New("nil file handle")}
	}

	data, cleanup, err := fastparser.MapHandle(f)
	if err != nil {
		return nil, &BuildError{Op: "map", Path: f.Name(), Err: ErrIO, cause: err}
	}
	defer cleanup()

	return parse(data, f.Name(), opts)
}

func parseCompressed(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &BuildError{Op: "open", Path: path, Err: ErrIO, cause: err}
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, &BuildError{Op: "decompress", Path: path, Err: ErrIO, cause: err}
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, &BuildError{
			Op:    "decompress",
			Path:  path,
			Size:  len(data),
			Err:   ErrIO,
			cause: fmt.Errorf("zstd: %w", err),
		}
	}

	return parse(data, path, opts)
}
