// Package csvtable provides error types for table parsing.
package csvtable

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-csvtable/internal/fastparser"
)

var (
	// ErrMalformedInput is the parent of every error caused by the input
	// bytes themselves.
	ErrMalformedInput = errors.New("csvtable: malformed input")

	// ErrInputTooShort indicates an input of fewer than two bytes.
	ErrInputTooShort = fmt.Errorf("%w: input too short", ErrMalformedInput)

	// ErrNoRows indicates that no record boundary survived quote parity,
	// usually because an unterminated quote swallowed every line break.
	ErrNoRows = fmt.Errorf("%w: no rows", ErrMalformedInput)

	// ErrIO indicates the input file could not be opened, mapped or read.
	ErrIO = errors.New("csvtable: i/o error")

	// ErrTooLarge indicates the table cannot be sized.
	ErrTooLarge = errors.New("csvtable: table too large")

	// ErrInvalidOptions indicates an unusable Options value.
	ErrInvalidOptions = errors.New("csvtable: invalid options")
)

// BuildError describes a failed table construction.
type BuildError struct {
	// Op is the failing step: "open", "map", "decompress", "sniff" or "parse".
	Op string
	// Path is the input file, empty for in-memory input.
	Path string
	// Size is the input length in bytes, when known.
	Size int
	// Err is one of the package sentinels.
	Err error

	cause error
}

// Error returns a formatted error message with the failing step and input.
func (e *BuildError) Error() string {
	where := "input"
	if e.Path != "" {
		where = e.Path
	}
	msg := fmt.Sprintf("csvtable: %s %s (%d bytes): %v", e.Op, where, e.Size, e.Err)
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap returns the package sentinel.
func (e *BuildError) Unwrap() error {
	return e.Err
}

// classify maps parser errors to package sentinels.
func classify(err error) error {
	switch {
	case errors.Is(err, fastparser.ErrInputTooShort):
		return ErrInputTooShort
	case errors.Is(err, fastparser.ErrNoRows):
		return ErrNoRows
	case errors.Is(err, fastparser.ErrTooLarge):
		return ErrTooLarge
	default:
		return ErrMalformedInput
	}
}
