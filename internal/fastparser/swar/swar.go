// Package swar classifies CSV bytes eight at a time using SIMD Within A
// Register techniques.
//
// A Scanner answers one question per 64-bit word: does the word contain a
// delimiter, a quote, a carriage return or a line feed? Words that answer
// no are the common case and can be skipped or copied whole; only words
// that answer yes need per-byte inspection.
package swar

import "encoding/binary"

const (
	loMask = 0x0101010101010101
	hiMask = 0x8080808080808080

	// WordSize is the number of bytes classified by a single Any call.
	WordSize = 8

	// MaxMaskBytes is the widest slice Positions can describe.
	MaxMaskBytes = 64
)

// Scanner holds the broadcast masks for the four significant byte classes.
// The zero value is not usable; build one with New.
type Scanner struct {
	Delim byte
	Quote byte

	delimMask uint64
	quoteMask uint64
	crMask    uint64
	lfMask    uint64
}

// New returns a Scanner for the given delimiter and quote bytes.
func New(delim, quote byte) Scanner {
	return Scanner{
		Delim:     delim,
		Quote:     quote,
		delimMask: broadcast(delim),
		quoteMask: broadcast(quote),
		crMask:    broadcast('\r'),
		lfMask:    broadcast('\n'),
	}
}

func broadcast(b byte) uint64 {
	return uint64(b) * loMask
}

// zeroBytes has the high bit set in every byte position where x is zero.
// The expression can also flag a 0x01 byte sitting above a real zero byte,
// which never matters here because callers only test for "any".
func zeroBytes(x uint64) uint64 {
	return (x - loMask) & ^x & hiMask
}

// Any reports whether word holds at least one delimiter, quote, CR or LF.
func (s Scanner) Any(word uint64) bool {
	return zeroBytes(word^s.delimMask)|
		zeroBytes(word^s.quoteMask)|
		zeroBytes(word^s.crMask)|
		zeroBytes(word^s.lfMask) != 0
}

// Load reads eight bytes starting at b[0] as a little-endian word.
// b must hold at least WordSize bytes.
func Load(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// Bitmasks records the structural byte positions of a slice of at most
// MaxMaskBytes bytes. Bit i corresponds to byte i.
type Bitmasks struct {
	Delimiters uint64
	Quotes     uint64
	Returns    uint64
	Newlines   uint64
}

// Positions classifies every byte of chunk individually. Bytes past
// MaxMaskBytes are ignored.
func (s Scanner) Positions(chunk []byte) Bitmasks {
	var m Bitmasks
	for i := 0; i < len(chunk) && i < MaxMaskBytes; i++ {
		bit := uint64(1) << uint(i)
		switch c := chunk[i]; {
		case c == s.Quote:
			m.Quotes |= bit
		case c == s.Delim:
			m.Delimiters |= bit
		case c == '\r':
			m.Returns |= bit
		case c == '\n':
			m.Newlines |= bit
		}
	}
	return m
}

// Any reports whether any structural byte was recorded.
func (m Bitmasks) Any() bool {
	return m.Delimiters|m.Quotes|m.Returns|m.Newlines != 0
}
