package fastparser

import (
	"math/bits"

	"github.com/shapestone/shape-csvtable/internal/fastparser/swar"
)

// countColumns counts the fields of the first record. line must span the
// first record only, without its terminator. Delimiters inside quotes do
// not count. The result is at least 1.
//
// The line is classified one 64-byte block at a time. A prefix XOR of the
// quote bits marks the bytes inside quotes; carry extends an open quote
// into the next block.
func countColumns(line []byte, sc swar.Scanner) int {
	columns := 1
	var carry uint64

	for i := 0; i < len(line); i += swar.MaxMaskBytes {
		m := sc.Positions(line[i:min(i+swar.MaxMaskBytes, len(line))])
		if !m.Any() {
			continue
		}
		inside := prefixXor(m.Quotes) ^ carry
		columns += bits.OnesCount64(m.Delimiters &^ inside)
		if bits.OnesCount64(m.Quotes)&1 == 1 {
			carry = ^carry
		}
	}

	return columns
}

// prefixXor sets bit i to the XOR of bits 0..i of x.
func prefixXor(x uint64) uint64 {
	x ^= x << 1
	x ^= x << 2
	x ^= x << 4
	x ^= x << 8
	x ^= x << 16
	x ^= x << 32
	return x
}
