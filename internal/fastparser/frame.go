package fastparser

import "math"

// Span locates one field inside the arena. The zero Span marks a field the
// record did not supply.
type Span struct {
	Off uint32
	Len uint32
	Set bool
}

// maxArena bounds the arena so that every Span offset fits in 32 bits.
const maxArena = math.MaxUint32

// Frame is a fully parsed table: a byte arena plus a row-major span table.
// It is immutable once Build returns.
type Frame struct {
	Rows    int
	Columns int
	Arena   []byte
	Spans   []Span
}

// allocate sizes the span table and the arena. Quote stripping only ever
// shrinks a field, so an arena as long as the input always suffices.
func allocate(rows, columns, n int) (*Frame, error) {
	if rows <= 0 {
		return nil, ErrNoRows
	}
	if columns <= 0 || uint64(n) > maxArena || rows > math.MaxInt/columns {
		return nil, ErrTooLarge
	}
	return &Frame{
		Rows:    rows,
		Columns: columns,
		Arena:   make([]byte, n),
		Spans:   make([]Span, rows*columns),
	}, nil
}

// Field returns the bytes of field (row, col) and whether the record
// supplied it. The returned slice aliases the arena.
func (f *Frame) Field(row, col int) ([]byte, bool) {
	if row < 0 || row >= f.Rows || col < 0 || col >= f.Columns {
		return nil, false
	}
	sp := f.Spans[row*f.Columns+col]
	if !sp.Set {
		return nil, false
	}
	return f.Arena[sp.Off : sp.Off+sp.Len : sp.Off+sp.Len], true
}
