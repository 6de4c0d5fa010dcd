package fastparser

import "fmt"

// Window is a byte range of the input that one rewrite worker owns.
// Rows beginning inside the window are numbered from Row upward.
type Window struct {
	Start int
	End   int
	Row   int
}

// Layout is the reconciled view of the chunk metadata.
type Layout struct {
	// Rows is the number of records in the input, counting a final record
	// that has no terminator.
	Rows int
	// FirstLineEnd is the offset of the first row terminator outside
	// quotes, or the input length when there is none.
	FirstLineEnd int
	// Windows partitions [0, n) in order. Every window but the first starts
	// right after a terminator outside quotes.
	Windows []Window
}

// Resolve walks the chunk metadata left to right and picks, for each chunk,
// the hypothesis matching the quote parity accumulated by all earlier
// chunks. data is only consulted for its final bytes.
//
// The running quote total's parity at a chunk boundary is the real
// inside/outside-quotes state entering that chunk; everything else here is
// bookkeeping around that fact.
func Resolve(meta []ChunkMeta, chunkSize int, data []byte) Layout {
	n := len(data)
	layout := Layout{
		FirstLineEnd: n,
		Windows:      make([]Window, 0, len(meta)),
	}

	rows := 0
	quotes := 0
	open := Window{Start: 0, Row: 0}

	for i, m := range meta {
		count, first := m.Select(quotes & 1)
		if first >= 0 {
			end := i*chunkSize + first + 1
			if layout.FirstLineEnd == n {
				layout.FirstLineEnd = end - 1
			}
			if i > 0 {
				open.End = end
				layout.Windows = append(layout.Windows, open)
				// The chunk's first terminator closes a row begun earlier.
				open = Window{Start: end, Row: rows + 1}
			}
		}
		rows += count
		quotes += m.Quotes
	}

	open.End = n
	layout.Windows = append(layout.Windows, open)

	if !endsWithTerminator(data, quotes) {
		rows++
	}
	layout.Rows = rows

	return layout
}

// endsWithTerminator reports whether the input needs no extra row for a
// final unterminated record. A trailing LF CR pair counts as a terminator
// when the LF lies outside quotes; quotes is the input's total quote count.
func endsWithTerminator(data []byte, quotes int) bool {
	n := len(data)
	switch {
	case n == 0:
		return true
	case data[n-1] == '\n':
		return true
	case n >= 2 && data[n-2] == '\n' && data[n-1] == '\r':
		return quotes&1 == 0
	}
	return false
}

// Validate checks that the windows partition [0, n) in order and that row
// numbering never decreases. The rewrite pass relies on both to write the
// arena and span table without locks.
func (l Layout) Validate(n int) error {
	if len(l.Windows) == 0 {
		return fmt.Errorf("layout has no windows")
	}
	if l.Windows[0].Start != 0 || l.Windows[0].Row != 0 {
		return fmt.Errorf("first window %+v does not start at offset 0, row 0", l.Windows[0])
	}
	for i, w := range l.Windows {
		if w.End < w.Start {
			return fmt.Errorf("window %d is inverted: %+v", i, w)
		}
		if i == 0 {
			continue
		}
		prev := l.Windows[i-1]
		if w.Start != prev.End {
			return fmt.Errorf("window %d starts at %d, previous ends at %d", i, w.Start, prev.End)
		}
		if w.Row <= prev.Row {
			return fmt.Errorf("window %d starts at row %d, previous at row %d", i, w.Row, prev.Row)
		}
	}
	if last := l.Windows[len(l.Windows)-1]; last.End != n {
		return fmt.Errorf("last window ends at %d, input length is %d", last.End, n)
	}
	return nil
}
