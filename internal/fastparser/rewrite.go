package fastparser

import "github.com/shapestone/shape-csvtable/internal/fastparser/swar"

// rewriteWindow copies the fields of one window into the arena and records
// their spans. Arena offsets never run ahead of input offsets, so every
// write lands inside [w.Start, w.End) and windows can be rewritten
// concurrently.
//
// Quotes are stripped as they are met. Inside a quoted field a doubled
// quote collapses to one literal quote byte on the spot. Outside quotes a
// delimiter or line feed ends the field and is replaced with a 0 byte in
// the arena; a carriage return directly before a line feed is dropped, as
// is one directly after it, so LF CR line endings read like CRLF.
func rewriteWindow(f *Frame, data []byte, w Window, sc swar.Scanner) {
	row := w.Row
	if row >= f.Rows || w.Start >= w.End {
		return
	}

	var (
		arena   = f.Arena
		spans   = f.Spans
		columns = f.Columns
		delim   = sc.Delim
		quote   = sc.Quote
		end     = w.End

		col        = 0
		in         = w.Start
		out        = w.Start
		fieldStart = w.Start
		quoted     = false
		pending    = false
		// Every window but the first begins right after a row terminator.
		afterLF = w.Start > 0
	)

	closeField := func() {
		if col < columns {
			spans[row*columns+col] = Span{
				Off: uint32(fieldStart),
				Len: uint32(out - fieldStart),
				Set: true,
			}
		}
		col++
	}

	for in < end {
		if in+swar.WordSize <= end && !sc.Any(swar.Load(data[in:])) {
			copy(arena[out:out+swar.WordSize], data[in:in+swar.WordSize])
			in += swar.WordSize
			out += swar.WordSize
			pending = true
			afterLF = false
			continue
		}

		c := data[in]
		in++
		if afterLF {
			afterLF = false
			if c == '\r' {
				continue
			}
		}
		pending = true

		switch {
		case c == quote:
			if quoted && in < end && data[in] == quote {
				arena[out] = quote
				out++
				in++
				continue
			}
			quoted = !quoted
		case quoted:
			arena[out] = c
			out++
		case c == delim:
			closeField()
			arena[out] = 0
			out++
			fieldStart = out
		case c == '\n':
			closeField()
			arena[out] = 0
			out++
			fieldStart = out
			row++
			col = 0
			pending = false
			afterLF = true
			if row >= f.Rows {
				return
			}
		case c == '\r' && in < end && data[in] == '\n':
			// Part of a CRLF terminator.
		default:
			arena[out] = c
			out++
		}
	}

	// Only the last window can end inside a record.
	if pending {
		closeField()
		if out < end {
			arena[out] = 0
		}
	}
}
