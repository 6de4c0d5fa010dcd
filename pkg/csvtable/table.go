package csvtable

import (
	"encoding/binary"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/shapestone/shape-csvtable/internal/fastparser"
)

// Table is an immutable column-oriented view of parsed CSV data.
//
// All field strings share one arena owned by the Table; they stay valid for
// as long as the caller holds them. A Table is safe for concurrent reads.
type Table struct {
	frame  *fastparser.Frame
	header bool
	names  []string
}

func newTable(frame *fastparser.Frame, header bool) *Table {
	t := &Table{frame: frame, header: header}
	if header {
		t.names = make([]string, frame.Columns)
		for c := range t.names {
			t.names[c], _ = t.raw(0, c)
		}
	}
	return t
}

// raw looks up a field by physical row, header included.
func (t *Table) raw(row, col int) (string, bool) {
	b, ok := t.frame.Field(row, col)
	if !ok {
		return "", false
	}
	return unsafeString(b), true
}

// unsafeString converts a byte slice to a string without copying.
// Only used on arena bytes, which are never written after Build returns.
func unsafeString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// Columns returns the number of columns, fixed by the first record.
func (t *Table) Columns() int {
	return t.frame.Columns
}

// Rows returns the number of data rows. The header row is not counted.
func (t *Table) Rows() int {
	if t.header {
		return t.frame.Rows - 1
	}
	return t.frame.Rows
}

// HasHeader reports whether the first record was taken as column names.
func (t *Table) HasHeader() bool {
	return t.header
}

// Field returns the field at (col, row). ok is false when the position is
// out of range or the record supplied fewer fields than Columns. Absent
// fields are distinct from empty ones.
func (t *Table) Field(col, row int) (field string, ok bool) {
	if row < 0 || row >= t.Rows() {
		return "", false
	}
	if t.header {
		row++
	}
	return t.raw(row, col)
}

// Name returns the header name of col. ok is false without a header or
// when col is out of range.
func (t *Table) Name(col int) (string, bool) {
	if col < 0 || col >= len(t.names) {
		return "", false
	}
	return t.names[col], true
}

// Names returns a copy of the header names, or nil without a header.
func (t *Table) Names() []string {
	if !t.header {
		return nil
	}
	return append([]string(nil), t.names...)
}

// Index returns the column whose header name is name, or -1.
func (t *Table) Index(name string) int {
	for c, n := range t.names {
		if n == name {
			return c
		}
	}
	return -1
}

// Record returns the fields of a data row. Fields the record did not supply
// are trimmed from the end, so len(Record(row)) <= Columns. Returns nil for
// an out-of-range row.
func (t *Table) Record(row int) []string {
	if row < 0 || row >= t.Rows() {
		return nil
	}
	record := make([]string, 0, t.Columns())
	for c := 0; c < t.Columns(); c++ {
		field, ok := t.Field(c, row)
		if !ok {
			break
		}
		record = append(record, field)
	}
	return record
}

// Records returns every data row as produced by Record.
func (t *Table) Records() [][]string {
	records := make([][]string, t.Rows())
	for r := range records {
		records[r] = t.Record(r)
	}
	return records
}

// Column returns every data-row value of col along with a presence mask.
// Returns nil slices for an out-of-range column.
func (t *Table) Column(col int) (values []string, present []bool) {
	if col < 0 || col >= t.Columns() {
		return nil, nil
	}
	values = make([]string, t.Rows())
	present = make([]bool, t.Rows())
	for r := range values {
		values[r], present[r] = t.Field(col, r)
	}
	return values, present
}

// Fingerprint hashes the table shape, the header flag and every field with
// its presence. Two tables with equal fingerprints hold the same content
// with overwhelming probability, regardless of how they were parsed.
func (t *Table) Fingerprint() uint64 {
	h := xxhash.New()
	var word [8]byte

	writeInt := func(v int) {
		binary.LittleEndian.PutUint64(word[:], uint64(v))
		_, _ = h.Write(word[:])
	}

	writeInt(t.frame.Rows)
	writeInt(t.frame.Columns)
	if t.header {
		writeInt(1)
	} else {
		writeInt(0)
	}
	for r := 0; r < t.frame.Rows; r++ {
		for c := 0; c < t.frame.Columns; c++ {
			field, ok := t.frame.Field(r, c)
			if !ok {
				writeInt(-1)
				continue
			}
			writeInt(len(field))
			_, _ = h.Write(field)
		}
	}
	return h.Sum64()
}
