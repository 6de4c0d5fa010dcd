package csvtable

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spkg/bom"
)

// SniffSampleSize is the number of leading bytes SniffFile reads.
const SniffSampleSize = 64 << 10

// maxSniffRecords bounds how many records of a sample are scored.
const maxSniffRecords = 32

// sniffDelimiters are the candidates Sniff chooses from, in tie-break order.
var sniffDelimiters = []byte{',', '\t', ';', '|'}

var (
	headerPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`),      // snake_case or identifier
		regexp.MustCompile(`^[a-zA-Z]+[A-Z][a-zA-Z]*$`),     // camelCase
		regexp.MustCompile(`^[A-Z][a-z]+([ ][A-Z][a-z]+)*$`), // Title Case
	}
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),
	}
)

// Dialect is the delimiter and header guess produced by Sniff.
type Dialect struct {
	Delimiter byte
	Header    bool
}

// Sniff guesses the delimiter and whether the first record is a header from
// a leading sample of CSV data. quote is the quote byte, zero meaning '"'.
//
// The delimiter whose per-record count outside quotes is highest wins, with
// a strong bonus when every record agrees. A record cut off by the end of
// the sample is ignored. Without any candidate delimiter Sniff returns ','.
func Sniff(sample []byte, quote byte) Dialect {
	if quote == 0 {
		quote = '"'
	}
	sample = bom.Clean(sample)

	d := Dialect{Delimiter: ','}
	bestScore := 0
	for _, delim := range sniffDelimiters {
		if score := delimiterScore(sample, delim, quote); score > bestScore {
			d.Delimiter = delim
			bestScore = score
		}
	}
	d.Header = detectHeader(sample, d.Delimiter, quote)
	return d
}

// SniffFile runs Sniff on the first SniffSampleSize bytes of path. Files
// ending in .zst are sampled after decompression.
func SniffFile(path string, quote byte) (Dialect, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dialect{}, &BuildError{Op: "open", Path: path, Err: ErrIO, cause: err}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.EqualFold(filepath.Ext(path), ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			return Dialect{}, &BuildError{Op: "decompress", Path: path, Err: ErrIO, cause: err}
		}
		defer dec.Close()
		r = dec
	}

	sample, err := io.ReadAll(io.LimitReader(r, SniffSampleSize))
	if err != nil {
		return Dialect{}, &BuildError{Op: "sniff", Path: path, Err: ErrIO, cause: fmt.Errorf("read sample: %w", err)}
	}
	return Sniff(sample, quote), nil
}

func delimiterScore(sample []byte, delim, quote byte) int {
	counts := recordDelimiterCounts(sample, delim, quote)
	if len(counts) == 0 || counts[0] == 0 {
		return 0
	}
	for _, c := range counts[1:] {
		if c != counts[0] {
			return counts[0]
		}
	}
	return counts[0] * 10
}

// recordDelimiterCounts counts delim outside quotes for each complete,
// non-empty record of sample. A trailing record without LF only counts when
// it is the only one.
func recordDelimiterCounts(sample []byte, delim, quote byte) []int {
	var counts []int
	inQuotes := false
	count, length := 0, 0

	for _, b := range sample {
		switch {
		case b == quote:
			inQuotes = !inQuotes
		case inQuotes:
		case b == delim:
			count++
		case b == '\n':
			if length > 0 {
				counts = append(counts, count)
				if len(counts) == maxSniffRecords {
					return counts
				}
			}
			count, length = 0, 0
			continue
		}
		length++
	}
	if length > 0 && len(counts) == 0 {
		counts = append(counts, count)
	}
	return counts
}

// splitRecord returns the fields of the first record in data, with quotes
// stripped and a trailing CR dropped, plus the rest of data.
func splitRecord(data []byte, delim, quote byte) (fields []string, rest []byte) {
	var field []byte
	inQuotes := false
	i := 0
	for ; i < len(data); i++ {
		b := data[i]
		switch {
		case b == quote:
			if inQuotes && i+1 < len(data) && data[i+1] == quote {
				field = append(field, quote)
				i++
				continue
			}
			inQuotes = !inQuotes
		case inQuotes:
			field = append(field, b)
		case b == delim:
			fields = append(fields, string(field))
			field = field[:0]
		case b == '\n':
			fields = append(fields, string(bytes.TrimSuffix(field, []byte{'\r'})))
			return fields, data[i+1:]
		default:
			field = append(field, b)
		}
	}
	return append(fields, string(field)), nil
}

// detectHeader compares the first record with the second. The first record
// is taken as a header when more of its fields look like names than like
// values.
func detectHeader(sample []byte, delim, quote byte) bool {
	first, rest := splitRecord(sample, delim, quote)
	if len(rest) == 0 {
		return false
	}
	second, _ := splitRecord(rest, delim, quote)
	if len(second) == 1 && strings.TrimSpace(second[0]) == "" {
		return false
	}

	headerScore, dataScore := 0, 0
	for i, field := range first {
		field = strings.TrimSpace(field)
		if isLikelyHeader(field) {
			headerScore++
			// A name above a number is the strongest signal there is.
			if i < len(second) && isNumeric(second[i]) {
				headerScore++
			}
		}
		if isLikelyData(field) {
			dataScore++
		}
	}
	return headerScore > dataScore
}

// isLikelyHeader checks if a field looks like a column name.
func isLikelyHeader(s string) bool {
	if s == "" || isNumeric(s) {
		return false
	}
	for _, pattern := range headerPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// isLikelyData checks if a field looks like a value rather than a name.
func isLikelyData(s string) bool {
	if s == "" {
		return false
	}
	if isNumeric(s) || strings.Contains(s, "@") {
		return true
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// isNumeric reports whether s is an optionally negative decimal number.
func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}

	hasDot, hasDigit := false, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '.':
			if hasDot {
				return false
			}
			hasDot = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			return false
		}
	}
	return hasDigit
}
