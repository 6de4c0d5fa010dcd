package fastparser

import "github.com/shapestone/shape-csvtable/internal/fastparser/swar"

// Hypothesis indices into ChunkMeta. A chunk is scanned once, but the quote
// parity it was entered with is unknown until every earlier chunk has been
// counted, so both outcomes are recorded.
const (
	evenEntry = 0
	oddEntry  = 1
)

// ChunkMeta is the result of scanning one chunk under both entry-parity
// hypotheses.
type ChunkMeta struct {
	// Count is the number of row terminators seen outside quotes, indexed
	// by entry parity.
	Count [2]int
	// First is the chunk-relative offset of the first such terminator, or
	// -1 when there is none, indexed by entry parity.
	First [2]int
	// Quotes is the total number of quote bytes in the chunk.
	Quotes int
}

// Select returns the terminator count and first offset that hold when the
// chunk is entered with the given parity (0 even, 1 odd).
func (m ChunkMeta) Select(parity int) (count, first int) {
	return m.Count[parity&1], m.First[parity&1]
}

// scanChunk builds the two-hypothesis record for one chunk.
//
// A line feed seen after an even number of in-chunk quotes is outside
// quotes if the chunk was entered outside quotes; one seen after an odd
// number is outside quotes if the chunk was entered inside. The running
// quote count therefore picks which hypothesis the terminator counts for.
func scanChunk(chunk []byte, sc swar.Scanner) ChunkMeta {
	meta := ChunkMeta{First: [2]int{-1, -1}}
	quote := sc.Quote
	quotes := 0

	visit := func(i int) {
		switch chunk[i] {
		case quote:
			quotes++
		case '\n':
			// Quotes seen so far flip the hypothesis under which this
			// terminator is outside a quoted field.
			h := quotes & 1
			meta.Count[h]++
			if meta.First[h] < 0 {
				meta.First[h] = i
			}
		}
	}

	i := 0
	for ; i+swar.WordSize <= len(chunk); i += swar.WordSize {
		if !sc.Any(swar.Load(chunk[i:])) {
			continue
		}
		for k := i; k < i+swar.WordSize; k++ {
			visit(k)
		}
	}
	for ; i < len(chunk); i++ {
		visit(i)
	}

	meta.Quotes = quotes
	return meta
}

// chunkCount returns how many chunks of size chunkSize cover n bytes.
func chunkCount(n, chunkSize int) int {
	return (n + chunkSize - 1) / chunkSize
}

// scanChunks runs scanChunk over every chunk of data in parallel.
// Chunks never share state; the result slice is indexed by chunk.
func scanChunks(data []byte, chunkSize int, sc swar.Scanner, workers int) []ChunkMeta {
	total := chunkCount(len(data), chunkSize)
	meta := make([]ChunkMeta, total)

	parallelFor(total, workers, func(i int) {
		start := i * chunkSize
		end := min(start+chunkSize, len(data))
		meta[i] = scanChunk(data[start:end], sc)
	})

	return meta
}
