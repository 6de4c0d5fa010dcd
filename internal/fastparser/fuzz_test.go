package fastparser

import (
	"reflect"
	"testing"
)

// FuzzBuild checks that Build never panics and that the table it produces
// does not depend on the chunk size or worker count.
// Run with: go test -fuzz=FuzzBuild -fuzztime=30s ./internal/fastparser
func FuzzBuild(f *testing.F) {
	seeds := []string{
		"",
		"a",
		"a,b,c",
		"a,b,c\n",
		"a,b\nc,d",
		"\"quoted\"",
		"\"with,comma\"",
		"\"with\"\"quote\"",
		"\"multi\nline\"",
		"a,\"b\",c",
		"\r\n",
		"a\r\nb",
		"a,b,c\r\nd,e,f",
		",,",
		"\"\"",
		"\"\"\"\"",
		"a,\"b,c\",d",
		"\"a\"\"b\"",
		"\"odd",
		"a,b\nc\nd,e,f\n",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, input string) {
		data := []byte(input)
		want, wantErr := Build(data, Config{Workers: 1})

		for _, chunkSize := range []int{8, 16, 40} {
			got, err := Build(data, Config{ChunkSize: chunkSize, Workers: 4})
			if (err == nil) != (wantErr == nil) {
				t.Fatalf("chunk %d: err = %v, single chunk err = %v", chunkSize, err, wantErr)
			}
			if err != nil {
				continue
			}
			if got.Rows != want.Rows || got.Columns != want.Columns {
				t.Fatalf("chunk %d: shape %dx%d, want %dx%d", chunkSize, got.Rows, got.Columns, want.Rows, want.Columns)
			}
			if !reflect.DeepEqual(frameRecords(got), frameRecords(want)) {
				t.Fatalf("chunk %d: records %q, want %q", chunkSize, frameRecords(got), frameRecords(want))
			}
		}
	})
}
