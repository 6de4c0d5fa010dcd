package fastparser

import (
	"fmt"
	"os"
	"path/filepath"
)

func ExampleBuild() {
	frame, err := Build([]byte("name,city\nAlice,\"Oslo, NO\"\nBob\n"), Config{ChunkSize: 8})
	if err != nil {
		fmt.Println(err)
		return
	}
	for r := 0; r < frame.Rows; r++ {
		for c := 0; c < frame.Columns; c++ {
			field, ok := frame.Field(r, c)
			fmt.Printf("%q %t\n", field, ok)
		}
	}
	// Output:
	// "name" true
	// "city" true
	// "Alice" true
	// "Oslo, NO" true
	// "Bob" true
	// "" false
}

func ExampleMmapFile() {
	dir, err := os.MkdirTemp("", "fastparser-example")
	if err != nil {
		fmt.Println(err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "small.csv")
	if err := os.WriteFile(path, []byte("a;b\n1;2\n"), 0600); err != nil {
		fmt.Println(err)
		return
	}

	data, cleanup, err := MmapFile(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer cleanup()

	frame, err := Build(data, Config{Delim: ';'})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(frame.Rows, frame.Columns)
	// Output: 2 2
}
