package lfpreview_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hupe1980/lfpreview"
	"github.com/hupe1980/lfpreview/blobstore"
)

func writeExample(content string) (string, func()) {
	dir, err := os.MkdirTemp("", "lfpreview-example")
	if err != nil {
		log.Fatal(err)
	}
	p := filepath.Join(dir, "app.log")
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		log.Fatal(err)
	}
	return p, func() { os.RemoveAll(dir) }
}

// Example demonstrates opening a file and reading a range of lines.
func Example() {
	p, cleanup := writeExample("boot\nready\nserving\n")
	defer cleanup()

	eng := lfpreview.New()
	defer eng.Close()

	ctx := context.Background()
	id, err := eng.Open(ctx, p)
	if err != nil {
		log.Fatal(err)
	}

	lines, err := eng.ReadLines(id, 1, 10)
	if err != nil {
		log.Fatal(err)
	}
	for _, l := range lines {
		fmt.Println(string(l))
	}

	total, _ := eng.TotalLines(id)
	fmt.Println("total:", total)
	// Output:
	// ready
	// serving
	// total: 3
}

// ExampleEngine_Search demonstrates a case-insensitive search.
func ExampleEngine_Search() {
	p, cleanup := writeExample("INFO start\nERROR disk full\ninfo retry\nerror again\n")
	defer cleanup()

	eng := lfpreview.New()
	defer eng.Close()

	ctx := context.Background()
	id, err := eng.Open(ctx, p)
	if err != nil {
		log.Fatal(err)
	}

	res, err := eng.Search(ctx, id, []byte("error"), lfpreview.IgnoreCase())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("count:", res.Count)
	for _, m := range res.Matches {
		fmt.Printf("line %d col %d\n", m.Line, m.Column)
	}
	// Output:
	// count: 2
	// line 1 col 0
	// line 3 col 0
}

// ExampleWithBlobStore demonstrates reading from a registered blob store.
func ExampleWithBlobStore() {
	store := blobstore.NewMemoryStore()
	store.Put("service/today.log", []byte("first\nsecond\n"))

	eng := lfpreview.New(lfpreview.WithBlobStore("mem", store))
	defer eng.Close()

	id, err := eng.Open(context.Background(), "mem://service/today.log")
	if err != nil {
		log.Fatal(err)
	}
	size, _ := eng.FileSize(id)
	fmt.Println("size:", size)
	// Output: size: 13
}
