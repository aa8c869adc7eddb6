// Command btreedemo builds a tree of random integer keys and reports
// throughput, grounded on fredb's own bench/ command-style mains.
package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/dustin/go-humanize"

	"btree"
)

const (
	keyCount    = 2_000_000
	leafCap     = 64
	internalCap = 64
)

func main() {
	tr := btree.NewTree[int, int](btree.Ordered[int](),
		btree.WithLeafCapacity[int, int](leafCap),
		btree.WithInternalCapacity[int, int](internalCap))

	r := rand.New(rand.NewSource(1))
	start := time.Now()
	lastPrint := start

	for i := 0; i < keyCount; i++ {
		tr.Insert(r.Intn(keyCount*4), i)
		if time.Since(lastPrint) > time.Second {
			fmt.Printf("inserted %s keys, height %d, elapsed %s\n",
				humanize.Comma(int64(i+1)), tr.Height(), time.Since(start).Round(time.Millisecond))
			lastPrint = time.Now()
		}
	}

	fmt.Printf("done: %s keys stored, tree height %d, took %s\n",
		humanize.Comma(int64(tr.Len())), tr.Height(), time.Since(start).Round(time.Millisecond))

	hits := 0
	lookupStart := time.Now()
	for i := 0; i < keyCount; i++ {
		if _, found := tr.Search(i); found {
			hits++
		}
	}
	fmt.Printf("scanned %s lookups (%s hits), lookup pass started %s\n",
		humanize.Comma(int64(keyCount)), humanize.Comma(int64(hits)), humanize.Time(lookupStart))
}
