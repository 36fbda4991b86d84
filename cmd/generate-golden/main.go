// Command generate-golden writes the reference matches used by the search
// tests. It scans sequentially with the plain digest functions so the
// reference does not depend on the parallel engine.
//
// Usage:
//
//	go run ./cmd/generate-golden -out internal/search/testdata/golden.json
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-faster/jx"

	"github.com/agbru/hashfinder/internal/digest"
)

type goldenMatch struct {
	candidate uint64
	digest    string
}

type goldenCase struct {
	zeroCount int
	matches   []goldenMatch
}

// defaultCounts is the number of matches recorded per zero count.
var defaultCounts = []struct{ zeroCount, count int }{
	{1, 12},
	{2, 6},
	{3, 6},
	{4, 3},
}

// firstMatches returns the first n candidates whose digest ends with z zeros.
func firstMatches(z, n int) []goldenMatch {
	out := make([]goldenMatch, 0, n)
	for c := uint64(0); len(out) < n; c++ {
		if d := digest.Of(c); digest.HasZeroSuffix(d, z) {
			out = append(out, goldenMatch{candidate: c, digest: d})
		}
	}
	return out
}

func encodeCases(cases []goldenCase) []byte {
	var e jx.Encoder
	e.SetIdent(2)
	e.Arr(func(e *jx.Encoder) {
		for _, gc := range cases {
			e.Obj(func(e *jx.Encoder) {
				e.Field("zero_count", func(e *jx.Encoder) { e.Int(gc.zeroCount) })
				e.Field("matches", func(e *jx.Encoder) {
					e.Arr(func(e *jx.Encoder) {
						for _, m := range gc.matches {
							e.Obj(func(e *jx.Encoder) {
								e.Field("candidate", func(e *jx.Encoder) { e.UInt64(m.candidate) })
								e.Field("digest", func(e *jx.Encoder) { e.Str(m.digest) })
							})
						}
					})
				})
			})
		}
	})
	return append(e.Bytes(), '\n')
}

func main() {
	out := flag.String("out", filepath.Join("internal", "search", "testdata", "golden.json"), "output file")
	flag.Parse()

	cases := make([]goldenCase, 0, len(defaultCounts))
	for _, dc := range defaultCounts {
		cases = append(cases, goldenCase{zeroCount: dc.zeroCount, matches: firstMatches(dc.zeroCount, dc.count)})
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create output directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, encodeCases(cases), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write golden file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d cases to %s\n", len(cases), *out)
}
