// Package search implements the parallel trailing-zero hash search.
//
// The non-negative integers are split into W interleaved subsequences, one per
// worker. Each worker digests its candidates in ascending order and keeps the
// matches in a private buffer until it reaches its stop condition. A single
// fallible join then merges the buffers, sorts them by candidate and truncates
// to the requested count, so the answer is the same for any worker count.
package search
