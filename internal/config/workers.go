package config

import "runtime"

// hostConcurrency reports the number of CPUs usable by the process. It is a
// variable so tests can simulate hosts that report no usable CPU.
var hostConcurrency = func() int { return runtime.GOMAXPROCS(0) }

// ResolveWorkers returns the worker count for a search. An explicit positive
// request wins; otherwise the host concurrency is used. If the host reports
// no usable CPU the search falls back to a single worker instead of failing.
func ResolveWorkers(requested int) int {
	if requested > 0 {
		return requested
	}
	if n := hostConcurrency(); n > 0 {
		return n
	}
	return 1
}
