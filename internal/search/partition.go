package search

// Subsequence is the arithmetic progression {Offset, Offset+Stride, ...}
// assigned to one worker.
type Subsequence struct {
	Offset uint64
	Stride uint64
}

// At returns the k-th element of the subsequence. The result wraps on
// overflow; callers walking the domain check for wrap themselves.
func (s Subsequence) At(k uint64) uint64 {
	return s.Offset + k*s.Stride
}

// Contains reports whether c belongs to the subsequence.
func (s Subsequence) Contains(c uint64) bool {
	if c < s.Offset {
		return false
	}
	if s.Stride == 0 {
		return c == s.Offset
	}
	return (c-s.Offset)%s.Stride == 0
}

// Partition splits the domain into w disjoint interleaved subsequences:
// worker i gets {i, i+w, i+2w, ...}. Values of w below 1 are treated as 1.
func Partition(w int) []Subsequence {
	w = max(w, 1)
	parts := make([]Subsequence, w)
	for i := range parts {
		parts[i] = Subsequence{Offset: uint64(i), Stride: uint64(w)}
	}
	return parts
}
