package tui

// sparkLevels are the eight block heights used by sparklines, lowest first.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// History keeps the most recent samples of a series in a fixed-size ring.
type History struct {
	buf   []float64
	next  int
	count int
}

// NewHistory creates a history holding up to size samples (at least one).
func NewHistory(size int) *History {
	return &History{buf: make([]float64, max(size, 1))}
}

// Push appends a sample, dropping the oldest one when full.
func (h *History) Push(v float64) {
	h.buf[h.next] = v
	h.next = (h.next + 1) % len(h.buf)
	h.count = min(h.count+1, len(h.buf))
}

// Len returns the number of samples held.
func (h *History) Len() int { return h.count }

// Last returns the newest sample, 0 if empty.
func (h *History) Last() float64 {
	if h.count == 0 {
		return 0
	}
	return h.buf[(h.next-1+len(h.buf))%len(h.buf)]
}

// Values returns the samples oldest first.
func (h *History) Values() []float64 {
	out := make([]float64, h.count)
	start := h.next - h.count + len(h.buf)
	for i := range out {
		out[i] = h.buf[(start+i)%len(h.buf)]
	}
	return out
}

// Tail returns at most n of the newest samples, oldest first.
func (h *History) Tail(n int) []float64 {
	v := h.Values()
	if n >= 0 && len(v) > n {
		v = v[len(v)-n:]
	}
	return v
}

// Clear drops all samples.
func (h *History) Clear() {
	h.next, h.count = 0, 0
}

// RenderSparkline draws values as block characters scaled to ceiling. A
// ceiling <= 0 scales to the largest value, so throughput series of any
// magnitude use the full height.
func RenderSparkline(values []float64, ceiling float64) string {
	if len(values) == 0 {
		return ""
	}
	if ceiling <= 0 {
		for _, v := range values {
			ceiling = max(ceiling, v)
		}
	}
	top := len(sparkLevels) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		level := 0
		if ceiling > 0 {
			level = int(min(max(v, 0), ceiling) / ceiling * float64(top))
		}
		out[i] = sparkLevels[level]
	}
	return string(out)
}
