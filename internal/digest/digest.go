package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

const (
	// Size is the length of a raw digest in bytes.
	Size = sha256.Size
	// HexLen is the length of the hex text form of a digest.
	HexLen = 2 * Size
	// MaxZeroCount is the largest meaningful trailing-zero requirement.
	MaxZeroCount = HexLen
)

// Of returns the lowercase hex digest of the decimal text of c.
func Of(c uint64) string {
	sum := sha256.Sum256(strconv.AppendUint(nil, c, 10))
	return hex.EncodeToString(sum[:])
}

// Hasher holds per-worker scratch buffers so digesting a candidate does not
// allocate. A Hasher is not safe for concurrent use.
type Hasher struct {
	text []byte
	hex  [HexLen]byte
}

// NewHasher creates a Hasher with room for any uint64 in decimal.
func NewHasher() *Hasher {
	return &Hasher{text: make([]byte, 0, 20)}
}

// Sum returns the raw SHA-256 sum of the decimal text of c.
func (h *Hasher) Sum(c uint64) [Size]byte {
	h.text = strconv.AppendUint(h.text[:0], c, 10)
	return sha256.Sum256(h.text)
}

// Hex encodes sum as lowercase hex.
func (h *Hasher) Hex(sum [Size]byte) string {
	hex.Encode(h.hex[:], sum[:])
	return string(h.hex[:])
}

// TrailingZeros counts the trailing '0' characters of the hex form of sum.
func TrailingZeros(sum [Size]byte) int {
	n := 0
	for i := Size - 1; i >= 0; i-- {
		b := sum[i]
		if b == 0 {
			n += 2
			continue
		}
		if b&0x0f == 0 {
			n++
		}
		break
	}
	return n
}

// HasZeroSuffix reports whether the hex digest ends with z '0' characters.
func HasZeroSuffix(digest string, z int) bool {
	if z < 0 || z > len(digest) {
		return false
	}
	return strings.TrimRight(digest[len(digest)-z:], "0") == ""
}

// Matcher tests raw sums for a fixed trailing-zero requirement.
type Matcher struct {
	zeros     int
	fullBytes int
	half      bool
}

// NewMatcher resolves the byte and nibble checks for z trailing zeros.
// z is clamped to [0, MaxZeroCount].
func NewMatcher(z int) Matcher {
	z = max(0, min(z, MaxZeroCount))
	return Matcher{zeros: z, fullBytes: z / 2, half: z%2 == 1}
}

// Zeros returns the trailing-zero requirement.
func (m Matcher) Zeros() int { return m.zeros }

// Match reports whether sum ends with the required number of zero nibbles.
func (m Matcher) Match(sum [Size]byte) bool {
	for i := Size - 1; i >= Size-m.fullBytes; i-- {
		if sum[i] != 0 {
			return false
		}
	}
	if m.half {
		return sum[Size-1-m.fullBytes]&0x0f == 0
	}
	return true
}
