package format

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumberString inserts thousand separators into a decimal string.
func FormatNumberString(s string) string {
	if s == "" {
		return s
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var b strings.Builder
	b.Grow(len(sign) + len(s) + len(s)/3)
	b.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > len(sign) {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatCount renders n with thousand separators.
func FormatCount(n uint64) string {
	return FormatNumberString(strconv.FormatUint(n, 10))
}

// FormatRate renders a hash throughput with an SI prefix, e.g. "12.4 MH/s".
func FormatRate(perSecond float64) string {
	units := []string{"H/s", "kH/s", "MH/s", "GH/s", "TH/s"}
	i := 0
	for perSecond >= 1000 && i < len(units)-1 {
		perSecond /= 1000
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%.0f %s", perSecond, units[i])
	}
	return fmt.Sprintf("%.1f %s", perSecond, units[i])
}
