package propconf

import (
	"fmt"
	"strconv"
)

const (
	kib = 1 << 10
	mib = 1 << 20
	gib = 1 << 30
)

// FormatMemSize renders n with the largest of the G, M and K suffixes that
// divides it exactly, or as a plain byte count.
func FormatMemSize(n uint64) string {
	switch {
	case n >= gib && n%gib == 0:
		return strconv.FormatUint(n/gib, 10) + "G"
	case n >= mib && n%mib == 0:
		return strconv.FormatUint(n/mib, 10) + "M"
	case n >= kib && n%kib == 0:
		return strconv.FormatUint(n/kib, 10) + "K"
	}
	return strconv.FormatUint(n, 10)
}

// ParseMemSize parses an unsigned byte count with one optional,
// case-insensitive B, K, M or G suffix.
func ParseMemSize(s string) (uint64, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, fmt.Errorf("memory size %q does not start with a number", s)
	}
	n, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("memory size %q: %w", s, err)
	}
	var shift uint
	switch rest := s[i:]; rest {
	case "", "b", "B":
	case "k", "K":
		shift = 10
	case "m", "M":
		shift = 20
	case "g", "G":
		shift = 30
	default:
		return 0, fmt.Errorf("memory size %q has invalid unit %q", s, rest)
	}
	if n > (^uint64(0))>>shift {
		return 0, fmt.Errorf("memory size %q overflows", s)
	}
	return n << shift, nil
}

// HumanMemSize renders n for reading, e.g. "1.5 MB".
func HumanMemSize(n uint64) string {
	switch {
	case n >= gib:
		return strconv.FormatFloat(float64(n)/gib, 'f', -1, 64) + " GB"
	case n >= mib:
		return strconv.FormatFloat(float64(n)/mib, 'f', -1, 64) + " MB"
	case n >= kib:
		return strconv.FormatFloat(float64(n)/kib, 'f', -1, 64) + " KB"
	}
	return strconv.FormatUint(n, 10) + " bytes"
}
