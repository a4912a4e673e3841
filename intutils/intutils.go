package intutils

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// SupportedWidths lists the integer widths in bits that can be sorted.
var SupportedWidths = []int{8, 16, 32, 64}

// IsValidWidth checks if bits is one of SupportedWidths
func IsValidWidth(bits int) bool {
	switch bits {
	case 8, 16, 32, 64:
		return true
	}
	return false
}

// Bounds returns the smallest and largest value of a signed integer with the given width
func Bounds(bits int) (int64, int64) {
	switch bits {
	case 8:
		return math.MinInt8, math.MaxInt8
	case 16:
		return math.MinInt16, math.MaxInt16
	case 32:
		return math.MinInt32, math.MaxInt32
	default:
		return math.MinInt64, math.MaxInt64
	}
}

// ParseInt parses a decimal integer token that must fit into bits.
// A leading '+' is accepted.
func ParseInt(token string, bits int) (int64, error) {
	if !IsValidWidth(bits) {
		return 0, fmt.Errorf("unsupported width %d", bits)
	}
	v, err := strconv.ParseInt(token, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %d-bit integer %q: %w", bits, token, err)
	}
	return v, nil
}

// Fields splits a line into integer tokens. Tokens are separated by
// whitespace or commas; everything after '#' is a comment.
func Fields(line string) []string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
}

// ParseLine parses all integer tokens of a line.
// The first invalid token aborts the line.
func ParseLine(line string, bits int) ([]int64, error) {
	fields := Fields(line)
	if len(fields) == 0 {
		return nil, nil
	}
	values := make([]int64, 0, len(fields))
	for _, f := range fields {
		v, err := ParseInt(f, bits)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// Narrow converts values to T. Callers check the width beforehand;
// out-of-range values are truncated.
func Narrow[T constraints.Signed](values []int64) []T {
	out := make([]T, len(values))
	for i, v := range values {
		out[i] = T(v)
	}
	return out
}

// Widen converts values back to int64.
func Widen[T constraints.Signed](values []T) []int64 {
	out := make([]int64, len(values))
	for i, v := range values {
		out[i] = int64(v)
	}
	return out
}

// RandomInts generates count random integers spanning the full range of bits
func RandomInts(count, bits int) ([]int64, error) {
	if !IsValidWidth(bits) {
		return nil, fmt.Errorf("unsupported width %d", bits)
	}
	if count < 0 {
		return nil, fmt.Errorf("invalid count %d", count)
	}

	raw := make([]byte, 8*count)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}

	values := make([]int64, count)
	shift := 64 - bits
	for i := range values {
		u := binary.LittleEndian.Uint64(raw[i*8:])
		// arithmetic shift keeps the sign of the top bits
		values[i] = int64(u) >> shift
	}
	return values, nil
}

// FormatInts joins values with sep
func FormatInts(values []int64, sep string) string {
	var sb strings.Builder
	for i, v := range values {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(strconv.FormatInt(v, 10))
	}
	return sb.String()
}
