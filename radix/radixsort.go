package radix

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Sort sorts data in ascending order using an 8-bit LSD radix sort.
// This is O(n) per byte of the element type instead of sort.Slice's O(n log n).
func Sort(data []int32) {
	SortOf(data)
}

// SortRange sorts data[from:to] in ascending order. Elements outside the
// range are neither read nor written. An *InvalidRangeError is returned,
// and data is left untouched, when the range is malformed.
func SortRange(data []int32, from, to int) error {
	return SortRangeOf(data, from, to)
}

// SortOf sorts data of any signed integer width in ascending order.
func SortOf[T constraints.Signed](data []T) {
	// A whole-slice range is always valid.
	_ = SortRangeOf(data, 0, len(data))
}

// SortRangeOf sorts data[from:to] of any signed integer width.
//
// Uses one counting sort pass per byte of T, least significant byte first.
// Every pass but the last buckets on the raw byte value; the last one
// flips the sign bit so negative values land before non-negative ones.
// The scratch buffer and the counter table are allocated once per call and
// reused across passes.
func SortRangeOf[T constraints.Signed](data []T, from, to int) error {
	if err := CheckRange(len(data), from, to); err != nil {
		return err
	}

	n := to - from
	if n < 2 {
		return nil
	}

	window := data[from:to]
	scratch := make([]T, n)
	var counts [256]int

	width := byteWidth[T]()
	for p := 0; p < width-1; p++ {
		radixPass(window, scratch, &counts, uint(p)*8)
	}
	radixPassSigned(window, scratch, &counts, uint(width-1)*8)

	return nil
}

// radixPass performs one stable counting sort pass on the byte at shift.
func radixPass[T constraints.Signed](data, scratch []T, counts *[256]int, shift uint) {
	countingPass(data, scratch, counts, shift, 0)
}

// radixPassSigned performs the pass on the most significant byte.
// XOR with 0x80 maps raw bytes 128..255 (negative) to buckets 0..127 and
// raw bytes 0..127 to buckets 128..255.
func radixPassSigned[T constraints.Signed](data, scratch []T, counts *[256]int, shift uint) {
	countingPass(data, scratch, counts, shift, signFlip)
}

const signFlip = 0x80

func countingPass[T constraints.Signed](data, scratch []T, counts *[256]int, shift uint, flip uint8) {
	*counts = [256]int{}

	for _, v := range data {
		counts[bucketOf(v, shift, flip)]++
	}

	// counts[b] becomes one past the last slot of bucket b
	for b := 1; b < len(counts); b++ {
		counts[b] += counts[b-1]
	}

	// Walking backwards with a pre-decrement keeps equal keys in input order.
	for i := len(data) - 1; i >= 0; i-- {
		v := data[i]
		b := bucketOf(v, shift, flip)
		counts[b]--
		scratch[counts[b]] = v
	}

	copy(data, scratch)
}

// bucketOf extracts the byte at shift from the two's complement bit pattern
// of v. Bits above the width of T never reach the result.
func bucketOf[T constraints.Signed](v T, shift uint, flip uint8) uint8 {
	return uint8(uint64(v)>>shift) ^ flip
}

func byteWidth[T constraints.Signed]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Passes returns the number of counting sort passes used for T.
func Passes[T constraints.Signed]() int {
	return byteWidth[T]()
}
