// Package verify checks the result of a range sort against the input it
// was produced from: ordering, permutation, untouched elements outside the
// range and element-wise agreement with a comparison based reference sort.
package verify

import (
	"fmt"
	"slices"
	"time"

	"github.com/alphadose/haxmap"
	"golang.org/x/exp/constraints"
)

// Report is the outcome of Check. Every field is true on success.
type Report struct {
	Sorted          bool `json:"sorted"`
	Permutation     bool `json:"permutation"`
	OutsideRange    bool `json:"outside_range_unchanged"`
	MatchesRefSort  bool `json:"matches_reference_sort"`
	FirstUnsortedAt int  `json:"first_unsorted_at,omitempty"`
	FirstMismatchAt int  `json:"first_mismatch_at,omitempty"`

	// ReferenceDuration is the time the reference sort took
	ReferenceDuration time.Duration `json:"-"`
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	return r.Sorted && r.Permutation && r.OutsideRange && r.MatchesRefSort
}

// Failures lists the names of the failed checks.
func (r Report) Failures() []string {
	var failed []string
	if !r.Sorted {
		failed = append(failed, fmt.Sprintf("range not ascending at index %d", r.FirstUnsortedAt))
	}
	if !r.Permutation {
		failed = append(failed, "range is not a permutation of the input")
	}
	if !r.OutsideRange {
		failed = append(failed, "elements outside the range changed")
	}
	if !r.MatchesRefSort {
		failed = append(failed, fmt.Sprintf("reference sort differs at index %d", r.FirstMismatchAt))
	}
	return failed
}

// Check compares sorted, the result of sorting original[from:to], with original.
// Both slices must have the same length and the range must be valid.
func Check[T constraints.Signed](original, sorted []T, from, to int) (Report, error) {
	if len(original) != len(sorted) {
		return Report{}, fmt.Errorf("length mismatch: original %d, sorted %d", len(original), len(sorted))
	}
	if from < 0 || from > to || to > len(original) {
		return Report{}, fmt.Errorf("invalid range [%d, %d) for length %d", from, to, len(original))
	}

	report := Report{
		Sorted:       true,
		OutsideRange: true,
	}

	if i := FirstUnsorted(sorted[from:to]); i >= 0 {
		report.Sorted = false
		report.FirstUnsortedAt = from + i
	}

	report.OutsideRange = slices.Equal(original[:from], sorted[:from]) &&
		slices.Equal(original[to:], sorted[to:])

	report.Permutation = SameMultiset(original[from:to], sorted[from:to])

	refStart := time.Now()
	reference := slices.Clone(original[from:to])
	slices.Sort(reference)
	report.ReferenceDuration = time.Since(refStart)

	report.MatchesRefSort = true
	for i, v := range reference {
		if sorted[from+i] != v {
			report.MatchesRefSort = false
			report.FirstMismatchAt = from + i
			break
		}
	}

	return report, nil
}

// FirstUnsorted returns the first index i with data[i] < data[i-1], or -1.
func FirstUnsorted[T constraints.Signed](data []T) int {
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			return i
		}
	}
	return -1
}

// SameMultiset reports whether a and b hold the same values with the same
// multiplicities.
func SameMultiset[T constraints.Signed](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}

	counts := haxmap.New[int64, int](uintptr(len(a)))
	for _, v := range a {
		k := int64(v)
		c, _ := counts.Get(k)
		counts.Set(k, c+1)
	}
	for _, v := range b {
		k := int64(v)
		c, ok := counts.Get(k)
		if !ok || c == 0 {
			return false
		}
		if c == 1 {
			counts.Del(k)
		} else {
			counts.Set(k, c-1)
		}
	}
	return counts.Len() == 0
}
