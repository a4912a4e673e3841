package radix

import "golang.org/x/exp/constraints"

// Histogram is the bucket distribution of one counting sort pass.
type Histogram struct {
	Pass   int  // 0 is the least significant byte
	Shift  uint // bit offset of the byte
	Signed bool // true for the sign corrected most significant byte
	Counts [256]int
}

// Occupied returns the number of non-empty buckets.
func (h *Histogram) Occupied() int {
	n := 0
	for _, c := range h.Counts {
		if c > 0 {
			n++
		}
	}
	return n
}

// Trivial reports whether all counted values fell into a single bucket,
// i.e. the pass does not reorder anything.
func (h *Histogram) Trivial() bool {
	return h.Occupied() <= 1
}

// Total returns the number of values counted.
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// Histograms returns, for each pass SortOf would run on data, how the
// values are distributed over the 256 buckets. Buckets of the last pass
// are sign corrected the same way the sort corrects them. data is not modified.
func Histograms[T constraints.Signed](data []T) []Histogram {
	width := byteWidth[T]()
	hists := make([]Histogram, width)

	for p := range hists {
		hists[p].Pass = p
		hists[p].Shift = uint(p) * 8
		hists[p].Signed = p == width-1
	}

	for _, v := range data {
		for p := 0; p < width-1; p++ {
			hists[p].Counts[bucketOf(v, hists[p].Shift, 0)]++
		}
		hists[width-1].Counts[bucketOf(v, hists[width-1].Shift, signFlip)]++
	}

	return hists
}
