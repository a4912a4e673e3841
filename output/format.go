package output

import (
	"strconv"
	"strings"

	"github.com/ChristianF88/lsdsort/radix"
)

// FormatNumber renders n with thousands separators
func FormatNumber(n int) string {
	str := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, str = "-", str[1:]
	}
	if len(str) <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// PassStatsFromHistograms summarizes histograms for the output document
func PassStatsFromHistograms(hists []radix.Histogram) []PassStats {
	stats := make([]PassStats, len(hists))
	for i := range hists {
		h := &hists[i]
		largest, largestCount := 0, 0
		for b, c := range h.Counts {
			if c > largestCount {
				largest, largestCount = b, c
			}
		}
		stats[i] = PassStats{
			Pass:            h.Pass,
			Shift:           h.Shift,
			Signed:          h.Signed,
			OccupiedBuckets: h.Occupied(),
			Trivial:         h.Trivial(),
			LargestBucket:   largest,
			LargestCount:    largestCount,
		}
	}
	return stats
}
