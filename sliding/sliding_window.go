package sliding

import (
	"math"
	"time"

	"github.com/ChristianF88/lsdsort/intutils"
	"github.com/ChristianF88/lsdsort/radix"
	"github.com/alphadose/haxmap"
	"golang.org/x/exp/constraints"
)

// --- Sliding Window of streamed integers ---

type TimedValue struct {
	Value int64
	Time  time.Time
}

type SlidingWindow struct {
	Queue      []TimedValue
	Counts     *haxmap.Map[int64, int] // occurrences per distinct value
	timeLimit  time.Duration
	maxEntries int
}

func NewSlidingWindow(window time.Duration, maxEntries int) *SlidingWindow {
	return &SlidingWindow{
		Queue:      make([]TimedValue, 0),
		Counts:     haxmap.New[int64, int](1 << 16),
		timeLimit:  window,
		maxEntries: maxEntries,
	}
}

func insertIntoHaxmap(m *haxmap.Map[int64, int], v int64) {
	count, _ := m.Get(v)
	m.Set(v, count+1)
}

func deleteFromHaxmap(m *haxmap.Map[int64, int], v int64) {
	count, exists := m.Get(v)
	if !exists {
		return
	}
	count--
	if count <= 0 {
		m.Del(v)
		return
	}
	m.Set(v, count)
}

func (s *SlidingWindow) InsertNew(values []TimedValue) {
	s.Queue = append(s.Queue, values...)
	for _, tv := range values {
		insertIntoHaxmap(s.Counts, tv.Value)
	}
}

// DropOldAt drops values older than the time limit relative to now, then
// the oldest values beyond maxEntries.
func (s *SlidingWindow) DropOldAt(now time.Time) {
	// enforce time limit
	idx := 0
	if s.timeLimit > 0 {
		cutoff := now.Add(-s.timeLimit)
		for idx < len(s.Queue) && s.Queue[idx].Time.Before(cutoff) {
			deleteFromHaxmap(s.Counts, s.Queue[idx].Value)
			idx++
		}
	}
	// enforce max entries
	remainingLen := len(s.Queue) - idx
	if s.maxEntries > 0 && remainingLen > s.maxEntries {
		toDelete := remainingLen - s.maxEntries
		for i := 0; i < toDelete; i++ {
			deleteFromHaxmap(s.Counts, s.Queue[idx+i].Value)
		}
		idx += toDelete
	}

	if idx > 0 {
		// Efficient memory-releasing slice copy
		s.Queue = append([]TimedValue(nil), s.Queue[idx:]...)
	}
}

// Len returns the number of values in the window.
func (s *SlidingWindow) Len() int {
	return len(s.Queue)
}

// Distinct returns the number of distinct values in the window.
func (s *SlidingWindow) Distinct() int {
	return int(s.Counts.Len())
}

// SortedInto returns the window's values in ascending order, writing into
// buf's backing array when it is large enough. The window itself keeps
// arrival order.
//
// Values are sorted at the given width (8, 16, 32 or 64 bits), one pass per
// byte. They must fit that width; the ingestor rejects values that do not.
func (s *SlidingWindow) SortedInto(buf []int64, bits int) []int64 {
	values := buf[:0]
	for _, tv := range s.Queue {
		values = append(values, tv.Value)
	}

	switch bits {
	case 8:
		sortNarrowed[int8](values)
	case 16:
		sortNarrowed[int16](values)
	case 32:
		sortNarrowed[int32](values)
	default:
		radix.SortOf(values)
	}
	return values
}

func sortNarrowed[T constraints.Signed](values []int64) {
	narrow := intutils.Narrow[T](values)
	radix.SortOf(narrow)
	for i, v := range narrow {
		values[i] = int64(v)
	}
}

// Quantile returns the nearest-rank q-quantile of sorted, q in [0, 1].
func Quantile(sorted []int64, q float64) (int64, bool) {
	if len(sorted) == 0 || q < 0 || q > 1 {
		return 0, false
	}
	rank := int(math.Ceil(q * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1], true
}
