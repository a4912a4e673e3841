package sliding

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/google/go-cmp/cmp"
)

func timed(now time.Time, values ...int64) []TimedValue {
	out := make([]TimedValue, len(values))
	for i, v := range values {
		out[i] = TimedValue{Value: v, Time: now}
	}
	return out
}

func TestSlidingWindowInsert(t *testing.T) {
	tests := []struct {
		name             string
		values           []int64
		expectedLen      int
		expectedDistinct int
	}{
		{name: "Insert single value", values: []int64{1}, expectedLen: 1, expectedDistinct: 1},
		{name: "Insert multiple unique values", values: []int64{1, -2}, expectedLen: 2, expectedDistinct: 2},
		{name: "Insert duplicate values", values: []int64{7, 7}, expectedLen: 2, expectedDistinct: 1},
		{name: "Insert no values", values: nil, expectedLen: 0, expectedDistinct: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSlidingWindow(10*time.Second, 5)
			s.InsertNew(timed(time.Now(), tt.values...))

			if s.Len() != tt.expectedLen {
				t.Errorf("Expected %d values, got %d", tt.expectedLen, s.Len())
			}
			if s.Distinct() != tt.expectedDistinct {
				t.Errorf("Expected %d distinct values, got %d", tt.expectedDistinct, s.Distinct())
			}
		})
	}
}

func TestSlidingWindow_DropOldByTime(t *testing.T) {
	now := time.Now()
	s := NewSlidingWindow(2*time.Second, 10)
	s.InsertNew(timed(now.Add(-5*time.Second), 1, 2))
	s.InsertNew(timed(now, 3))
	s.DropOldAt(now)

	if s.Len() != 1 {
		t.Fatalf("Expected 1 value in window, got %d", s.Len())
	}
	if _, exists := s.Counts.Get(1); exists {
		t.Error("Expected value 1 to be dropped from counts")
	}
	if c, _ := s.Counts.Get(3); c != 1 {
		t.Errorf("Expected count 1 for value 3, got %d", c)
	}
}

func TestSlidingWindow_DropOldByMaxEntries(t *testing.T) {
	now := time.Now()
	s := NewSlidingWindow(time.Hour, 3)
	s.InsertNew(timed(now, 5, 5, 6, 7, 8))
	s.DropOldAt(now)

	if s.Len() != 3 {
		t.Fatalf("Expected 3 values, got %d", s.Len())
	}
	if _, exists := s.Counts.Get(5); exists {
		t.Error("Expected both 5s to be evicted")
	}
	if diff := cmp.Diff([]int64{6, 7, 8}, s.SortedInto(nil, 64)); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}
}

func TestSlidingWindow_Unbounded(t *testing.T) {
	s := NewSlidingWindow(0, 0)
	s.InsertNew(timed(time.Now().Add(-24*time.Hour), 1, 2, 3))
	s.DropOldAt(time.Now())
	if s.Len() != 3 {
		t.Errorf("zero limits should keep everything, got %d values", s.Len())
	}
}

func TestSlidingWindow_SortedKeepsArrivalOrder(t *testing.T) {
	s := NewSlidingWindow(time.Hour, 100)
	s.InsertNew(timed(time.Now(), 3, -9, 0, 3))

	if diff := cmp.Diff([]int64{-9, 0, 3, 3}, s.SortedInto(nil, 64)); diff != "" {
		t.Errorf("sorted mismatch (-want +got):\n%s", diff)
	}
	if s.Queue[0].Value != 3 || s.Queue[1].Value != -9 {
		t.Error("SortedInto must not reorder the queue")
	}
}

func TestSlidingWindow_SortedIntoReusesBuffer(t *testing.T) {
	s := NewSlidingWindow(0, 0)
	s.InsertNew(timed(time.Now(), 5, -1, 2))

	buf := make([]int64, 7, 16)
	got := s.SortedInto(buf, 64)
	if diff := cmp.Diff([]int64{-1, 2, 5}, got); diff != "" {
		t.Errorf("sorted mismatch (-want +got):\n%s", diff)
	}
	if &got[0] != &buf[0] {
		t.Error("SortedInto should reuse a large enough buffer")
	}

	small := make([]int64, 0, 1)
	if diff := cmp.Diff([]int64{-1, 2, 5}, s.SortedInto(small, 64)); diff != "" {
		t.Errorf("sorted mismatch with small buffer (-want +got):\n%s", diff)
	}
}

func TestSlidingWindow_SortedIntoAtWidth(t *testing.T) {
	tests := []struct {
		bits   int
		values []int64
		want   []int64
	}{
		{8, []int64{127, -128, 0, -1, 1}, []int64{-128, -1, 0, 1, 127}},
		{16, []int64{300, -300, 255, -256, 0}, []int64{-300, -256, 0, 255, 300}},
		{32, []int64{math.MaxInt32, math.MinInt32, 65536, -1}, []int64{math.MinInt32, -1, 65536, math.MaxInt32}},
		{64, []int64{math.MaxInt64, math.MinInt64, 1 << 40, -1}, []int64{math.MinInt64, -1, 1 << 40, math.MaxInt64}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("width_%d", tt.bits), func(t *testing.T) {
			s := NewSlidingWindow(0, 0)
			s.InsertNew(timed(time.Now(), tt.values...))

			if diff := cmp.Diff(tt.want, s.SortedInto(nil, tt.bits)); diff != "" {
				t.Errorf("sorted mismatch (-want +got):\n%s", diff)
			}
			if s.Queue[0].Value != tt.values[0] {
				t.Error("SortedInto must not reorder the queue")
			}
		})
	}
}

func TestDeleteFromHaxmap_Missing(t *testing.T) {
	m := haxmap.New[int64, int](8)
	deleteFromHaxmap(m, 42)
	if m.Len() != 0 {
		t.Errorf("Expected empty map, got %d entries", m.Len())
	}

	m.Set(1, 2)
	deleteFromHaxmap(m, 1)
	if c, _ := m.Get(1); c != 1 {
		t.Errorf("Expected count 1, got %d", c)
	}
}

func TestQuantile(t *testing.T) {
	sorted := []int64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	tests := []struct {
		q        float64
		expected int64
	}{
		{0, 10},
		{0.1, 10},
		{0.5, 50},
		{0.9, 90},
		{0.95, 100},
		{1, 100},
	}
	for _, tt := range tests {
		got, ok := Quantile(sorted, tt.q)
		if !ok || got != tt.expected {
			t.Errorf("Quantile(%v) = %d, %v; expected %d", tt.q, got, ok, tt.expected)
		}
	}

	if _, ok := Quantile(nil, 0.5); ok {
		t.Error("expected no quantile for empty input")
	}
	if _, ok := Quantile(sorted, 1.5); ok {
		t.Error("expected no quantile for q > 1")
	}
}
