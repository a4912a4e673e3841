package radix

import (
	"math"
	"testing"
)

func TestHistograms_Int32(t *testing.T) {
	data := []int32{0x01020304, 0x01020305, -1, math.MinInt32}
	hists := Histograms(data)

	if len(hists) != 4 {
		t.Fatalf("expected 4 histograms, got %d", len(hists))
	}
	for p, h := range hists {
		if h.Pass != p || h.Shift != uint(p)*8 {
			t.Errorf("histogram %d has pass %d shift %d", p, h.Pass, h.Shift)
		}
		if h.Total() != len(data) {
			t.Errorf("histogram %d counted %d values, want %d", p, h.Total(), len(data))
		}
		if h.Signed != (p == 3) {
			t.Errorf("histogram %d signed = %v", p, h.Signed)
		}
	}

	// Least significant byte: 0x04, 0x05, 0xFF, 0x00
	low := hists[0]
	if low.Counts[0x04] != 1 || low.Counts[0x05] != 1 || low.Counts[0xFF] != 1 || low.Counts[0x00] != 1 {
		t.Errorf("unexpected low byte counts")
	}

	// Sign byte: 0x01 -> 0x81 (twice), 0xFF -> 0x7F, 0x80 -> 0x00
	top := hists[3]
	if top.Counts[0x81] != 2 || top.Counts[0x7F] != 1 || top.Counts[0x00] != 1 {
		t.Errorf("unexpected sign byte counts: 0x81=%d 0x7F=%d 0x00=%d",
			top.Counts[0x81], top.Counts[0x7F], top.Counts[0x00])
	}
	if top.Occupied() != 3 {
		t.Errorf("expected 3 occupied sign buckets, got %d", top.Occupied())
	}
}

func TestHistograms_Trivial(t *testing.T) {
	data := []int16{0x0100, 0x0200, 0x0300}
	hists := Histograms(data)
	if !hists[0].Trivial() {
		t.Error("all low bytes are zero, pass 0 should be trivial")
	}
	if hists[1].Trivial() {
		t.Error("pass 1 sees three distinct bytes and should not be trivial")
	}
}

func TestHistograms_DoesNotModify(t *testing.T) {
	data := []int64{3, -2, 1}
	Histograms(data)
	if data[0] != 3 || data[1] != -2 || data[2] != 1 {
		t.Errorf("input modified: %v", data)
	}
}

func TestHistograms_Empty(t *testing.T) {
	hists := Histograms([]int8{})
	if len(hists) != 1 {
		t.Fatalf("expected 1 histogram for int8, got %d", len(hists))
	}
	if hists[0].Total() != 0 || !hists[0].Trivial() {
		t.Error("empty input should give an empty, trivial histogram")
	}
}
