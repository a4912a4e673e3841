package intutils

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		bits     int
		expected int64
		wantErr  bool
	}{
		{name: "zero", token: "0", bits: 32, expected: 0},
		{name: "plus sign", token: "+17", bits: 32, expected: 17},
		{name: "min int8", token: "-128", bits: 8, expected: math.MinInt8},
		{name: "int8 overflow", token: "128", bits: 8, wantErr: true},
		{name: "max int32", token: "2147483647", bits: 32, expected: math.MaxInt32},
		{name: "int32 overflow", token: "2147483648", bits: 32, wantErr: true},
		{name: "min int64", token: "-9223372036854775808", bits: 64, expected: math.MinInt64},
		{name: "hex not accepted", token: "0x10", bits: 32, wantErr: true},
		{name: "garbage", token: "abc", bits: 32, wantErr: true},
		{name: "bad width", token: "1", bits: 24, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInt(tt.token, tt.bits)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseInt(%q, %d) expected error, got %d", tt.token, tt.bits, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseInt(%q, %d) unexpected error: %v", tt.token, tt.bits, err)
			}
			if got != tt.expected {
				t.Errorf("ParseInt(%q, %d) = %d, expected %d", tt.token, tt.bits, got, tt.expected)
			}
		})
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		line     string
		expected []string
	}{
		{"1 2 3", []string{"1", "2", "3"}},
		{"1,2,3", []string{"1", "2", "3"}},
		{" 4 ,\t-5 ,6 ", []string{"4", "-5", "6"}},
		{"7 # trailing comment", []string{"7"}},
		{"# only a comment", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := Fields(tt.line)
		if diff := cmp.Diff(tt.expected, got, cmpEmptyAsNil); diff != "" {
			t.Errorf("Fields(%q) mismatch (-want +got):\n%s", tt.line, diff)
		}
	}
}

var cmpEmptyAsNil = cmp.FilterValues(func(x, y []string) bool {
	return len(x) == 0 && len(y) == 0
}, cmp.Ignore())

func TestParseLine(t *testing.T) {
	got, err := ParseLine("3, -1, 2 # values", 16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]int64{3, -1, 2}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseLine("1 70000", 16); err == nil {
		t.Error("expected error for out-of-range value")
	}

	got, err = ParseLine("   ", 16)
	if err != nil || got != nil {
		t.Errorf("blank line should give nil, nil; got %v, %v", got, err)
	}
}

func TestNarrowWiden(t *testing.T) {
	values := []int64{-128, -1, 0, 1, 127}
	narrowed := Narrow[int8](values)
	if diff := cmp.Diff([]int8{-128, -1, 0, 1, 127}, narrowed); diff != "" {
		t.Errorf("Narrow mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(values, Widen(narrowed)); diff != "" {
		t.Errorf("Widen mismatch (-want +got):\n%s", diff)
	}
}

func TestRandomInts(t *testing.T) {
	for _, bits := range SupportedWidths {
		values, err := RandomInts(500, bits)
		if err != nil {
			t.Fatalf("RandomInts(%d) unexpected error: %v", bits, err)
		}
		if len(values) != 500 {
			t.Fatalf("expected 500 values, got %d", len(values))
		}
		lo, hi := Bounds(bits)
		for _, v := range values {
			if v < lo || v > hi {
				t.Fatalf("value %d outside %d-bit bounds", v, bits)
			}
		}
	}

	if _, err := RandomInts(1, 12); err == nil {
		t.Error("expected error for unsupported width")
	}
	if _, err := RandomInts(-1, 32); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestFormatInts(t *testing.T) {
	if got := FormatInts([]int64{-2, 0, 5}, ","); got != "-2,0,5" {
		t.Errorf("FormatInts = %q", got)
	}
	if got := FormatInts(nil, ","); got != "" {
		t.Errorf("FormatInts(nil) = %q", got)
	}
}
