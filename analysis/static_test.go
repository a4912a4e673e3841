package analysis

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ChristianF88/lsdsort/config"
	"github.com/ChristianF88/lsdsort/radix"
	"github.com/ChristianF88/lsdsort/testutil"
	"github.com/google/go-cmp/cmp"
)

func TestStaticFromConfigBasic(t *testing.T) {
	input := testutil.WriteTestFile(t, "basic_*.txt", "# header\n5 -3 0\n2147483647, -2147483648\n")
	cfg := config.NewStaticConfig(input)
	cfg.Static.Verify = true

	result, data, err := StaticFromConfigWithValues(cfg)
	if err != nil {
		t.Fatalf("StaticFromConfigWithValues failed: %v", err)
	}

	want := []int64{-2147483648, -3, 0, 5, 2147483647}
	if diff := cmp.Diff(want, data.Values); diff != "" {
		t.Errorf("sorted values mismatch (-want +got):\n%s", diff)
	}

	if result.General.TotalValues != 5 {
		t.Errorf("TotalValues = %d, want 5", result.General.TotalValues)
	}
	if result.General.Width != 32 {
		t.Errorf("Width = %d, want 32", result.General.Width)
	}
	if result.Sort == nil {
		t.Fatal("Sort result is nil")
	}
	if result.Sort.FromIndex != 0 || result.Sort.ToIndex != 5 || result.Sort.Passes != 4 {
		t.Errorf("unexpected sort result %+v", result.Sort)
	}
	if *result.Sort.Min != -2147483648 || *result.Sort.Max != 2147483647 {
		t.Errorf("Min/Max = %d/%d", *result.Sort.Min, *result.Sort.Max)
	}
	if result.Verification == nil || !result.Verification.Passed {
		t.Errorf("verification did not pass: %+v", result.Verification)
	}
	if len(result.Passes) != 4 || len(data.Histograms) != 4 {
		t.Errorf("expected 4 passes, got %d stats and %d histograms", len(result.Passes), len(data.Histograms))
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %+v", result.Errors)
	}
}

func TestStaticSubRange(t *testing.T) {
	input := testutil.WriteTestFile(t, "range_*.txt", "9 5 1 8 2\n")
	cfg := config.NewStaticConfig(input)
	to := 3
	cfg.Static.FromIndex = 1
	cfg.Static.ToIndex = &to
	cfg.Static.Verify = true

	result, data, err := StaticFromConfigWithValues(cfg)
	if err != nil {
		t.Fatalf("StaticFromConfigWithValues failed: %v", err)
	}
	if diff := cmp.Diff([]int64{9, 1, 5, 8, 2}, data.Values); diff != "" {
		t.Errorf("sorted values mismatch (-want +got):\n%s", diff)
	}
	if result.Sort.RangeLength != 2 {
		t.Errorf("RangeLength = %d, want 2", result.Sort.RangeLength)
	}
	// Histograms cover the range only
	if got := data.Histograms[0].Total(); got != 2 {
		t.Errorf("histogram total = %d, want 2", got)
	}
}

func intPtr(v int) *int { return &v }

func TestStaticInvalidRange(t *testing.T) {
	input := testutil.WriteTestFile(t, "invalid_*.txt", "3 1 2\n")

	tests := []struct {
		name  string
		from  int
		to    *int
		bound radix.RangeBound
		msg   string
	}{
		{"negative from", -1, nil, radix.BoundFromNegative, "fromIndex(-1) is negative. Must be at least 0."},
		{"to too large", 0, intPtr(4), radix.BoundToTooLarge, "toIndex(4) is too large. Must be at most 3."},
		{"from after to", 3, intPtr(1), radix.BoundFromAfterTo, "fromIndex(3) > toIndex(1)."},
		{"explicit negative to", 0, intPtr(-1), radix.BoundFromAfterTo, "fromIndex(0) > toIndex(-1)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewStaticConfig(input)
			cfg.Static.FromIndex = tt.from
			cfg.Static.ToIndex = tt.to

			result, data, err := StaticFromConfigWithValues(cfg)
			if err == nil {
				t.Fatal("expected error for invalid range")
			}

			var rangeErr *radix.InvalidRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("expected *radix.InvalidRangeError, got %T: %v", err, err)
			}
			if rangeErr.Bound != tt.bound {
				t.Errorf("Bound = %v, want %v", rangeErr.Bound, tt.bound)
			}

			if len(result.Errors) != 1 || result.Errors[0].Type != "invalid_range" {
				t.Fatalf("expected one invalid_range error, got %+v", result.Errors)
			}
			if result.Errors[0].Message != tt.msg {
				t.Errorf("error message = %q, want %q", result.Errors[0].Message, tt.msg)
			}
			if result.Sort != nil {
				t.Error("sort result should be nil for an invalid range")
			}
			if diff := cmp.Diff([]int64{3, 1, 2}, data.Values); diff != "" {
				t.Errorf("values must stay untouched (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStaticAllWidths(t *testing.T) {
	for _, width := range []int{8, 16, 32, 64} {
		t.Run(fmt.Sprintf("width_%d", width), func(t *testing.T) {
			input, values, cleanup := testutil.GenerateTestIntFile(t, 2000, width, int64(width))
			defer cleanup()

			cfg := config.NewStaticConfig(input)
			cfg.Global.Width = width
			cfg.Static.Verify = true

			result, data, err := StaticFromConfigWithValues(cfg)
			if err != nil {
				t.Fatalf("width %d: %v", width, err)
			}

			want := slices.Clone(values)
			slices.Sort(want)
			if diff := cmp.Diff(want, data.Values); diff != "" {
				t.Errorf("width %d: sorted values mismatch (-want +got):\n%s", width, diff)
			}
			if result.Sort.Passes != width/8 {
				t.Errorf("width %d: Passes = %d", width, result.Sort.Passes)
			}
			if !result.Verification.Passed {
				t.Errorf("width %d: verification failed: %v", width, result.Verification.Failures)
			}
		})
	}
}

func TestStaticSkippedLinesBecomeWarnings(t *testing.T) {
	input := testutil.WriteTestFile(t, "skipped_*.txt", "1 2\n300 4\nfoo\n5\n")
	cfg := config.NewStaticConfig(input)
	cfg.Global.Width = 8

	result, data, err := StaticFromConfigWithValues(cfg)
	if err != nil {
		t.Fatalf("StaticFromConfigWithValues failed: %v", err)
	}
	if diff := cmp.Diff([]int64{1, 2, 5}, data.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if result.General.Parsing.SkippedLines != 2 {
		t.Errorf("SkippedLines = %d, want 2", result.General.Parsing.SkippedLines)
	}

	found := false
	for _, w := range result.Warnings {
		if w.Type == "skipped_lines" && w.Count == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("missing skipped_lines warning: %+v", result.Warnings)
	}
}

func TestStaticWritesOutputAndPlot(t *testing.T) {
	input := testutil.WriteTestFile(t, "write_*.txt", "3\n-1\n2\n")
	dir := t.TempDir()
	outFile := filepath.Join(dir, "sorted.txt")
	plotFile := filepath.Join(dir, "buckets.html")

	cfg := config.NewStaticConfig(input)
	cfg.Global.OutputFile = outFile
	cfg.Static.PlotPath = plotFile

	result, err := StaticFromConfig(cfg)
	if err != nil {
		t.Fatalf("StaticFromConfig failed: %v", err)
	}
	if result.Sort.OutputFile != outFile {
		t.Errorf("OutputFile = %q, want %q", result.Sort.OutputFile, outFile)
	}

	content, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(content) != "-1\n2\n3\n" {
		t.Errorf("output content = %q", content)
	}
	if _, err := os.Stat(plotFile); err != nil {
		t.Errorf("heatmap not written: %v", err)
	}
}

func TestStaticConfigErrors(t *testing.T) {
	if _, err := StaticFromConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}

	result, err := StaticFromConfig(&config.Config{})
	if err == nil {
		t.Error("expected error for missing static section")
	}
	if len(result.Errors) != 1 || result.Errors[0].Type != "config_error" {
		t.Errorf("unexpected errors %+v", result.Errors)
	}

	cfg := config.NewStaticConfig(filepath.Join(t.TempDir(), "missing.txt"))
	result, err = StaticFromConfig(cfg)
	if err == nil {
		t.Error("expected error for missing input file")
	}
	if len(result.Errors) != 1 || result.Errors[0].Type != "parse_file" {
		t.Errorf("unexpected errors %+v", result.Errors)
	}

	cfg = config.NewStaticConfig("unused")
	cfg.Global.Width = 24
	if _, err := StaticFromConfig(cfg); err == nil {
		t.Error("expected error for unsupported width")
	}
}

func TestStaticEmptyInput(t *testing.T) {
	input := testutil.WriteTestFile(t, "empty_*.txt", "# nothing here\n")
	cfg := config.NewStaticConfig(input)
	cfg.Static.Verify = true

	result, data, err := StaticFromConfigWithValues(cfg)
	if err != nil {
		t.Fatalf("StaticFromConfigWithValues failed: %v", err)
	}
	if len(data.Values) != 0 {
		t.Errorf("expected no values, got %v", data.Values)
	}
	if result.Sort.Min != nil || result.Sort.Max != nil {
		t.Error("Min/Max should be unset for an empty range")
	}
	if !result.Verification.Passed {
		t.Error("empty range should verify")
	}
}
