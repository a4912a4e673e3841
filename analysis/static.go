package analysis

import (
	"fmt"
	"slices"
	"time"

	"github.com/ChristianF88/lsdsort/config"
	"github.com/ChristianF88/lsdsort/ingestor"
	"github.com/ChristianF88/lsdsort/intutils"
	"github.com/ChristianF88/lsdsort/output"
	"github.com/ChristianF88/lsdsort/radix"
	"github.com/ChristianF88/lsdsort/verify"
	"golang.org/x/exp/constraints"
)

// SortedData is what a static run produced besides its JSON document
type SortedData struct {
	// Values is the whole input with the configured range sorted
	Values []int64
	// Histograms describe the bucket distribution of every pass over the
	// range as it was before sorting
	Histograms []radix.Histogram
}

// StaticFromConfig runs static analysis and returns the result
func StaticFromConfig(cfg *config.Config) (*output.JSONOutput, error) {
	result, _, err := StaticFromConfigWithValues(cfg)
	return result, err
}

// StaticFromConfigWithValues runs static analysis and returns both the result
// and the sorted values
func StaticFromConfigWithValues(cfg *config.Config) (*output.JSONOutput, *SortedData, error) {
	analysisStart := time.Now()
	jsonOutput := output.NewJSONOutput("static", analysisStart)

	if cfg == nil {
		jsonOutput.AddError("config_error", "configuration is nil", 1)
		return jsonOutput, nil, fmt.Errorf("configuration is nil")
	}

	if cfg.Static == nil {
		jsonOutput.AddError("config_error", "static configuration section is missing", 1)
		return jsonOutput, nil, fmt.Errorf("static configuration section is missing")
	}

	width := cfg.GetWidth()
	if !intutils.IsValidWidth(width) {
		jsonOutput.AddError("config_error", fmt.Sprintf("unsupported width %d", width), 1)
		return jsonOutput, nil, fmt.Errorf("unsupported width %d", width)
	}

	parsed, err := ingestor.ParseIntFile(cfg.Static.InputFile, width)
	if err != nil {
		jsonOutput.AddError("parse_file", fmt.Sprintf("failed to read input file %s: %v", cfg.Static.InputFile, err), 1)
		return jsonOutput, nil, err
	}

	jsonOutput.General.InputFile = cfg.Static.InputFile
	jsonOutput.General.Width = width
	jsonOutput.General.TotalValues = len(parsed.Values)
	jsonOutput.General.Parsing.DurationMS = parsed.Duration.Milliseconds()
	if secs := parsed.Duration.Seconds(); secs > 0 {
		jsonOutput.General.Parsing.RatePerSecond = int64(float64(len(parsed.Values)) / secs)
	}
	jsonOutput.General.Parsing.Lines = parsed.Lines
	jsonOutput.General.Parsing.SkippedLines = parsed.SkippedLines

	if parsed.SkippedLines > 0 {
		jsonOutput.AddWarning("skipped_lines",
			fmt.Sprintf("%d lines contained invalid or out-of-range values and were skipped", parsed.SkippedLines),
			parsed.SkippedLines)
		for _, msg := range parsed.Errors {
			jsonOutput.AddWarning("parse_error", msg, 1)
		}
	}
	if len(parsed.Values) == 0 {
		jsonOutput.AddWarning("empty_input", "no values found in input file", 1)
	}

	var data *SortedData
	switch width {
	case 8:
		data, err = sortValues[int8](cfg, parsed.Values, jsonOutput)
	case 16:
		data, err = sortValues[int16](cfg, parsed.Values, jsonOutput)
	case 32:
		data, err = sortValues[int32](cfg, parsed.Values, jsonOutput)
	default:
		data, err = sortValues[int64](cfg, parsed.Values, jsonOutput)
	}
	if err != nil {
		jsonOutput.UpdateDuration(analysisStart)
		return jsonOutput, data, err
	}

	if outFile := cfg.GetOutputFile(); outFile != "" {
		if err := output.WriteValues(outFile, data.Values); err != nil {
			jsonOutput.AddError("write_output", err.Error(), 1)
		} else {
			jsonOutput.Sort.OutputFile = outFile
		}
	}

	if cfg.Static.PlotPath != "" {
		if err := output.PlotPassHeatmap(data.Histograms, cfg.Static.PlotPath); err != nil {
			jsonOutput.AddWarning("plot_error", fmt.Sprintf("failed to render heatmap: %v", err), 1)
		}
	}

	jsonOutput.UpdateDuration(analysisStart)
	return jsonOutput, data, nil
}

// sortValues narrows values to T, sorts the configured range and fills the
// sort, passes and verification sections of jsonOutput. On an invalid range
// the values are returned unsorted.
func sortValues[T constraints.Signed](cfg *config.Config, values []int64, jsonOutput *output.JSONOutput) (*SortedData, error) {
	data := intutils.Narrow[T](values)
	from, to := cfg.ResolveRange(len(data))

	if err := radix.CheckRange(len(data), from, to); err != nil {
		jsonOutput.AddError("invalid_range", err.Error(), 1)
		return &SortedData{Values: values}, fmt.Errorf("sort range: %w", err)
	}

	hists := radix.Histograms(data[from:to])

	var original []T
	if cfg.Static.Verify {
		original = slices.Clone(data)
	}

	sortStart := time.Now()
	if err := radix.SortRangeOf(data, from, to); err != nil {
		jsonOutput.AddError("sort_error", err.Error(), 1)
		return &SortedData{Values: values}, err
	}
	sortDuration := time.Since(sortStart)

	result := &output.SortResult{
		FromIndex:   from,
		ToIndex:     to,
		RangeLength: to - from,
		Passes:      radix.Passes[T](),
		DurationUS:  sortDuration.Microseconds(),
	}
	if to > from {
		lo, hi := int64(data[from]), int64(data[to-1])
		result.Min = &lo
		result.Max = &hi
	}
	jsonOutput.Sort = result
	jsonOutput.Passes = output.PassStatsFromHistograms(hists)

	for i := range hists {
		if hists[i].Trivial() && to-from > 1 {
			jsonOutput.AddWarning("trivial_pass",
				fmt.Sprintf("pass %d put every value into one bucket", hists[i].Pass), 1)
		}
	}

	if cfg.Static.Verify {
		report, err := verify.Check(original, data, from, to)
		if err != nil {
			jsonOutput.AddError("verify_error", err.Error(), 1)
		} else {
			jsonOutput.Verification = &output.Verification{
				Passed:              report.OK(),
				Sorted:              report.Sorted,
				Permutation:         report.Permutation,
				OutsideRange:        report.OutsideRange,
				MatchesRefSort:      report.MatchesRefSort,
				ReferenceDurationUS: report.ReferenceDuration.Microseconds(),
				Failures:            report.Failures(),
			}
			if !report.OK() {
				jsonOutput.AddError("verification_failed", fmt.Sprintf("%v", report.Failures()), len(report.Failures()))
			}
		}
	}

	return &SortedData{
		Values:     intutils.Widen(data),
		Histograms: hists,
	}, nil
}
