package cli

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ChristianF88/lsdsort/analysis"
	"github.com/ChristianF88/lsdsort/config"
	"github.com/ChristianF88/lsdsort/ingestor"
	"github.com/ChristianF88/lsdsort/output"
	"github.com/ChristianF88/lsdsort/pools"
	"github.com/ChristianF88/lsdsort/sliding"
	"github.com/ChristianF88/lsdsort/tui"
)

// OutputConfig contains output formatting options
type OutputConfig struct {
	Compact bool
	Plain   bool
	TUI     bool
}

// Static sorts a range of the integers in inputFile. A nil to sorts to the
// end of the input.
func Static(inputFile string, width, from int, to *int, outputFile, plotPath string, verify bool, outputConfig OutputConfig) error {
	cfg := createConfigFromCLI(inputFile, width, from, to, outputFile, plotPath, verify)
	return executeStaticAnalysis(cfg, outputConfig)
}

// StaticFromConfig runs a static sort from a config file
func StaticFromConfig(cfg *config.Config, compact, plain, tui bool) error {
	outputConfig := OutputConfig{
		Compact: compact,
		Plain:   plain,
		TUI:     tui,
	}
	return executeStaticAnalysis(cfg, outputConfig)
}

// Live runs live mode
func Live(port string, width int, windowMaxTime time.Duration, windowMaxSize int, sleepBetweenIterations int, quantiles []float64, outputConfig OutputConfig) {
	cfg := createLiveConfigFromCLI(port, width, windowMaxTime, windowMaxSize, sleepBetweenIterations, quantiles)
	executeLiveAnalysis(cfg, outputConfig)
}

// LiveFromConfig runs live mode from a config file
func LiveFromConfig(cfg *config.Config, outputConfig OutputConfig) {
	executeLiveAnalysis(cfg, outputConfig)
}

// executeStaticAnalysis handles all static runs, CLI or config file.
// The output document is printed even when the run failed.
func executeStaticAnalysis(cfg *config.Config, outputConfig OutputConfig) error {
	if outputConfig.TUI {
		return executeTUI(cfg)
	}

	result, _, err := analysis.StaticFromConfigWithValues(cfg)
	outputResult(result, outputConfig)
	return err
}

// executeTUI sorts in the background and hands the result to the TUI
func executeTUI(cfg *config.Config) error {
	app := tui.NewAppFromConfig(cfg)

	go func() {
		result, sorted, err := analysis.StaticFromConfigWithValues(cfg)
		if err != nil {
			app.ShowError(fmt.Sprintf("Sort failed: %v", err))
			return
		}
		if result == nil {
			app.ShowError("Sort completed but returned no results")
			return
		}
		app.SetAnalysisResults(result, sorted)
	}()

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// createConfigFromCLI creates a config.Config from CLI parameters for static mode
func createConfigFromCLI(inputFile string, width, from int, to *int, outputFile, plotPath string, verify bool) *config.Config {
	cfg := config.NewStaticConfig(inputFile)
	cfg.Global.Width = width
	cfg.Global.OutputFile = outputFile
	cfg.Static.FromIndex = from
	cfg.Static.ToIndex = to
	cfg.Static.PlotPath = plotPath
	cfg.Static.Verify = verify
	return cfg
}

// createLiveConfigFromCLI creates a config.Config from CLI parameters for live mode
func createLiveConfigFromCLI(port string, width int, windowMaxTime time.Duration, windowMaxSize int, sleepBetweenIterations int, quantiles []float64) *config.Config {
	cfg := config.NewLiveConfig(port)
	cfg.Global.Width = width
	cfg.Live.WindowMaxTime = windowMaxTime
	cfg.Live.WindowMaxSize = windowMaxSize
	cfg.Live.SleepBetweenIterations = sleepBetweenIterations
	if len(quantiles) > 0 {
		cfg.Live.Quantiles = quantiles
	}
	return cfg
}

// liveState is what the live loop keeps between iterations
type liveState struct {
	window    *sliding.SlidingWindow
	snapshots *pools.Int64SlicePool
	quantiles []float64
	bits      int
}

func newLiveState(cfg *config.Config) *liveState {
	return &liveState{
		window:    sliding.NewSlidingWindow(cfg.Live.WindowMaxTime, cfg.Live.WindowMaxSize),
		snapshots: pools.NewInt64SlicePool(),
		quantiles: cfg.Live.Quantiles,
		bits:      cfg.GetWidth(),
	}
}

// process pushes one batch into the window and reports the sorted window
func (s *liveState) process(values []int64, skipped int, now time.Time, jsonOutput *output.JSONOutput) {
	timed := make([]sliding.TimedValue, len(values))
	for i, v := range values {
		timed[i] = sliding.TimedValue{Value: v, Time: now}
	}
	s.window.InsertNew(timed)
	s.window.DropOldAt(now)

	if skipped > 0 {
		jsonOutput.AddWarning("skipped_events", fmt.Sprintf("%d events held no valid integer", skipped), skipped)
	}

	buf := s.snapshots.Get(s.window.Len())
	sortStart := time.Now()
	sorted := s.window.SortedInto(buf, s.bits)
	sortDuration := time.Since(sortStart)

	stats := &output.LiveStats{
		WindowSize:     len(sorted),
		DistinctValues: s.window.Distinct(),
		ProcessedBatch: len(values),
		SkippedEvents:  skipped,
		SortDurationUS: sortDuration.Microseconds(),
		Passes:         s.bits / 8,
	}
	if len(sorted) > 0 {
		lo, hi := sorted[0], sorted[len(sorted)-1]
		stats.Min = &lo
		stats.Max = &hi
		for _, q := range s.quantiles {
			if v, ok := sliding.Quantile(sorted, q); ok {
				stats.Quantiles = append(stats.Quantiles, output.QuantileValue{Q: q, Value: v})
			}
		}
	}
	s.snapshots.Put(sorted)

	jsonOutput.LiveStats = stats
}

// executeLiveAnalysis runs live mode, works for both CLI and config file inputs
func executeLiveAnalysis(cfg *config.Config, outputConfig OutputConfig) {
	state := newLiveState(cfg)

	ing, err := ingestor.NewTCPIngestor(
		":"+cfg.Live.Port,
		5*time.Second, // read timeout: avoid client disconnects
		cfg.GetWidth(),
	)
	if err != nil {
		log.Fatalf("Error creating ingestor: %v", err)
	}

	initOutput := output.NewJSONOutput("live", time.Now())
	initOutput.AddWarning("info", "Waiting for a lumberjack client to connect...", 0)
	outputResult(initOutput, outputConfig)

	if err := ing.Accept(); err != nil {
		log.Fatalf("Error accepting connection: %v", err)
	}

	connectedOutput := output.NewJSONOutput("live", time.Now())
	connectedOutput.AddWarning("info", "Client connected", 0)
	outputResult(connectedOutput, outputConfig)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		shutdownOutput := output.NewJSONOutput("live", time.Now())
		shutdownOutput.AddWarning("info", "Received shutdown signal...", 0)
		outputResult(shutdownOutput, outputConfig)
		ing.Close()
	}()

	for {
		loopStart := time.Now()
		jsonOutput := output.NewJSONOutput("live", loopStart)

		values, skipped, err := ing.ReadBatch()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			jsonOutput.AddError("read_batch", fmt.Sprintf("read error: %v", err), 1)
			outputResult(jsonOutput, outputConfig)
			break
		}

		if len(values) == 0 && skipped == 0 {
			if ing.IsClosed() {
				jsonOutput.AddWarning("info", "Ingestor closed. Exiting loop.", 0)
				outputResult(jsonOutput, outputConfig)
				break
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}

		state.process(values, skipped, loopStart, jsonOutput)
		jsonOutput.General.Width = cfg.GetWidth()
		jsonOutput.General.TotalValues = jsonOutput.LiveStats.WindowSize
		jsonOutput.LiveStats.LoopDurationMS = time.Since(loopStart).Milliseconds()

		jsonOutput.UpdateDuration(loopStart)
		outputResult(jsonOutput, outputConfig)

		time.Sleep(time.Duration(cfg.Live.SleepBetweenIterations) * time.Second)
	}
}

// outputResult is the unified output function that handles all output formats
func outputResult(jsonOutput *output.JSONOutput, outputConfig OutputConfig) {
	if jsonOutput == nil {
		return
	}
	if outputConfig.Plain {
		outputPlain(jsonOutput)
		return
	}

	var jsonBytes []byte
	var err error

	if outputConfig.Compact {
		jsonBytes, err = jsonOutput.ToCompactJSON()
	} else {
		jsonBytes, err = jsonOutput.ToJSON()
	}

	if err != nil {
		fmt.Printf(`{"error": "failed to marshal JSON output: %v"}`, err)
		return
	}
	fmt.Println(string(jsonBytes))
}

const (
	doubleRule = "═══════════════════════════════════════════════════════════════════════════════"
	singleRule = "───────────────────────────────────────────────────────────────────────────────"
)

// outputPlain formats the JSON output as human-readable plain text
func outputPlain(jsonOutput *output.JSONOutput) {
	fmt.Print(formatPlain(jsonOutput))
}

func formatPlain(jsonOutput *output.JSONOutput) string {
	var sb strings.Builder
	p := func(format string, args ...any) {
		sb.WriteString(fmt.Sprintf(format, args...))
	}

	p("%s\n", doubleRule)
	p("                               lsdsort Results\n")
	p("%s\n\n", doubleRule)

	p("OVERVIEW\n%s\n", singleRule)
	if jsonOutput.General.InputFile != "" {
		p("Input File:      %s\n", jsonOutput.General.InputFile)
	}
	p("Run Type:        %s\n", jsonOutput.Metadata.AnalysisType)
	p("Width:           %d bit\n", jsonOutput.General.Width)
	p("Generated:       %s\n", jsonOutput.Metadata.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	p("Duration:        %d ms\n\n", jsonOutput.Metadata.DurationMS)

	if jsonOutput.Metadata.AnalysisType == "static" {
		p("PARSING\n%s\n", singleRule)
		p("Total Values:    %s\n", output.FormatNumber(jsonOutput.General.TotalValues))
		p("Lines:           %s\n", output.FormatNumber(jsonOutput.General.Parsing.Lines))
		p("Skipped Lines:   %s\n", output.FormatNumber(jsonOutput.General.Parsing.SkippedLines))
		p("Parse Time:      %d ms\n", jsonOutput.General.Parsing.DurationMS)
		p("Parse Rate:      %s values/sec\n\n", output.FormatNumber(int(jsonOutput.General.Parsing.RatePerSecond)))
	}

	if s := jsonOutput.Sort; s != nil {
		p("SORT\n%s\n", singleRule)
		p("Range:           [%d, %d) %s values\n", s.FromIndex, s.ToIndex, output.FormatNumber(s.RangeLength))
		p("Passes:          %d\n", s.Passes)
		p("Sort Time:       %d μs\n", s.DurationUS)
		if s.Min != nil && s.Max != nil {
			p("Min / Max:       %d / %d\n", *s.Min, *s.Max)
		}
		if s.OutputFile != "" {
			p("Written To:      %s\n", s.OutputFile)
		}
		p("\n")
	}

	if len(jsonOutput.Passes) > 0 {
		p("PASSES\n%s\n", singleRule)
		for _, ps := range jsonOutput.Passes {
			kind := ""
			if ps.Signed {
				kind = " signed"
			}
			note := ""
			if ps.Trivial {
				note = "  (single bucket)"
			}
			p("  Pass %d%-7s  bits %2d-%-2d  %3d/256 buckets  largest %3d: %s%s\n",
				ps.Pass, kind, ps.Shift, ps.Shift+7, ps.OccupiedBuckets, ps.LargestBucket,
				output.FormatNumber(ps.LargestCount), note)
		}
		p("\n")
	}

	if v := jsonOutput.Verification; v != nil {
		p("VERIFICATION\n%s\n", singleRule)
		if v.Passed {
			p("Result:          passed (reference sort %d μs)\n\n", v.ReferenceDurationUS)
		} else {
			p("Result:          FAILED\n")
			for _, f := range v.Failures {
				p("  • %s\n", f)
			}
			p("\n")
		}
	}

	if ls := jsonOutput.LiveStats; ls != nil {
		p("LIVE WINDOW\n%s\n", singleRule)
		p("Window Size:     %s (%s distinct)\n", output.FormatNumber(ls.WindowSize), output.FormatNumber(ls.DistinctValues))
		p("Batch:           %s values, %d skipped events\n", output.FormatNumber(ls.ProcessedBatch), ls.SkippedEvents)
		p("Sort Time:       %d μs (%d passes)\n", ls.SortDurationUS, ls.Passes)
		if ls.Min != nil && ls.Max != nil {
			p("Min / Max:       %d / %d\n", *ls.Min, *ls.Max)
		}
		for _, q := range ls.Quantiles {
			p("  q%-6g        %d\n", q.Q, q.Value)
		}
		p("\n")
	}

	if len(jsonOutput.Warnings) > 0 || len(jsonOutput.Errors) > 0 {
		p("DIAGNOSTICS\n%s\n", singleRule)
		if len(jsonOutput.Warnings) > 0 {
			p("Warnings:\n")
			for _, warning := range jsonOutput.Warnings {
				p("  • %s\n", warning.Message)
			}
		}
		if len(jsonOutput.Errors) > 0 {
			p("Errors:\n")
			for _, e := range jsonOutput.Errors {
				p("  • %s\n", e.Message)
			}
		}
	}

	return sb.String()
}
