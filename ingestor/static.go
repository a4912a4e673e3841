package ingestor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ChristianF88/lsdsort/intutils"
)

// maxLineSize bounds a single input line. Inputs with every value on one
// line are common, so the scanner default of 64KB is too small.
const maxLineSize = 64 << 20

// maxReportedErrors caps how many parse errors are kept for reporting
const maxReportedErrors = 10

// StaticResult holds the integers read from a file plus parsing statistics
type StaticResult struct {
	Values       []int64
	Lines        int
	SkippedLines int
	Errors       []string // first maxReportedErrors parse errors
	Duration     time.Duration
}

// ParseIntFile reads all integers from path. Values must fit into bits.
func ParseIntFile(path string, bits int) (*StaticResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseInts(f, bits)
}

// ParseInts reads integers separated by whitespace or commas from r.
// Lines holding an invalid or out-of-range token are skipped as a whole
// and counted in SkippedLines.
func ParseInts(r io.Reader, bits int) (*StaticResult, error) {
	if !intutils.IsValidWidth(bits) {
		return nil, fmt.Errorf("unsupported width %d", bits)
	}

	start := time.Now()
	result := &StaticResult{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		result.Lines++
		values, err := intutils.ParseLine(scanner.Text(), bits)
		if err != nil {
			result.SkippedLines++
			if len(result.Errors) < maxReportedErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", result.Lines, err))
			}
			continue
		}
		result.Values = append(result.Values, values...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}
