package output

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ChristianF88/lsdsort/version"
)

// JSONOutput represents the complete sort run output structure
type JSONOutput struct {
	Metadata     Metadata      `json:"metadata"`
	General      General       `json:"general"`
	Sort         *SortResult   `json:"sort,omitempty"`
	Passes       []PassStats   `json:"passes,omitempty"`
	Verification *Verification `json:"verification,omitempty"`
	LiveStats    *LiveStats    `json:"live_stats,omitempty"`
	Warnings     []Warning     `json:"warnings"`
	Errors       []Error       `json:"errors"`

	// Mutex for thread-safe warning/error appending
	mu sync.Mutex `json:"-"`
}

// Metadata contains information about the run
type Metadata struct {
	GeneratedAt  time.Time `json:"generated_at"`
	AnalysisType string    `json:"analysis_type"`
	Version      string    `json:"version"`
	DurationMS   int64     `json:"duration_ms"`
}

// General contains input statistics
type General struct {
	InputFile   string  `json:"input_file,omitempty"`
	Width       int     `json:"width"`
	TotalValues int     `json:"total_values"`
	Parsing     Parsing `json:"parsing"`
}

// Parsing contains parsing performance metrics
type Parsing struct {
	DurationMS    int64 `json:"duration_ms"`
	RatePerSecond int64 `json:"rate_per_second"`
	Lines         int   `json:"lines"`
	SkippedLines  int   `json:"skipped_lines,omitempty"`
}

// SortResult describes the sorted range
type SortResult struct {
	FromIndex   int    `json:"from_index"`
	ToIndex     int    `json:"to_index"`
	RangeLength int    `json:"range_length"`
	Passes      int    `json:"passes"`
	DurationUS  int64  `json:"duration_us"`
	Min         *int64 `json:"min,omitempty"`
	Max         *int64 `json:"max,omitempty"`
	OutputFile  string `json:"output_file,omitempty"`
}

// PassStats summarizes the bucket distribution of one counting sort pass
type PassStats struct {
	Pass            int  `json:"pass"`
	Shift           uint `json:"shift"`
	Signed          bool `json:"signed"`
	OccupiedBuckets int  `json:"occupied_buckets"`
	Trivial         bool `json:"trivial"`
	LargestBucket   int  `json:"largest_bucket"`
	LargestCount    int  `json:"largest_count"`
}

// Verification contains the comparison against a reference sort
type Verification struct {
	Passed              bool     `json:"passed"`
	Sorted              bool     `json:"sorted"`
	Permutation         bool     `json:"permutation"`
	OutsideRange        bool     `json:"outside_range_unchanged"`
	MatchesRefSort      bool     `json:"matches_reference_sort"`
	ReferenceDurationUS int64    `json:"reference_duration_us"`
	Failures            []string `json:"failures,omitempty"`
}

// LiveStats contains statistics for live mode
type LiveStats struct {
	WindowSize     int             `json:"window_size"`
	DistinctValues int             `json:"distinct_values"`
	ProcessedBatch int             `json:"processed_batch"`
	SkippedEvents  int             `json:"skipped_events,omitempty"`
	LoopDurationMS int64           `json:"loop_duration_ms"`
	SortDurationUS int64           `json:"sort_duration_us"`
	Passes         int             `json:"passes"`
	Min            *int64          `json:"min,omitempty"`
	Max            *int64          `json:"max,omitempty"`
	Quantiles      []QuantileValue `json:"quantiles,omitempty"`
}

// QuantileValue is one nearest-rank quantile of the live window
type QuantileValue struct {
	Q     float64 `json:"q"`
	Value int64   `json:"value"`
}

// Warning represents a warning message
type Warning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// Error represents an error message
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Count   int    `json:"count,omitempty"`
}

// NewJSONOutput creates a new JSONOutput with default metadata
func NewJSONOutput(analysisType string, startTime time.Time) *JSONOutput {
	return &JSONOutput{
		Metadata: Metadata{
			GeneratedAt:  time.Now().UTC(),
			AnalysisType: analysisType,
			Version:      version.Version,
			DurationMS:   time.Since(startTime).Milliseconds(),
		},
		Warnings: []Warning{},
		Errors:   []Error{},
	}
}

// ToJSON converts the output to pretty-printed JSON
func (j *JSONOutput) ToJSON() ([]byte, error) {
	return json.MarshalIndent(j, "", "  ")
}

// ToCompactJSON converts the output to compact JSON
func (j *JSONOutput) ToCompactJSON() ([]byte, error) {
	return json.Marshal(j)
}

// AddWarning adds a warning to the output (thread-safe)
func (j *JSONOutput) AddWarning(warningType, message string, count int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Warnings = append(j.Warnings, Warning{
		Type:    warningType,
		Message: message,
		Count:   count,
	})
}

// AddError adds an error to the output (thread-safe)
func (j *JSONOutput) AddError(errorType, message string, count int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Errors = append(j.Errors, Error{
		Type:    errorType,
		Message: message,
		Count:   count,
	})
}

// HasErrors reports whether any error was recorded (thread-safe)
func (j *JSONOutput) HasErrors() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.Errors) > 0
}

// UpdateDuration updates the duration in metadata
func (j *JSONOutput) UpdateDuration(startTime time.Time) {
	j.Metadata.DurationMS = time.Since(startTime).Milliseconds()
}
