package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ChristianF88/lsdsort/output"
	"github.com/ChristianF88/lsdsort/radix"
	"github.com/rivo/tview"
)

// VisualizationView shows the bucket distribution of the counting sort passes.
// The overview has one row per pass, the detail grid shows all 256 buckets
// of the selected pass as 16x16 cells.
type VisualizationView struct {
	view        *tview.TextView
	hists       []radix.Histogram
	currentPass int
	cache       *VisualizationCache

	mu sync.Mutex
}

// NewVisualizationView creates a new visualization view
func (a *App) NewVisualizationView() *VisualizationView {
	v := &VisualizationView{
		cache: NewVisualizationCache(),
	}

	v.view = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	v.view.SetBorder(true).SetTitle(" Radix Pass Buckets ").SetTitleAlign(tview.AlignCenter)

	return v
}

// GetView returns the underlying text view
func (v *VisualizationView) GetView() *tview.TextView {
	return v.view
}

// SetHistograms replaces the displayed histograms
func (v *VisualizationView) SetHistograms(hists []radix.Histogram) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hists = hists
	v.currentPass = 0
	v.cache.Clear()
}

// CurrentPass returns the index of the selected pass
func (v *VisualizationView) CurrentPass() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.currentPass
}

// TotalPasses returns the number of passes available
func (v *VisualizationView) TotalPasses() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.hists)
}

// NextPass selects the next pass
func (v *VisualizationView) NextPass() {
	v.mu.Lock()
	if len(v.hists) > 0 {
		v.currentPass = (v.currentPass + 1) % len(v.hists)
	}
	v.mu.Unlock()
	v.Render()
}

// PrevPass selects the previous pass
func (v *VisualizationView) PrevPass() {
	v.mu.Lock()
	if len(v.hists) > 0 {
		v.currentPass = (v.currentPass - 1 + len(v.hists)) % len(v.hists)
	}
	v.mu.Unlock()
	v.Render()
}

// Render draws the current pass into the view
func (v *VisualizationView) Render() {
	v.view.SetText(v.renderText())
	v.view.ScrollToBeginning()
}

func (v *VisualizationView) renderText() string {
	v.mu.Lock()
	defer v.mu.Unlock()

	if len(v.hists) == 0 {
		return "[dim]No histograms available[white]"
	}
	pass := v.currentPass
	return v.cache.Get(pass, func() string {
		var content strings.Builder
		renderOverview(&content, v.hists, pass)
		content.WriteString("\n")
		renderBucketGrid(&content, &v.hists[pass])
		renderLegend(&content)
		return content.String()
	})
}

// renderOverview draws one row per pass, each cell covering 4 buckets
func renderOverview(content *strings.Builder, hists []radix.Histogram, selected int) {
	const cellBuckets = 4

	content.WriteString("[white::b]All passes[white::-] (one cell = 4 buckets)\n")
	for p := range hists {
		h := &hists[p]
		var maxCell int
		cells := make([]int, 256/cellBuckets)
		for b, c := range h.Counts {
			cells[b/cellBuckets] += c
		}
		for _, c := range cells {
			if c > maxCell {
				maxCell = c
			}
		}

		marker := "  "
		if p == selected {
			marker = "[yellow]▶[white] "
		}
		content.WriteString(fmt.Sprintf("%s%-18s│", marker, passTitle(h)))
		for _, c := range cells {
			content.WriteString(cellText(c, maxCell, 1))
		}
		content.WriteString("│\n")
	}
}

// renderBucketGrid draws the 256 buckets of one pass as a 16x16 grid,
// high nibble on the vertical axis
func renderBucketGrid(content *strings.Builder, h *radix.Histogram) {
	maxCount := 0
	for _, c := range h.Counts {
		if c > maxCount {
			maxCount = c
		}
	}

	content.WriteString(fmt.Sprintf("[white::b]%s[white::-]  occupied %d/256, %s values\n\n",
		passTitle(h), h.Occupied(), output.FormatNumber(h.Total())))
	content.WriteString("     ")
	for lo := 0; lo < 16; lo++ {
		content.WriteString(fmt.Sprintf(" %X ", lo))
	}
	content.WriteString("\n")
	for hi := 0; hi < 16; hi++ {
		content.WriteString(fmt.Sprintf("  %X_│", hi))
		for lo := 0; lo < 16; lo++ {
			content.WriteString(cellText(h.Counts[hi<<4|lo], maxCount, 3))
		}
		content.WriteString("│\n")
	}
	if h.Signed {
		content.WriteString("\n[dim]Sign corrected: buckets 00-7F hold negative values[white]\n")
	}
}

func renderLegend(content *strings.Builder) {
	content.WriteString("\n[dim]Bucket fill (10% steps of the fullest bucket):[white]\n")
	for _, step := range []float64{0, 0.05, 0.15, 0.25, 0.35, 0.45, 0.55, 0.65, 0.75, 0.85, 0.95} {
		color, char := getBucketColorAndChar(step)
		content.WriteString(fmt.Sprintf("[%s]%s%s[white] ", color, char, char))
	}
	content.WriteString("\n")
}

func passTitle(h *radix.Histogram) string {
	if h.Signed {
		return fmt.Sprintf("Pass %d (signed)", h.Pass)
	}
	return fmt.Sprintf("Pass %d", h.Pass)
}

func cellText(count, maxCount, width int) string {
	intensity := 0.0
	if maxCount > 0 {
		intensity = float64(count) / float64(maxCount)
	}
	color, char := getBucketColorAndChar(intensity)
	return fmt.Sprintf("[%s]%s[white]", color, strings.Repeat(char, width))
}

// getBucketColorAndChar returns color and character for a bucket fill level
func getBucketColorAndChar(intensity float64) (string, string) {
	switch {
	case intensity >= 0.9:
		return "white", "█"
	case intensity >= 0.8:
		return "#E0E0E0", "█"
	case intensity >= 0.7:
		return "#C0C0C0", "█"
	case intensity >= 0.6:
		return "#A0A0A0", "█"
	case intensity >= 0.5:
		return "#808080", "█"
	case intensity >= 0.4:
		return "#606060", "█"
	case intensity >= 0.3:
		return "#505050", "█"
	case intensity >= 0.2:
		return "#404040", "█"
	case intensity >= 0.1:
		return "#303030", "█"
	case intensity > 0:
		return "#202020", "█"
	default:
		return "black", "█"
	}
}
