package tui

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ChristianF88/lsdsort/analysis"
	"github.com/ChristianF88/lsdsort/config"
	"github.com/ChristianF88/lsdsort/output"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// previewCount is the number of values shown from each end of the sorted range
const previewCount = 100

// App represents the TUI application
type App struct {
	app               *tview.Application
	pages             *tview.Pages
	progressView      *tview.TextView
	resultsView       *tview.Flex
	visualizationView *VisualizationView
	statusBar         *tview.TextView

	// Results panels
	summary        *tview.TextView
	preview        *tview.TextView
	passes         *tview.TextView
	diagnostics    *tview.TextView
	focusableItems []tview.Primitive
	currentFocus   int

	cfg *config.Config

	// Shared mutable state protected by mu (accessed from background goroutines)
	mu         sync.Mutex
	jsonResult *output.JSONOutput
	sorted     *analysis.SortedData

	analysisComplete atomic.Bool
}

// NewApp creates a new TUI application for sorting inputFile with default settings
func NewApp(inputFile string, width int) *App {
	cfg := config.NewStaticConfig(inputFile)
	cfg.Global.Width = width
	return NewAppFromConfig(cfg)
}

// NewAppFromConfig creates a new TUI application from a config
func NewAppFromConfig(cfg *config.Config) *App {
	app := &App{
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
		cfg:   cfg,
	}
	app.visualizationView = app.NewVisualizationView()
	app.setupUI()
	return app
}

// SetAnalysisResults hands the finished static run to the UI
func (a *App) SetAnalysisResults(result *output.JSONOutput, sorted *analysis.SortedData) {
	if result == nil {
		return
	}

	a.mu.Lock()
	a.jsonResult = result
	a.sorted = sorted
	a.mu.Unlock()

	if sorted != nil {
		a.visualizationView.SetHistograms(sorted.Histograms)
	}

	a.analysisComplete.Store(true)

	a.app.QueueUpdateDraw(func() {
		a.displayResults()
		a.updateStatusBar()
		a.pages.SwitchToPage("results")
	})
}

// ShowError displays an error message in the TUI and stops the progress animation
func (a *App) ShowError(message string) {
	a.app.QueueUpdateDraw(func() {
		a.progressView.SetText(fmt.Sprintf("[red]Error:[white] %s\n\n[yellow]Press 'q' to quit[white]", message))
		a.statusBar.SetText("[red]Sort failed![white] | Press 'q' to quit")
		a.pages.SwitchToPage("progress")
	})
}

// setupUI initializes the user interface
func (a *App) setupUI() {
	a.progressView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false).
		SetWrap(false)
	a.progressView.SetBorder(true).SetTitle(" lsdsort Progress ").SetTitleAlign(tview.AlignCenter)

	a.resultsView = tview.NewFlex().SetDirection(tview.FlexRow)
	a.setupResultsView()

	a.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetText("[yellow]Sorting...[white] | Press 'q' to quit")
	a.statusBar.SetBorder(false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.progressView, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	results := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.resultsView, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	visualization := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.visualizationView.GetView(), 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.pages.AddPage("progress", main, true, true)
	a.pages.AddPage("results", results, true, false)
	a.pages.AddPage("visualization", visualization, true, false)

	a.app.SetInputCapture(a.handleKey)
	a.app.SetRoot(a.pages, true)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'q', 'Q':
		a.app.Stop()
		return nil
	case 'r', 'R':
		if a.analysisComplete.Load() {
			a.pages.SwitchToPage("results")
			a.updateStatusBar()
		}
		return nil
	case 'p', 'P':
		a.pages.SwitchToPage("progress")
		a.statusBar.SetText("[yellow]Progress[white] | 'r' for results, 'q' to quit")
		return nil
	case 'v', 'V':
		if a.analysisComplete.Load() {
			a.showVisualization()
		}
		return nil
	}

	frontPageName, _ := a.pages.GetFrontPage()
	if !a.analysisComplete.Load() {
		return event
	}

	switch frontPageName {
	case "results":
		switch event.Key() {
		case tcell.KeyTab:
			a.nextFocus()
			return nil
		case tcell.KeyBacktab:
			a.prevFocus()
			return nil
		case tcell.KeyDown:
			scrollBy(a.getFocusedItem(), 1)
			return nil
		case tcell.KeyUp:
			scrollBy(a.getFocusedItem(), -1)
			return nil
		case tcell.KeyPgDn:
			scrollBy(a.getFocusedItem(), 10)
			return nil
		case tcell.KeyPgUp:
			scrollBy(a.getFocusedItem(), -10)
			return nil
		}
	case "visualization":
		switch event.Key() {
		case tcell.KeyLeft:
			a.visualizationView.PrevPass()
			a.updateStatusBar()
			return nil
		case tcell.KeyRight:
			a.visualizationView.NextPass()
			a.updateStatusBar()
			return nil
		case tcell.KeyUp:
			scrollBy(a.visualizationView.GetView(), -1)
			return nil
		case tcell.KeyDown:
			scrollBy(a.visualizationView.GetView(), 1)
			return nil
		}
	}

	return event
}

func scrollBy(item tview.Primitive, rows int) {
	tv, ok := item.(*tview.TextView)
	if !ok {
		return
	}
	row, col := tv.GetScrollOffset()
	row += rows
	if row < 0 {
		row = 0
	}
	tv.ScrollTo(row, col)
}

// setupResultsView creates the results display layout
func (a *App) setupResultsView() {
	a.summary = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	a.summary.SetBorder(true).SetTitle(" Summary ").SetTitleAlign(tview.AlignLeft)

	a.preview = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.preview.SetBorder(true).SetTitle(" Sorted Range ").SetTitleAlign(tview.AlignLeft)

	a.passes = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.passes.SetBorder(true).SetTitle(" Passes ").SetTitleAlign(tview.AlignLeft)

	a.diagnostics = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.diagnostics.SetBorder(true).SetTitle(" Diagnostics ").SetTitleAlign(tview.AlignLeft)

	a.focusableItems = []tview.Primitive{a.preview, a.passes, a.diagnostics}
	a.currentFocus = 0
	a.updateFocusBorders()

	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.summary, 0, 1, false)

	bottomRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.preview, 0, 1, false).
		AddItem(a.passes, 0, 2, false).
		AddItem(a.diagnostics, 0, 1, false)

	a.resultsView.
		AddItem(topRow, 9, 0, false).
		AddItem(bottomRow, 0, 1, false)
}

// Run starts the TUI application
func (a *App) Run() error {
	go a.animateProgress()
	return a.app.Run()
}

// animateProgress shows a progress animation until results arrive
func (a *App) animateProgress() {
	stages := []string{
		"[yellow]▶[white] Reading input...",
		"[blue]▶[white] Counting bytes...",
		"[cyan]▶[white] Distributing buckets...",
		"[green]▶[white] Verifying result...",
	}

	inputFile := ""
	width := config.DefaultWidth
	if a.cfg != nil {
		width = a.cfg.GetWidth()
		if a.cfg.Static != nil {
			inputFile = a.cfg.Static.InputFile
		}
	}

	stageIndex := 0
	dots := 0
	for !a.analysisComplete.Load() {
		content := fmt.Sprintf(`
[white::b]lsdsort Radix Sort[white::-]

%s%s

[dim]Input file:[white] %s
[dim]Width:[white] %d bit (%d passes)

[dim]Press 'q' to quit[white]
`, stages[stageIndex%len(stages)], strings.Repeat(".", dots%4), inputFile, width, width/8)

		a.app.QueueUpdateDraw(func() {
			a.progressView.SetText(content)
		})

		time.Sleep(200 * time.Millisecond)
		dots++
		if dots%20 == 0 {
			stageIndex++
		}
	}
}

// displayResults fills all result panels
func (a *App) displayResults() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.jsonResult == nil {
		return
	}
	a.summary.SetText(buildSummaryText(a.jsonResult))
	a.preview.SetText(buildPreviewText(a.jsonResult, a.sorted))
	a.passes.SetText(buildPassesText(a.jsonResult))
	a.diagnostics.SetText(buildDiagnosticsText(a.jsonResult))
}

// buildSummaryText creates the summary text
func buildSummaryText(result *output.JSONOutput) string {
	var summaryText strings.Builder
	summaryText.WriteString("[white::b]Sort Summary[white::-]\n\n")

	summaryText.WriteString(fmt.Sprintf("[dim]Parse Rate:[white] %s values/sec  ",
		output.FormatNumber(int(result.General.Parsing.RatePerSecond))))
	summaryText.WriteString(fmt.Sprintf("[dim]Values Read:[white] %s  ",
		output.FormatNumber(result.General.TotalValues)))
	summaryText.WriteString(fmt.Sprintf("[dim]Parsing Time:[white] %dms\n",
		result.General.Parsing.DurationMS))
	summaryText.WriteString(fmt.Sprintf("[dim]Input File:[white] %s  [dim]Width:[white] %d bit\n\n",
		result.General.InputFile, result.General.Width))

	s := result.Sort
	if s == nil {
		summaryText.WriteString("[red]No sort result[white]")
		return summaryText.String()
	}

	summaryText.WriteString(fmt.Sprintf("[dim]Range:[white] [%s, %s) (%s values)  ",
		output.FormatNumber(s.FromIndex), output.FormatNumber(s.ToIndex), output.FormatNumber(s.RangeLength)))
	summaryText.WriteString(fmt.Sprintf("[dim]Passes:[white] %d  ", s.Passes))
	summaryText.WriteString(fmt.Sprintf("[dim]Sort Time:[white] %s", formatMicros(s.DurationUS)))
	if v := result.Verification; v != nil {
		if v.Passed {
			summaryText.WriteString(fmt.Sprintf("  [dim]Verified:[white] [green]✓[white] (reference %s)", formatMicros(v.ReferenceDurationUS)))
		} else {
			summaryText.WriteString("  [dim]Verified:[white] [red]✗[white]")
		}
	}
	return summaryText.String()
}

// formatMicros renders a duration given in microseconds
func formatMicros(us int64) string {
	switch {
	case us <= 0:
		return "<1μs"
	case us >= 1000:
		return fmt.Sprintf("%.1fms", float64(us)/1000.0)
	default:
		return fmt.Sprintf("%dμs", us)
	}
}

// buildPreviewText lists the head and tail of the sorted range
func buildPreviewText(result *output.JSONOutput, sorted *analysis.SortedData) string {
	var previewText strings.Builder
	previewText.WriteString("[white::b]Sorted Values[white::-]\n\n")

	if result.Sort == nil || sorted == nil {
		previewText.WriteString("[dim]Nothing sorted[white]")
		return previewText.String()
	}

	from, to := result.Sort.FromIndex, result.Sort.ToIndex
	if to > len(sorted.Values) {
		to = len(sorted.Values)
	}
	writeRow := func(i int) {
		previewText.WriteString(fmt.Sprintf("[dim]%10d[white] %d\n", i, sorted.Values[i]))
	}

	if to-from <= 2*previewCount {
		for i := from; i < to; i++ {
			writeRow(i)
		}
		return previewText.String()
	}

	for i := from; i < from+previewCount; i++ {
		writeRow(i)
	}
	previewText.WriteString(fmt.Sprintf("[dim]  ... %s more ...[white]\n", output.FormatNumber(to-from-2*previewCount)))
	for i := to - previewCount; i < to; i++ {
		writeRow(i)
	}
	return previewText.String()
}

// buildPassesText describes the bucket distribution of every pass
func buildPassesText(result *output.JSONOutput) string {
	var passText strings.Builder
	passText.WriteString("[white::b]Counting Sort Passes[white::-]\n\n")

	if len(result.Passes) == 0 {
		passText.WriteString("[dim]No passes recorded[white]")
		return passText.String()
	}

	for _, p := range result.Passes {
		kind := "unsigned"
		if p.Signed {
			kind = "[cyan]signed[white]"
		}
		passText.WriteString(fmt.Sprintf("[yellow]Pass %d[white] (bits %d-%d, %s)\n", p.Pass, p.Shift, p.Shift+7, kind))
		passText.WriteString(fmt.Sprintf("  Occupied buckets: %d/256\n", p.OccupiedBuckets))
		passText.WriteString(fmt.Sprintf("  Largest bucket:   %d (%s values)\n", p.LargestBucket, output.FormatNumber(p.LargestCount)))
		if p.Trivial {
			passText.WriteString("  [dim]single bucket, order unchanged[white]\n")
		}
		passText.WriteString("\n")
	}
	return passText.String()
}

// buildDiagnosticsText creates the diagnostics text
func buildDiagnosticsText(result *output.JSONOutput) string {
	var diagText strings.Builder
	diagText.WriteString("[white::b]Diagnostics[white::-]\n\n")

	if len(result.Warnings) > 0 {
		diagText.WriteString("[yellow]Warnings:[white]\n")
		for _, warning := range result.Warnings {
			diagText.WriteString(fmt.Sprintf("  • %s\n", warning.Message))
		}
		diagText.WriteString("\n")
	}

	if len(result.Errors) > 0 {
		diagText.WriteString("[red]Errors:[white]\n")
		for _, err := range result.Errors {
			diagText.WriteString(fmt.Sprintf("  • %s\n", err.Message))
		}
	} else if len(result.Warnings) == 0 {
		diagText.WriteString("[green]✓ No issues detected[white]")
	}

	return diagText.String()
}

// Navigation helper functions
func (a *App) nextFocus() {
	a.currentFocus = (a.currentFocus + 1) % len(a.focusableItems)
	a.updateFocusBorders()
	a.updateStatusBar()
}

func (a *App) prevFocus() {
	a.currentFocus = (a.currentFocus - 1 + len(a.focusableItems)) % len(a.focusableItems)
	a.updateFocusBorders()
	a.updateStatusBar()
}

func (a *App) getFocusedItem() tview.Primitive {
	if a.currentFocus >= 0 && a.currentFocus < len(a.focusableItems) {
		return a.focusableItems[a.currentFocus]
	}
	return nil
}

var panelNames = []string{"Sorted Range", "Passes", "Diagnostics"}

func (a *App) updateFocusBorders() {
	for i, item := range a.focusableItems {
		if tv, ok := item.(*tview.TextView); ok {
			if i == a.currentFocus {
				tv.SetBorderColor(tcell.ColorYellow).SetTitle(fmt.Sprintf(" [::b]%s[FOCUSED] ", panelNames[i]))
			} else {
				tv.SetBorderColor(tcell.ColorDefault).SetTitle(fmt.Sprintf(" %s ", panelNames[i]))
			}
		}
	}
}

func (a *App) updateStatusBar() {
	if !a.analysisComplete.Load() {
		a.statusBar.SetText("[yellow]Sorting...[white] | 'r' for results, 'q' to quit")
		return
	}

	frontPageName, _ := a.pages.GetFrontPage()
	switch frontPageName {
	case "visualization":
		a.statusBar.SetText(fmt.Sprintf("[green]Bucket view[white] | Pass %d/%d | ←→: change pass, ↑↓: scroll, 'r': results, 'q': quit",
			a.visualizationView.CurrentPass()+1, a.visualizationView.TotalPasses()))
	default:
		a.statusBar.SetText(fmt.Sprintf("[green]Sort complete![white] | [yellow]%s[white] focused | Tab/Shift+Tab: switch panels, ↑↓: scroll, 'v': buckets, 'p': progress, 'q': quit",
			panelNames[a.currentFocus]))
	}
}

// showVisualization switches to the bucket view
func (a *App) showVisualization() {
	a.visualizationView.Render()
	a.pages.SwitchToPage("visualization")
	a.updateStatusBar()
}
