package output

import (
	"fmt"
	"os"

	"github.com/ChristianF88/lsdsort/radix"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// PlotPassHeatmap creates an interactive heatmap of the bucket counts of
// every radix pass (x: bucket 0..255, y: pass)
func PlotPassHeatmap(hists []radix.Histogram, filename string) error {
	if len(hists) == 0 {
		return fmt.Errorf("no histograms to plot")
	}

	var heatmapData []opts.HeatMapData
	maxCount := 0
	passLabels := make([]string, len(hists))
	for p := range hists {
		h := &hists[p]
		passLabels[p] = passLabel(h)
		for b, count := range h.Counts {
			if count > maxCount {
				maxCount = count
			}
			if count > 0 {
				heatmapData = append(heatmapData, opts.HeatMapData{
					Value: [3]interface{}{b, p, count},
					Name:  fmt.Sprintf("%s bucket %d", passLabels[p], b), // tooltip {b}
				})
			}
		}
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(false),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Radix Pass Buckets",
			Width:           "180vh",
			Height:          "60vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Bucket Distribution per Radix Pass",
			Left:  "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "item",
			Formatter: opts.FuncOpts(`function (params) {
		return params.name + '<br />Count: ' + params.value[2];
	}`),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show: opts.Bool(true),
			Min:  0,
			Max:  float32(maxCount),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#ffff8f", "#ff0000", "#000000"},
			},
			Orient: "vertical",
			Right:  "5%",
			Top:    "middle",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:        "Bucket",
			Type:        "category",
			Data:        makeRange(0, 255),
			SplitNumber: 16,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "Pass",
			Type: "category",
			Data: passLabels,
		}),
	)

	heatmap.AddSeries("Buckets", heatmapData)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(heatmap)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create heatmap file %s: %w", filename, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("rendering heatmap: %w", err)
	}

	return nil
}

func passLabel(h *radix.Histogram) string {
	if h.Signed {
		return fmt.Sprintf("pass %d (signed)", h.Pass)
	}
	return fmt.Sprintf("pass %d", h.Pass)
}

// makeRange creates an integer slice [lo..hi]
func makeRange(lo, hi int) []int {
	r := make([]int, hi-lo+1)
	for i := range r {
		r[i] = lo + i
	}
	return r
}
