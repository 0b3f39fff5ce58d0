// Package plot renders an HTML report of a mining run with go-echarts.
package plot

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/seqfang/pkg/report"
)

const (
	chartWidth       = "100%"
	chartHeight      = "500px"
	emptyChartHeight = "400px"
	xAxisRotate      = 45
	pageTitle        = "seqfang patterns"

	colorCount   = "#5470c6"
	colorSupport = "#91cc75"
)

// Summary carries the run figures shown in chart subtitles.
type Summary struct {
	Sequences     int
	MinSupportAbs int
	Patterns      int
	Algorithm     string
}

// Render writes a page with a per-length bar chart and a top-support chart
// built from h.
func Render(w io.Writer, h *report.Histogram, sum Summary) error {
	page := components.NewPage()
	page.PageTitle = pageTitle
	page.AddCharts(lengthChart(h.Buckets(), sum), topChart(h.Top(), sum))

	err := page.Render(w)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}

// WriteFile renders the page into path.
func WriteFile(path string, h *report.Histogram, sum Summary) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot %s: %w", path, err)
	}

	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close plot %s: %w", path, closeErr)
		}
	}()

	return Render(f, h, sum)
}

func lengthChart(buckets []report.LengthBucket, sum Summary) *charts.Bar {
	subtitle := fmt.Sprintf("%d patterns from %d sequences, min support %d (%s)",
		sum.Patterns, sum.Sequences, sum.MinSupportAbs, sum.Algorithm)

	if len(buckets) == 0 {
		return emptyChart("Patterns per length")
	}

	labels := make([]string, len(buckets))
	counts := make([]opts.BarData, len(buckets))
	maxSupports := make([]opts.BarData, len(buckets))

	for i, b := range buckets {
		labels[i] = strconv.Itoa(b.Length)
		counts[i] = opts.BarData{Value: b.Count}
		maxSupports[i] = opts.BarData{Value: b.MaxSupport}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Patterns per length", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "items"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "patterns"}),
	)

	bar.SetXAxis(labels).
		AddSeries("patterns", counts, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorCount})).
		AddSeries("max support", maxSupports, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorSupport}))

	return bar
}

func topChart(top []report.Pattern, sum Summary) *charts.Bar {
	if len(top) == 0 {
		return emptyChart("Top patterns by support")
	}

	labels := make([]string, len(top))
	supports := make([]opts.BarData, len(top))

	for i, p := range top {
		labels[i] = p.String()
		supports[i] = opts.BarData{Value: p.Support}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Top patterns by support",
			Subtitle: fmt.Sprintf("threshold %d of %d sequences", sum.MinSupportAbs, sum.Sequences),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "support"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)

	bar.SetXAxis(labels).
		AddSeries("support", supports, charts.WithItemStyleOpts(opts.ItemStyle{Color: colorSupport}))

	return bar
}

func emptyChart(title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: emptyChartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "No data"}),
	)

	return bar
}
