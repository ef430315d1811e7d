// Package report renders a standalone HTML summary of a parameterization
// run: parameter distributions and the length/width plane, for a quick look
// at cleaning quality without the full analysis chain.
package report

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	sqlite "github.com/Yun532/pylast/internal/storage/sqlite"
)

const histogramBins = 20

// Write renders the run report as a single HTML page.
func Write(w io.Writer, runID string, recs []*sqlite.TelescopeRecord) error {
	if len(recs) == 0 {
		return fmt.Errorf("report for run %s: no records", runID)
	}

	var intensities, lengths, widths []float64
	var lwPoints []opts.ScatterData
	var maxIntensity float64
	for _, rec := range recs {
		h := rec.Parameters.Hillas
		if !math.IsNaN(h.Intensity) {
			intensities = append(intensities, h.Intensity)
			if h.Intensity > maxIntensity {
				maxIntensity = h.Intensity
			}
		}
		if !math.IsNaN(h.Length) {
			lengths = append(lengths, h.Length)
		}
		if !math.IsNaN(h.Width) {
			widths = append(widths, h.Width)
		}
		if !math.IsNaN(h.Length) && !math.IsNaN(h.Width) && !math.IsNaN(h.Intensity) {
			lwPoints = append(lwPoints, opts.ScatterData{
				Value: []interface{}{h.Length, h.Width, h.Intensity},
			})
		}
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Run %s", runID)
	page.AddCharts(
		histogram("Hillas intensity", "p.e.", intensities),
		histogram("Hillas length", "m", lengths),
		histogram("Hillas width", "m", widths),
		lengthWidthScatter(lwPoints, maxIntensity),
	)
	return page.Render(w)
}

// WriteFile renders the run report to an HTML file.
func WriteFile(path, runID string, recs []*sqlite.TelescopeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()
	if err := Write(f, runID, recs); err != nil {
		return err
	}
	return f.Close()
}

func histogram(title, unit string, values []float64) *charts.Bar {
	labels, counts := binValues(values, histogramBins)

	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		data[i] = opts.BarData{Value: c}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d images", len(values)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: unit}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries(title, data)
	return bar
}

func lengthWidthScatter(points []opts.ScatterData, maxIntensity float64) *charts.Scatter {
	if maxIntensity == 0 {
		maxIntensity = 1
	}
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Length vs width"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "length (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "width (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxIntensity),
			Dimension:  "2",
			InRange: &opts.VisualMapInRange{
				Color: []string{"#440154", "#31688e", "#35b779", "#fde725"},
			},
		}),
	)
	scatter.AddSeries("images", points, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	return scatter
}

// binValues buckets values into equal-width bins and returns the bin center
// labels alongside the counts. All-equal input collapses to one bin.
func binValues(values []float64, bins int) ([]string, []int) {
	if len(values) == 0 {
		return []string{}, []int{}
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if min == max {
		return []string{fmt.Sprintf("%.3g", min)}, []int{len(values)}
	}

	width := (max - min) / float64(bins)
	counts := make([]int, bins)
	for _, v := range values {
		i := int((v - min) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	labels := make([]string, bins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%.3g", min+(float64(i)+0.5)*width)
	}
	return labels, counts
}
