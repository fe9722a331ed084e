package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// WriteChart renders the steps to capture of every trial as an HTML line chart.
func (w *Writer) WriteChart(title string, records []TrialRecord) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "steps per trial",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	trials := make([]string, 0, len(records))
	steps := make([]opts.LineData, 0, len(records))
	captured := make([]opts.LineData, 0, len(records))
	for _, record := range records {
		trials = append(trials, strconv.Itoa(record.Trial))
		steps = append(steps, opts.LineData{Value: record.Steps})
		if record.Captured {
			captured = append(captured, opts.LineData{Value: 1})
		} else {
			captured = append(captured, opts.LineData{Value: 0})
		}
	}

	line.SetXAxis(trials).
		AddSeries("steps", steps).
		AddSeries("captured", captured)

	page := components.NewPage()
	page.AddCharts(line)

	f, err := os.Create(filepath.Join(w.baseDir, "chart.html"))
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
