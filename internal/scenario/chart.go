package scenario

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const chartLineWidth = 2

// RenderChart writes an HTML step chart of free capacity over time. The
// unbounded final entry is drawn as one extra point at its start tick.
func RenderChart(w io.Writer, title string, report *Report) error {
	labels, points := buildChartData(report)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("scenario %q, %s domain", report.Scenario, report.Domain),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (tick)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Free capacity"}),
	)
	line.SetXAxis(labels)
	line.AddSeries("Free capacity", points,
		charts.WithLineChartOpts(opts.LineChart{Step: "start"}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: chartLineWidth}),
	)

	err := line.Render(w)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	return nil
}

// WriteChartFile renders the capacity chart into an HTML file.
func WriteChartFile(path, title string, report *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer file.Close()

	return RenderChart(file, title, report)
}

// buildChartData flattens the final timeline into capacity steps.
func buildChartData(report *Report) (labels []string, points []opts.LineData) {
	labels = make([]string, 0, len(report.Timeline))
	points = make([]opts.LineData, 0, len(report.Timeline))

	for _, row := range report.Timeline {
		labels = append(labels, strconv.FormatInt(row.Start, 10))
		points = append(points, opts.LineData{Value: row.Free})
	}

	return labels, points
}
