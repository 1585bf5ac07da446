package scenario

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/schedkit/availprof/pkg/profile"
)

// RenderOptions controls the text report layout.
type RenderOptions struct {
	// Table enables the per-step and timeline tables. When false only the
	// summary line is printed.
	Table bool

	// Color enables colored status markers.
	Color bool
}

// Render writes a human-readable replay report.
func Render(w io.Writer, report *Report, opts RenderOptions) {
	fmt.Fprintf(w, "Scenario %q (%s domain, total capacity %s)\n",
		report.Scenario, report.Domain, humanize.Ftoa(report.Total))
	fmt.Fprintf(w, "%s steps replayed, %s rejected\n",
		humanize.Comma(int64(len(report.Results))), humanize.Comma(int64(report.Rejected)))

	if !opts.Table {
		return
	}

	renderSteps(w, report, opts)
	renderTimeline(w, report)
}

func renderSteps(w io.Writer, report *Report, opts RenderOptions) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"#", "Op", "ID", "Status", "Result"})

	for _, res := range report.Results {
		tw.AppendRow(table.Row{
			res.Index,
			res.Op,
			res.ID,
			statusMarker(res.Status, opts.Color),
			resultCell(res),
		})
	}

	tw.Render()
}

func renderTimeline(w io.Writer, report *Report) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Start", "End", "Free", "Reservations"})

	for _, row := range report.Timeline {
		tw.AppendRow(table.Row{
			formatTick(row.Start),
			formatTick(row.End),
			humanize.Ftoa(row.Free),
			strings.Join(row.Reservations, ", "),
		})
	}

	tw.Render()
}

// statusMarker renders a step status, colored when enabled.
func statusMarker(status string, colored bool) string {
	if !colored {
		return status
	}

	if status == StatusOK {
		return color.New(color.FgGreen).Sprint(status)
	}

	return color.New(color.FgYellow).Sprint(status)
}

// resultCell summarizes a step outcome for the table.
func resultCell(res StepResult) string {
	if res.Status == StatusRejected {
		return res.Detail
	}

	switch res.Op {
	case OpCheck, OpFindWindow:
		if len(res.Windows) == 0 {
			return "no windows"
		}

		parts := make([]string, 0, len(res.Windows))
		for _, win := range res.Windows {
			parts = append(parts, fmt.Sprintf("[%s, %s) cap %s",
				formatTick(win.Start), formatTick(win.End), humanize.Ftoa(win.Capacity)))
		}

		return strings.Join(parts, "; ")
	case OpFreeAt:
		return fmt.Sprintf("free %s", humanize.Ftoa(res.Free))
	default:
		return "applied"
	}
}

// formatTick renders a tick, using an infinity sign for the horizon end.
func formatTick(t int64) string {
	if t == profile.HorizonEnd {
		return "∞"
	}

	return humanize.Comma(t)
}
