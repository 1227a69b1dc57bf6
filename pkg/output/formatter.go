// Package output provides formatters for displaying recorded CPU usage samples.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/danpilch/cpulog/pkg/health"
	"github.com/danpilch/cpulog/pkg/sample"
)

// Format represents the output format type.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatTSV   Format = "tsv"
	FormatRaw   Format = "raw"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatTable, FormatJSON, FormatTSV, FormatRaw:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (want table, json, tsv or raw)", name)
}

// Formatter handles output formatting.
type Formatter struct {
	format     Format
	writer     io.Writer
	thresholds health.Thresholds
}

// NewFormatter creates a new formatter.
func NewFormatter(format Format, writer io.Writer, thresholds health.Thresholds) *Formatter {
	return &Formatter{
		format:     format,
		writer:     writer,
		thresholds: thresholds,
	}
}

// Render outputs the samples in the configured format.
func (f *Formatter) Render(samples []sample.Sample) error {
	switch f.format {
	case FormatJSON:
		return f.renderJSON(samples)
	case FormatTSV:
		return f.renderTSV(samples)
	case FormatRaw:
		return f.renderRaw(samples)
	default:
		return f.renderTable(samples)
	}
}

type jsonSample struct {
	sample.Sample
	Status health.Status `json:"status"`
}

// renderJSON outputs samples as JSON.
func (f *Formatter) renderJSON(samples []sample.Sample) error {
	out := struct {
		Samples []jsonSample `json:"samples"`
		Summary Summary      `json:"summary"`
	}{
		Samples: make([]jsonSample, len(samples)),
		Summary: Summarize(samples, f.thresholds),
	}
	for i, s := range samples {
		out.Samples[i] = jsonSample{Sample: s, Status: f.thresholds.Evaluate(s.CPUPercent)}
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// renderTable outputs samples as a styled table.
func (f *Formatter) renderTable(samples []sample.Sample) error {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)

	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	statusStyles := map[health.Status]lipgloss.Style{
		health.StatusOK:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true), // Green
		health.StatusWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true), // Yellow
		health.StatusCritical: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),  // Red
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	fmt.Fprintln(f.writer, titleStyle.Render("CPU Usage Log"))
	fmt.Fprintln(f.writer, strings.Repeat("═", 60))
	fmt.Fprintln(f.writer)

	if len(samples) == 0 {
		fmt.Fprintln(f.writer, "No samples recorded")
		return nil
	}

	rows := make([][]string, len(samples))
	for i, s := range samples {
		status := f.thresholds.Evaluate(s.CPUPercent)
		rows[i] = []string{
			s.Timestamp.Format(sample.TimeLayout),
			fmt.Sprintf("%.1f%%", s.CPUPercent),
			statusStyles[status].Render(strings.ToUpper(string(status))),
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("TIMESTAMP", "CPU", "STATUS").
		Rows(rows...)

	fmt.Fprintln(f.writer, t)
	fmt.Fprintln(f.writer)

	summary := Summarize(samples, f.thresholds)
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.CPUPercent
	}

	fmt.Fprintf(f.writer, "Samples: %d  (%s → %s)\n", summary.Count,
		summary.First.Format(sample.TimeLayout), summary.Last.Format(sample.TimeLayout))
	fmt.Fprintf(f.writer, "CPU: min %.1f%%  mean %.1f%%  p95 %.1f%%  max %.1f%%  stddev %.2f\n",
		summary.Min, summary.Mean, summary.P95, summary.Max, summary.StdDev)
	fmt.Fprintf(f.writer, "Trend: %s\n", Sparkline(values, 60))
	f.renderSummary(summary, statusStyles)

	return nil
}

// renderSummary outputs the threshold summary line.
func (f *Formatter) renderSummary(summary Summary, styles map[health.Status]lipgloss.Style) {
	parts := []string{}

	if summary.Critical > 0 {
		parts = append(parts, styles[health.StatusCritical].Render(fmt.Sprintf("%d critical", summary.Critical)))
	}
	if summary.Warnings > 0 {
		parts = append(parts, styles[health.StatusWarning].Render(fmt.Sprintf("%d warnings", summary.Warnings)))
	}

	if len(parts) == 0 {
		fmt.Fprintln(f.writer, styles[health.StatusOK].Render("All samples below thresholds"))
	} else {
		fmt.Fprintf(f.writer, "Summary: %s\n", strings.Join(parts, ", "))
	}
}

// renderTSV outputs samples as tab-separated values.
func (f *Formatter) renderTSV(samples []sample.Sample) error {
	fmt.Fprintln(f.writer, "TIMESTAMP\tCPU_PERCENT\tSTATUS")

	for _, s := range samples {
		fmt.Fprintf(f.writer, "%s\t%.1f\t%s\n",
			s.Timestamp.Format(sample.TimeLayout), s.CPUPercent, f.thresholds.Evaluate(s.CPUPercent))
	}

	return nil
}

// renderRaw outputs samples in the log record format.
func (f *Formatter) renderRaw(samples []sample.Sample) error {
	for _, s := range samples {
		if _, err := fmt.Fprintln(f.writer, sample.Format(s)); err != nil {
			return err
		}
	}
	return nil
}
