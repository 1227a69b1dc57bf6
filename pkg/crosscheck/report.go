package crosscheck

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	validStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	suspectStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	conflictStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Report outputs a cross-check result as a styled table.
func Report(w io.Writer, result ValidationResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("CPU Source Cross-Check"))
	fmt.Fprintln(w, dimStyle.Render(strings.Repeat("═", 60)))
	fmt.Fprintf(w, "  window %s\n\n", result.Window)

	fmt.Fprintf(w, "  %s %s %s\n",
		headerStyle.Render("SOURCE      "),
		headerStyle.Render("CPU       "),
		headerStyle.Render("DETAIL                "))
	fmt.Fprintln(w, "  "+dimStyle.Render(strings.Repeat("─", 60)))

	for _, r := range result.Readings {
		if r.Error != "" {
			fmt.Fprintf(w, "  %-14s %-11s %s\n", r.Source, "-", conflictStyle.Render(r.Error))
			continue
		}
		fmt.Fprintf(w, "  %-14s %-11s %s\n", r.Source, fmt.Sprintf("%.1f%%", r.Value),
			dimStyle.Render(fmt.Sprintf("%+.1f pp from consensus", r.Value-result.Consensus)))
	}

	var statusStr string
	switch result.Status {
	case StatusConflict:
		statusStr = conflictStyle.Render("CONFLICT")
	case StatusSuspect:
		statusStr = suspectStyle.Render("SUSPECT")
	case StatusNoData:
		statusStr = conflictStyle.Render("NO DATA")
	default:
		statusStr = validStyle.Render("VALID")
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "  consensus %.1f%%, max deviation %.1f pp: %s\n",
		result.Consensus, result.MaxDeviation, statusStr)
}

// ReportJSON outputs a cross-check result as JSON.
func ReportJSON(w io.Writer, result ValidationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
