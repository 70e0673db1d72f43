package eval

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteProfileReport renders one profile's summary block: counts with
// percentages, then every wrong detection collected during the pass.
// Purely presentational; the tally is not modified.
func WriteProfileReport(w io.Writer, profile string, t Tally) {
	fmt.Fprintf(w, "\n--- %s (n=%d) ---\n", profile, t.Total)

	if t.Total == 0 {
		fmt.Fprintln(w, "no tracks evaluated")
	}
	fmt.Fprintf(w, "Exact:    %3d / %d  (%s)\n", t.Exact, t.Total, pct(t.Exact, t.Total))
	fmt.Fprintf(w, "Relative: %3d / %d  (%s)\n", t.Relative, t.Total, pct(t.Relative, t.Total))
	fmt.Fprintf(w, "Fifth:    %3d / %d  (%s)\n", t.Fifth, t.Total, pct(t.Fifth, t.Total))
	fmt.Fprintf(w, "Correct:  %3d / %d  (%s)  [exact + relative]\n", t.Correct(), t.Total, pct(t.Correct(), t.Total))
	fmt.Fprintf(w, "Wrong:    %3d / %d  (%s)\n", t.Wrong, t.Total, pct(t.Wrong, t.Total))

	if t.Skipped > 0 || t.Errors > 0 {
		fmt.Fprintf(w, "Excluded: %d skipped, %d errored\n", t.Skipped, t.Errors)
	}

	if len(t.WrongDetections) > 0 {
		fmt.Fprintln(w, "\nWrong detections:")
		for _, line := range t.WrongDetections {
			fmt.Fprintln(w, line)
		}
	}
}

// WriteSummary renders the cross-profile comparison table, one row per
// profile in the given order.
func WriteSummary(w io.Writer, profiles []string, results map[string]Tally) {
	fmt.Fprintf(w, "\n============================================================\n")
	fmt.Fprintf(w, "SUMMARY\n")
	fmt.Fprintf(w, "============================================================\n")

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Profile", "Exact", "Rel", "5th", "Corr", "Wrong"})

	for _, profile := range profiles {
		t := results[profile]
		tw.AppendRow(table.Row{
			profile,
			pct(t.Exact, t.Total),
			pct(t.Relative, t.Total),
			pct(t.Fifth, t.Total),
			pct(t.Correct(), t.Total),
			pct(t.Wrong, t.Total),
		})
	}

	configs := make([]table.ColumnConfig, 0, 6)
	for col := 2; col <= 6; col++ {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	fmt.Fprintln(w, tw.Render())
}

// pct formats 100*count/total to one decimal place. A zero total has no
// defined ratio and renders as "n/a" instead of dividing by zero.
func pct(count, total int) string {
	if total == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(count)/float64(total))
}
