package report

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"
)

func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Rubric Evaluation: %s (judge %s) ===\n\n", r.Meta.AnswersLabel, r.Meta.JudgeModel)

	writeScoreTable(tw, r)
	writeSummary(tw, r)

	tw.Flush()
}

func writeScoreTable(tw *tabwriter.Writer, r *Report) {
	fmt.Fprintf(tw, "Aggregated means (over %d scored items)\n\n", r.Summary.Scored)

	header := []string{"Section", "Field", "Mean"}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	fmt.Fprintln(tw, strings.Join(separator(len(header)), "\t"))

	for _, e := range r.Scores {
		fmt.Fprintln(tw, strings.Join([]string{e.Section, e.Field, fmt.Sprintf("%.2f", e.Mean)}, "\t"))
	}
	fmt.Fprintln(tw)
}

func writeSummary(tw *tabwriter.Writer, r *Report) {
	s := r.Summary
	fmt.Fprintf(tw, "Items\t%d scored / %d failed / %d total\n", s.Scored, s.Failed, s.TotalEvaluated)

	purity := make([]int, 0, len(s.PurityDistribution))
	for p := range s.PurityDistribution {
		purity = append(purity, p)
	}
	slices.Sort(purity)
	parts := make([]string, 0, len(purity))
	for _, p := range purity {
		parts = append(parts, fmt.Sprintf("%d:%d", p, s.PurityDistribution[p]))
	}
	fmt.Fprintf(tw, "Purity\t%s\n", strings.Join(parts, " "))

	l := r.Latency
	fmt.Fprintf(tw, "Latency\tmin %s  p50 %s  p95 %s  max %s\n",
		fmtDuration(l.Min), fmtDuration(l.Median), fmtDuration(l.P95), fmtDuration(l.Max))
	fmt.Fprintln(tw)
}

func separator(n int) []string {
	sep := make([]string, n)
	for i := range sep {
		sep[i] = "---"
	}
	return sep
}

func fmtDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
