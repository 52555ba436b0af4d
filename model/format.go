package model

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/gookit/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/timewinder-dev/labrun/lab"
)

const rule = "================================================================================"

// FormatResult renders a result as it would appear on a console: the
// transcript verbatim, then the outcome.
func FormatResult(res lab.Result) string {
	var b strings.Builder
	b.WriteString(color.Gray.Sprint(rule))
	b.WriteString("\n")
	if len(res.Transcript) == 0 {
		b.WriteString(color.Gray.Sprint("  (no output)"))
		b.WriteString("\n")
	}
	iw := &indentWriter{w: &b, indent: "  ", atLineStart: true}
	for _, line := range res.Transcript {
		fmt.Fprintln(iw, line)
	}
	b.WriteString(color.Gray.Sprint(rule))
	b.WriteString("\n")

	if res.Success {
		b.WriteString(color.Green.Sprint("✓ Execution succeeded"))
	} else {
		b.WriteString(color.Red.Sprint("✗ Execution failed"))
	}
	b.WriteString(fmt.Sprintf(" in %.2f ms\n", res.ExecutionTimeMs))
	if res.ErrorMessage != "" {
		b.WriteString(color.Bold.Sprint("Error: "))
		b.WriteString(color.Red.Sprintf("%s\n", res.ErrorMessage))
	}
	return b.String()
}

// seriesNames returns the dataset keys in display order: well known names
// first, then the rest alphabetically.
func seriesNames(ds lab.Dataset) []string {
	rank := map[string]int{
		lab.TimeSeries:          0,
		lab.FrequencySeries:     1,
		lab.ReconstructedSeries: 2,
		lab.ErrorSeries:         3,
	}
	names := make([]string, 0, len(ds))
	for k := range ds {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return names[i] < names[j]
	})
	return names
}

func bounds(ys []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	return lo, hi
}

// WriteDatasetTable summarizes every series of ds as one table row.
func WriteDatasetTable(w io.Writer, ds lab.Dataset) {
	if len(ds) == 0 {
		_, _ = fmt.Fprintln(w, "(no dataset)")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Series", "Kind", "Label", "Points", "X range", "Y min", "Y max"})
	for _, name := range seriesNames(ds) {
		s := ds[name]
		xr := "-"
		if s.Len() > 0 {
			first, ok1 := s.Float(0)
			last, ok2 := s.Float(s.Len() - 1)
			if ok1 && ok2 {
				xr = fmt.Sprintf("%.4g .. %.4g", first, last)
			}
		}
		row := table.Row{name, string(s.Kind), s.Label, s.Len(), xr, "-", "-"}
		if s.Len() > 0 {
			lo, hi := bounds(s.Y)
			row[5] = fmt.Sprintf("%.4g", lo)
			row[6] = fmt.Sprintf("%.4g", hi)
		}
		t.AppendRow(row)
	}
	t.Render()
}

// NamedResult pairs a result with the program it came from.
type NamedResult struct {
	Name   string     `json:"name" yaml:"name"`
	Result lab.Result `json:"result" yaml:"result"`
}

// WriteBatchTable summarizes a batch run, one program per row.
func WriteBatchTable(w io.Writer, results []NamedResult) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Program", "Status", "Lines", "Series", "Time (ms)", "Error"})
	failed := 0
	for _, r := range results {
		status := "ok"
		if !r.Result.Success {
			status = "failed"
			failed++
		}
		t.AppendRow(table.Row{
			r.Name, status, len(r.Result.Transcript), len(r.Result.Dataset),
			fmt.Sprintf("%.2f", r.Result.ExecutionTimeMs), r.Result.ErrorMessage,
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d failed", failed), "", "", "", ""})
	t.Render()
}

// indentWriter wraps an io.Writer to add indentation to each line
type indentWriter struct {
	w           io.Writer
	indent      string
	atLineStart bool
}

func (iw *indentWriter) Write(p []byte) (n int, err error) {
	total := 0
	for len(p) > 0 {
		if iw.atLineStart {
			if _, err := io.WriteString(iw.w, iw.indent); err != nil {
				return total, err
			}
			iw.atLineStart = false
		}
		idx := 0
		for idx < len(p) && p[idx] != '\n' {
			idx++
		}
		if idx < len(p) {
			idx++
			iw.atLineStart = true
		}
		written, err := iw.w.Write(p[:idx])
		total += written
		if err != nil {
			return total, err
		}
		p = p[idx:]
	}
	return total, nil
}

// NewIndentWriter indents everything written through it by indent.
func NewIndentWriter(w io.Writer, indent string) io.Writer {
	return &indentWriter{w: w, indent: indent, atLineStart: true}
}
