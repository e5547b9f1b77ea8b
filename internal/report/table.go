package report

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/smykla-skalski/frametrace/internal/color"
	"github.com/smykla-skalski/frametrace/pkg/profiler"
)

// TableReporter renders records in a rounded table, one row per record.
type TableReporter struct {
	opts Options
}

var tableHeaders = []string{"#", "Frame", "Depth", "Line", "Duration"}

// Render writes the table, the summary line and, when enabled, the log.
func (r *TableReporter) Render(w io.Writer, records []profiler.Record, log []string) error {
	indices, err := matchIndices(records, r.opts.Match)
	if err != nil {
		return err
	}

	filtered := pick(records, indices)

	var out strings.Builder

	if len(filtered) > 0 {
		out.WriteString(r.renderTable(indices, filtered))
		out.WriteByte('\n')
	}

	out.WriteString(Summarize(filtered, r.opts.SlowThreshold).String())
	out.WriteByte('\n')

	if _, err := io.WriteString(w, out.String()); err != nil {
		return errors.Wrap(err, "writing table")
	}

	if r.opts.ShowLog {
		return renderLog(w, log, r.opts.Theme)
	}

	return nil
}

// renderTable builds the table. indices holds each filtered record's position
// in the full buffer so filtered rows keep their original numbering.
func (r *TableReporter) renderTable(indices []int, filtered []profiler.Record) string {
	theme := r.opts.Theme
	frameW := r.frameWidth(filtered)

	var buf bytes.Buffer

	t := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleRounded),
		})),
		tablewriter.WithPadding(tw.Padding{Left: " ", Right: " "}),
		tablewriter.WithConfig(tablewriter.NewConfigBuilder().
			WithTrimSpace(tw.Off).
			Build()),
	)

	t.Header(tableHeaders)

	for i, rec := range filtered {
		frame := strings.Repeat("  ", rec.Depth) + styledLabel(rec, theme)
		frame = padToWidth(truncateToWidth(frame, frameW), frameW)

		_ = t.Append([]string{
			theme.Muted.Render(strconv.Itoa(indices[i])),
			frame,
			strconv.Itoa(rec.Depth),
			strconv.Itoa(rec.Line),
			styledDuration(rec, r.opts),
		})
	}

	_ = t.Render()

	return dimBorders(strings.TrimRight(buf.String(), "\n"), theme)
}

// frameWidth returns the content width of the Frame column, capped so the
// table fits in opts.Width when it is positive.
func (r *TableReporter) frameWidth(records []profiler.Record) int {
	widest := len("Frame")

	for _, rec := range records {
		if n := visibleWidth(strings.Repeat("  ", rec.Depth) + rec.Label()); n > widest {
			widest = n
		}
	}

	if r.opts.Width <= 0 {
		return widest
	}

	// Each column has: 1 border char + 1 left pad + 1 right pad = 3.
	// Plus 1 trailing border on the right.
	const (
		colOverhead = 3
		otherCols   = 5 + 5 + 5 + 10 // #, Depth, Line, Duration
		minFrameW   = 10
	)

	available := r.opts.Width - len(tableHeaders)*colOverhead - 1 - otherCols
	if available < minFrameW {
		available = minFrameW
	}

	return min(widest, available)
}

// dimBorders applies the muted theme style to all box-drawing border
// characters in the rendered table output.
func dimBorders(s string, theme color.Theme) string {
	for _, ch := range []string{
		"╭", "╮", "╰", "╯", "│", "─", "┬", "┴", "├", "┤", "┼",
	} {
		s = strings.ReplaceAll(s, ch, theme.Muted.Render(ch))
	}

	return s
}
