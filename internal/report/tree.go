package report

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/frametrace/pkg/profiler"
)

const treeIndent = "  "

// TreeReporter renders records as an outline indented by depth.
//
//	render              5ms
//	  layout            2ms
//	render/second       3ms
type TreeReporter struct {
	opts Options
}

// Render writes the outline, the summary line and, when enabled, the log.
func (r *TreeReporter) Render(w io.Writer, records []profiler.Record, log []string) error {
	filtered, err := Filter(records, r.opts.Match)
	if err != nil {
		return err
	}

	theme := r.opts.Theme

	labels := make([]string, len(filtered))
	widest := 0

	for i, rec := range filtered {
		labels[i] = strings.Repeat(treeIndent, rec.Depth) + styledLabel(rec, theme)
		widest = max(widest, visibleWidth(labels[i]))
	}

	if r.opts.Width > 0 {
		// leave room for two spaces and the longest compact duration
		const durationW = 12

		widest = min(widest, max(r.opts.Width-durationW-2, len(treeIndent)))
	}

	var out strings.Builder

	for i, rec := range filtered {
		label := padToWidth(truncateToWidth(labels[i], widest), widest)

		out.WriteString(label)
		out.WriteString("  ")
		out.WriteString(styledDuration(rec, r.opts))
		out.WriteByte('\n')
	}

	if len(filtered) > 0 {
		out.WriteByte('\n')
	}

	out.WriteString(theme.Muted.Render(Summarize(filtered, r.opts.SlowThreshold).String()))
	out.WriteByte('\n')

	if _, err := io.WriteString(w, out.String()); err != nil {
		return errors.Wrap(err, "writing tree")
	}

	if r.opts.ShowLog {
		return renderLog(w, log, theme)
	}

	return nil
}
