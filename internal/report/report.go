// Package report renders captured frame records for humans.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/x/ansi"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/smykla-skalski/frametrace/internal/color"
	"github.com/smykla-skalski/frametrace/pkg/config"
	"github.com/smykla-skalski/frametrace/pkg/profiler"
)

// ErrUnknownFormat is returned for report formats other than table and tree.
var ErrUnknownFormat = errors.New("unknown report format")

const (
	openLabel            = "open"
	durationDisplayUnits = 2
	ellipsis             = "…"
)

// Options controls rendering.
type Options struct {
	// Format is config.ReportFormatTable or config.ReportFormatTree.
	Format string

	// Match keeps records whose name or label matches one of these doublestar patterns.
	Match []string

	// SlowThreshold highlights finalized frames at least this long. Zero disables it.
	SlowThreshold time.Duration

	// ShowLog appends the rendered auxiliary log.
	ShowLog bool

	// Theme styles the output. The zero Theme renders plain text.
	Theme color.Theme

	// Width caps the output width. Zero detects the terminal width; a negative value disables the cap.
	Width int
}

// OptionsFromConfig builds Options from the report configuration.
func OptionsFromConfig(cfg *config.ReportConfig, theme color.Theme) Options {
	return Options{
		Format:        cfg.GetFormat(),
		Match:         cfg.GetMatch(),
		SlowThreshold: cfg.GetSlowThreshold().ToDuration(),
		ShowLog:       cfg.IsShowLog(),
		Theme:         theme,
	}
}

// Reporter renders records and log lines.
type Reporter interface {
	Render(w io.Writer, records []profiler.Record, log []string) error
}

// New returns the Reporter for opts.Format.
//
//nolint:ireturn // format selects the implementation
func New(opts Options) (Reporter, error) {
	for _, pattern := range opts.Match {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Newf("invalid match pattern %q", pattern)
		}
	}

	if opts.Width == 0 {
		opts.Width = termWidth()
	}

	switch opts.Format {
	case "", config.ReportFormatTable:
		return &TableReporter{opts: opts}, nil
	case config.ReportFormatTree:
		return &TreeReporter{opts: opts}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", opts.Format)
	}
}

// Summary aggregates a record set.
type Summary struct {
	Records   int
	Finalized int
	Open      int
	Slow      int

	// Total is the summed duration of finalized top-level records.
	Total time.Duration
}

// Summarize counts records. Frames at least slow long are counted as slow
// when slow is positive.
func Summarize(records []profiler.Record, slow time.Duration) Summary {
	s := Summary{Records: len(records)}

	for _, r := range records {
		if !r.Finalized() {
			s.Open++

			continue
		}

		s.Finalized++

		if isSlow(r, slow) {
			s.Slow++
		}

		if r.Depth == 0 {
			s.Total += r.Duration()
		}
	}

	return s
}

// String returns e.g. "1,204 records (2 open), 3 slow, top-level total 1 second 250 milliseconds".
func (s Summary) String() string {
	var b strings.Builder

	b.WriteString(humanize.Comma(int64(s.Records)))

	if s.Records == 1 {
		b.WriteString(" record")
	} else {
		b.WriteString(" records")
	}

	if s.Open > 0 {
		fmt.Fprintf(&b, " (%s %s)", humanize.Comma(int64(s.Open)), openLabel)
	}

	if s.Slow > 0 {
		fmt.Fprintf(&b, ", %s slow", humanize.Comma(int64(s.Slow)))
	}

	fmt.Fprintf(&b, ", top-level total %s", FormatTotal(s.Total))

	return b.String()
}

// Filter returns the records whose name or label matches any pattern.
// All records are returned when patterns is empty.
func Filter(records []profiler.Record, patterns []string) ([]profiler.Record, error) {
	indices, err := matchIndices(records, patterns)
	if err != nil {
		return nil, err
	}

	return pick(records, indices), nil
}

func pick(records []profiler.Record, indices []int) []profiler.Record {
	out := make([]profiler.Record, len(indices))
	for i, idx := range indices {
		out[i] = records[idx]
	}

	return out
}

// matchIndices returns the buffer positions of the records Filter keeps.
func matchIndices(records []profiler.Record, patterns []string) ([]int, error) {
	out := make([]int, 0, len(records))

	for i, r := range records {
		ok := len(patterns) == 0

		if !ok {
			var err error

			if ok, err = matchAny(patterns, r); err != nil {
				return nil, err
			}
		}

		if ok {
			out = append(out, i)
		}
	}

	return out, nil
}

func matchAny(patterns []string, r profiler.Record) (bool, error) {
	for _, pattern := range patterns {
		for _, candidate := range []string{r.Label(), r.Name} {
			ok, err := doublestar.Match(pattern, candidate)
			if err != nil {
				return false, errors.Wrapf(err, "match pattern %q", pattern)
			}

			if ok {
				return true, nil
			}
		}
	}

	return false, nil
}

// FormatDuration renders a record duration compactly, or "open" for unfinalized records.
func FormatDuration(r profiler.Record) string {
	if !r.Finalized() {
		return openLabel
	}

	return r.Duration().String()
}

// FormatTotal renders a duration in words, keeping the two largest units.
func FormatTotal(d time.Duration) string {
	if d == 0 {
		return "0 seconds"
	}

	return durafmt.Parse(d).LimitFirstN(durationDisplayUnits).String()
}

func isSlow(r profiler.Record, threshold time.Duration) bool {
	return threshold > 0 && r.Finalized() && r.Duration() >= threshold
}

// styledLabel renders name and partition id with the theme.
func styledLabel(r profiler.Record, theme color.Theme) string {
	name := theme.Name.Render(r.Name)
	if !r.Partitioned {
		return name
	}

	return name + theme.Muted.Render("/") + theme.Partition.Render(r.ID)
}

// styledDuration renders the duration cell with open and slow highlighting.
func styledDuration(r profiler.Record, opts Options) string {
	text := FormatDuration(r)

	switch {
	case !r.Finalized():
		return opts.Theme.Open.Render(text)
	case isSlow(r, opts.SlowThreshold):
		return opts.Theme.Slow.Render(text)
	default:
		return opts.Theme.Duration.Render(text)
	}
}

// visibleWidth returns the display width of s, ignoring ANSI escape codes.
func visibleWidth(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

// padToWidth right-pads s with spaces so its display width reaches w.
func padToWidth(s string, w int) string {
	visible := visibleWidth(s)
	if visible >= w {
		return s
	}

	return s + strings.Repeat(" ", w-visible)
}

// truncateToWidth shortens s to at most w display cells, keeping ANSI styling intact.
func truncateToWidth(s string, w int) string {
	if w <= 0 || visibleWidth(s) <= w {
		return s
	}

	return ansi.Truncate(s, w, ellipsis)
}

// renderLog writes the auxiliary log section.
func renderLog(w io.Writer, lines []string, theme color.Theme) error {
	if len(lines) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", theme.Header.Render("Log")); err != nil {
		return errors.Wrap(err, "writing log header")
	}

	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "  %s\n", theme.Log.Render(line)); err != nil {
			return errors.Wrap(err, "writing log line")
		}
	}

	return nil
}

// termWidth returns the terminal width or 0 if not a terminal.
func termWidth() int {
	for _, f := range []*os.File{os.Stdout, os.Stderr} {
		if w, _, err := term.GetSize(
			int(f.Fd()), //nolint:gosec // fd fits int
		); err == nil && w > 0 {
			return w
		}
	}

	return 0
}
