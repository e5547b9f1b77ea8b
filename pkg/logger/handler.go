package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

const (
	lineBufferSize = 256

	logDirPermissions = 0o700

	// timestampFormat keeps the local offset instead of a Z suffix.
	timestampFormat = "2006-01-02T15:04:05-07:00"
)

// CustomHandler is a slog.Handler writing one "timestamp LEVEL msg key=value"
// line per record. Handlers derived with WithAttrs or WithGroup share the
// writer and its lock.
type CustomHandler struct {
	out   *output
	level slog.Leveler

	// preformatted holds the rendered WithAttrs pairs, prefix the open groups.
	preformatted []byte
	prefix       string
}

// output is the writer shared by a handler family. closer is set only when
// the handler opened the file itself.
type output struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewFileHandler appends to the file at path, creating its directory.
func NewFileHandler(path string, level Level) (*CustomHandler, error) {
	if err := os.MkdirAll(filepath.Dir(path), logDirPermissions); err != nil {
		return nil, err
	}

	//nolint:gosec // path comes from configuration
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
	if err != nil {
		return nil, err
	}

	return &CustomHandler{
		out:   &output{w: file, closer: file},
		level: level.ToSlogLevel(),
	}, nil
}

// NewWriterHandler writes to w. Close leaves w open.
func NewWriterHandler(w io.Writer, level Level) *CustomHandler {
	return &CustomHandler{
		out:   &output{w: w},
		level: level.ToSlogLevel(),
	}
}

// Enabled reports whether records at level are written.
func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes r as a single line.
func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, lineBufferSize)

	buf = r.Time.Local().AppendFormat(buf, timestampFormat)
	buf = append(buf, ' ')
	buf = append(buf, r.Level.String()...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, h.preformatted...)

	r.Attrs(func(a slog.Attr) bool {
		buf = appendAttr(buf, h.prefix, a)

		return true
	})

	buf = append(buf, '\n')

	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	_, err := h.out.w.Write(buf)

	return err
}

// WithAttrs returns a handler that renders attrs on every line.
func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	child := *h
	child.preformatted = append([]byte(nil), h.preformatted...)

	for _, a := range attrs {
		child.preformatted = appendAttr(child.preformatted, h.prefix, a)
	}

	return &child
}

// WithGroup returns a handler that prefixes later keys with name.
func (h *CustomHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	child := *h
	child.prefix = h.prefix + name + "."

	return &child
}

// Close closes the log file opened by NewFileHandler. Writers passed to
// NewWriterHandler are left to their owner.
func (h *CustomHandler) Close() error {
	h.out.mu.Lock()
	defer h.out.mu.Unlock()

	if h.out.closer == nil {
		return nil
	}

	err := h.out.closer.Close()
	h.out.closer = nil

	return err
}

// appendAttr renders " prefix.key=value". Group values are flattened into
// dotted keys and LogValuer values are resolved first.
func appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return buf
	}

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			buf = appendAttr(buf, groupPrefix, ga)
		}

		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')

	return appendValue(buf, a.Value.String())
}

func appendValue(buf []byte, s string) []byte {
	if s == "" || strings.ContainsAny(s, " \t\r\n\"\\=") {
		return strconv.AppendQuote(buf, s)
	}

	return append(buf, s...)
}
