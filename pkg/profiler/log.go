package profiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// DefaultLogCapacity is the number of entries a Log is pre-sized for.
const DefaultLogCapacity = 64

// positional matches composite-format placeholders such as {0}.
var positional = regexp.MustCompile(`\{(\d+)\}`)

// Lazy is a log argument evaluated when the entry is rendered, never when it is written.
type Lazy func() any

// LazyString adapts a string-producing function to Lazy.
func LazyString(fn func() string) Lazy {
	return func() any { return fn() }
}

// Entry is one auxiliary log message. Entries are never mutated after Write.
type Entry struct {
	// Format is either a fmt format string or a string with {N} placeholders.
	Format string

	// Args are the positional arguments. Lazy values are resolved by String.
	Args []any
}

// Resolve returns the arguments with every deferred value evaluated.
func (e Entry) Resolve() []any {
	out := make([]any, len(e.Args))

	for i, arg := range e.Args {
		switch v := arg.(type) {
		case Lazy:
			out[i] = v()
		case func() any:
			out[i] = v()
		case func() string:
			out[i] = v()
		default:
			out[i] = arg
		}
	}

	return out
}

// String renders the entry. {N} placeholders are substituted when present,
// otherwise Format is treated as a fmt format string. Arguments a format
// has no placeholder or verb for are ignored.
func (e Entry) String() string {
	args := e.Resolve()

	if positional.MatchString(e.Format) {
		return positional.ReplaceAllStringFunc(e.Format, func(m string) string {
			i, err := strconv.Atoi(m[1 : len(m)-1])
			if err != nil || i >= len(args) {
				return m
			}

			return fmt.Sprint(args[i])
		})
	}

	if len(args) == 0 || !strings.ContainsRune(e.Format, '%') {
		return e.Format
	}

	return fmt.Sprintf(e.Format, args...)
}

// Log is the auxiliary message log. It is independent of the session state
// and safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLog creates an empty log pre-sized for capacity entries.
func NewLog(capacity int) *Log {
	if capacity < 0 {
		capacity = 0
	}

	return &Log{entries: make([]Entry, 0, capacity)}
}

// Write appends an entry. Arguments are stored as given; Lazy values are not evaluated.
func (l *Log) Write(format string, args ...any) {
	entry := Entry{Format: format}
	if len(args) > 0 {
		entry.Args = make([]any, len(args))
		copy(entry.Args, args)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, entry)
}

// Entries returns a snapshot of all entries in append order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)

	return out
}

// Lines renders every entry.
func (l *Log) Lines() []string {
	entries := l.Entries()

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}

	return lines
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.entries)
}

// Clear removes every entry.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	clear(l.entries)
	l.entries = l.entries[:0]
}
