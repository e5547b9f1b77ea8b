package profiler

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/smykla-skalski/frametrace/pkg/logger"
)

// Profiler records nested frame timings for one logical timeline.
//
// A Profiler is not safe for concurrent use: Begin, End, Partition, Start,
// Stop and Reset must be called from a single timeline. Only the auxiliary
// Log returned by Log is safe to write from multiple goroutines.
type Profiler struct {
	id      string
	state   State
	clock   Clock
	records *buffer
	frames  *stack
	depth   int
	log     *Log
	logger  logger.Logger
}

// Option configures a Profiler.
type Option func(*Profiler)

// WithClock sets the tick source.
func WithClock(c Clock) Option {
	return func(p *Profiler) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithCapacity pre-sizes the record buffer and frame stack.
func WithCapacity(n int) Option {
	return func(p *Profiler) {
		if n > 0 {
			p.records = newBuffer(n)
			p.frames = newStack(n)
		}
	}
}

// WithLog sets the auxiliary log, letting several profilers share one.
func WithLog(l *Log) Option {
	return func(p *Profiler) {
		if l != nil {
			p.log = l
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(p *Profiler) {
		if log != nil {
			p.logger = log
		}
	}
}

// WithID sets the identifier attached to log lines. A random UUID is used otherwise.
func WithID(id string) Option {
	return func(p *Profiler) {
		if id != "" {
			p.id = id
		}
	}
}

// New creates a stopped Profiler.
func New(opts ...Option) *Profiler {
	p := &Profiler{
		id:      uuid.NewString(),
		state:   StateStopped,
		clock:   NewMonotonicClock(),
		records: newBuffer(DefaultCapacity),
		frames:  newStack(DefaultCapacity),
		log:     NewLog(DefaultLogCapacity),
		logger:  logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger = p.logger.With("profiler_id", p.id)

	return p
}

// ID returns the profiler identifier.
func (p *Profiler) ID() string {
	return p.id
}

// State returns the session state.
func (p *Profiler) State() State {
	return p.state
}

// Running reports whether a session is active.
func (p *Profiler) Running() bool {
	return p.state == StateRunning
}

// Depth returns the current nesting depth.
func (p *Profiler) Depth() int {
	return p.depth
}

// OpenFrames returns the names of open frames, outermost first.
func (p *Profiler) OpenFrames() []string {
	return p.frames.names()
}

// Log returns the auxiliary log.
func (p *Profiler) Log() *Log {
	return p.log
}

// Start enables recording. It does not touch the clock or the stack.
func (p *Profiler) Start() {
	if p.state == StateRunning {
		return
	}

	p.state = StateRunning

	p.logger.Debug("session started", "records", p.records.len())
}

// Stop disables recording and abandons every open frame. Abandoned records
// keep the Unfinalized duration. The next session starts at depth 0.
func (p *Profiler) Stop() {
	wasRunning := p.state == StateRunning

	p.state = StateStopped
	abandoned := p.frames.drain()
	p.depth = 0

	if !wasRunning && abandoned == 0 {
		return
	}

	p.logger.Debug("session stopped",
		"records", p.records.len(),
		"abandoned", abandoned,
	)
}

// Begin opens a frame named name. line is an opaque source locator.
// The clock is started on the first Begin and never restarted.
func (p *Profiler) Begin(name string, line int) {
	if p.state != StateRunning {
		return
	}

	p.begin(name, "", false, line)
}

// End closes the innermost frame and finalizes its record.
// It returns an error wrapping ErrFrameMismatch when name is not the
// innermost frame's name; the popped frame is then discarded unfinalized.
func (p *Profiler) End(name string) error {
	if p.state != StateRunning {
		return nil
	}

	f, ok := p.frames.pop()
	if !ok {
		return errors.Wrapf(ErrNoActiveFrame, "ending frame %q", name)
	}

	if f.name != name {
		p.logger.Error("frame mismatch",
			"expected", f.name,
			"actual", name,
			"slot", f.slot,
		)

		return newMismatchError(f.name, name)
	}

	p.finalize(f)

	return nil
}

// Partition finalizes the innermost frame and replaces it with a frame of
// the same name labelled id, at the same depth.
func (p *Profiler) Partition(id string, line int) error {
	if p.state != StateRunning {
		return nil
	}

	f, ok := p.frames.pop()
	if !ok {
		return errors.Wrapf(ErrNoActiveFrame, "partitioning as %q", id)
	}

	p.finalize(f)
	p.begin(f.name, id, true, line)

	return nil
}

// Records returns a copy of every record in begin order.
func (p *Profiler) Records() []Record {
	return p.records.snapshot()
}

// Len returns the number of records.
func (p *Profiler) Len() int {
	return p.records.len()
}

// Reset discards all records. It fails with ErrFramesOpen while frames are
// open, since their slots would be invalidated.
func (p *Profiler) Reset() error {
	if n := p.frames.len(); n > 0 {
		return errors.Wrapf(ErrFramesOpen, "%d open", n)
	}

	p.records.reset()
	p.logger.Debug("records reset")

	return nil
}

func (p *Profiler) begin(name, id string, partitioned bool, line int) {
	if !p.clock.Running() {
		p.clock.Start()
	}

	start := p.clock.Ticks()

	slot := p.records.append(Record{
		Name:        name,
		ID:          id,
		Partitioned: partitioned,
		Depth:       p.depth,
		Line:        line,
		Ticks:       Unfinalized,
	})

	p.frames.push(frame{name: name, start: start, slot: slot})
	p.depth++
}

// finalize writes the elapsed ticks of f into its record.
//
// A frame whose start sample is 0 while the session is running is left
// unfinalized and the depth is not decremented. This only happens for a frame
// begun at the instant the clock started.
func (p *Profiler) finalize(f frame) {
	if p.state == StateRunning && f.start == 0 {
		p.logger.Debug("skipping zero-start frame",
			"name", f.name,
			"slot", f.slot,
		)

		return
	}

	ticks := p.clock.Ticks() - f.start
	p.depth--
	p.records.finalize(f.slot, ticks)
}
