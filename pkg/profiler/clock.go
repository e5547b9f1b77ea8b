package profiler

//go:generate mockgen -source=clock.go -destination=clock_mock.go -package=profiler

import "time"

// Clock is the monotonic tick source frames are timed against.
// One tick is one nanosecond.
type Clock interface {
	// Start begins counting. Calls after the first have no effect.
	Start()

	// Running reports whether Start has been called.
	Running() bool

	// Ticks returns the ticks elapsed since Start, or 0 before it.
	Ticks() int64
}

// MonotonicClock is a Clock backed by the runtime's monotonic time source.
// Once started it is never reset, so ticks stay continuous across sessions.
type MonotonicClock struct {
	origin  time.Time
	running bool

	// now is a function that returns the current time.
	// Used for testing to control time.
	now func() time.Time
}

// ClockOption configures a MonotonicClock.
type ClockOption func(*MonotonicClock)

// WithClockTimeFunc sets a custom time function for testing.
func WithClockTimeFunc(fn func() time.Time) ClockOption {
	return func(c *MonotonicClock) {
		if fn != nil {
			c.now = fn
		}
	}
}

// NewMonotonicClock creates a stopped clock.
func NewMonotonicClock(opts ...ClockOption) *MonotonicClock {
	c := &MonotonicClock{now: time.Now}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start records the origin on the first call.
func (c *MonotonicClock) Start() {
	if c.running {
		return
	}

	c.origin = c.now()
	c.running = true
}

// Running reports whether the clock has been started.
func (c *MonotonicClock) Running() bool {
	return c.running
}

// Ticks returns nanoseconds elapsed since Start.
func (c *MonotonicClock) Ticks() int64 {
	if !c.running {
		return 0
	}

	return c.now().Sub(c.origin).Nanoseconds()
}
