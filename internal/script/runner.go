package script

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/frametrace/pkg/logger"
	"github.com/smykla-skalski/frametrace/pkg/profiler"
)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// StepError reports the step at which a script stopped.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	if e.Step.Arg != "" {
		return fmt.Sprintf("line %d: %s %q: %v", e.Step.Line, e.Step.Op, e.Step.Arg, e.Err)
	}

	return fmt.Sprintf("line %d: %s: %v", e.Step.Line, e.Step.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Runner executes scripts against a profiler.
type Runner struct {
	profiler  *profiler.Profiler
	sleep     SleepFunc
	logger    logger.Logger
	autoStart bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithSleepFunc replaces the sleep implementation.
func WithSleepFunc(fn SleepFunc) RunnerOption {
	return func(r *Runner) {
		if fn != nil {
			r.sleep = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) RunnerOption {
	return func(r *Runner) {
		if log != nil {
			r.logger = log
		}
	}
}

// WithAutoStart starts a session before the first step.
func WithAutoStart(enabled bool) RunnerOption {
	return func(r *Runner) {
		r.autoStart = enabled
	}
}

// NewRunner creates a Runner driving p.
func NewRunner(p *profiler.Profiler, opts ...RunnerOption) *Runner {
	r := &Runner{
		profiler: p,
		sleep:    sleepContext,
		logger:   logger.NewNoOpLogger(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes every step of s in order. It stops at the first protocol
// violation and returns a *StepError naming the step.
func (r *Runner) Run(ctx context.Context, s *Script) error {
	r.logger.Debug("running script", "name", s.Name, "steps", s.Count())

	if r.autoStart {
		r.profiler.Start()
	}

	return r.runSteps(ctx, s.Steps)
}

func (r *Runner) runSteps(ctx context.Context, steps []Step) error {
	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "script interrupted")
		}

		if st.Op == OpRepeat {
			for range st.Times {
				if err := r.runSteps(ctx, st.Steps); err != nil {
					return err
				}
			}

			continue
		}

		if err := r.runStep(ctx, st); err != nil {
			return &StepError{Step: st, Err: err}
		}
	}

	return nil
}

func (r *Runner) runStep(ctx context.Context, st Step) error {
	r.logger.Debug("step", "line", st.Line, "op", string(st.Op), "arg", st.Arg)

	switch st.Op {
	case OpStart:
		r.profiler.Start()
	case OpStop:
		r.profiler.Stop()
	case OpReset:
		return r.profiler.Reset()
	case OpBegin:
		r.profiler.Begin(st.Arg, st.Line)
	case OpEnd:
		return r.profiler.End(st.Arg)
	case OpPartition:
		return r.profiler.Partition(st.Arg, st.Line)
	case OpLog:
		r.profiler.Log().Write(st.Arg, st.Args...)
	case OpSleep:
		return r.sleep(ctx, st.Sleep)
	default:
		return errors.Newf("unknown operation %q", st.Op)
	}

	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
