package trace

import (
	"io"

	"github.com/hashicorp/go-multierror"
)

// MultiTracer fans out trace events to multiple tracers.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

// NewMultiTracer creates a new MultiTracer that emits to all provided tracers.
func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{
		tracers: tracers,
		level:   level,
	}
}

// Emit sends the event to all underlying tracers.
func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		tr.Emit(ev)
	}
}

// Flush flushes all underlying tracers.
func (t *MultiTracer) Flush() error {
	var errs *multierror.Error
	for _, tr := range t.tracers {
		if err := tr.Flush(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// Close closes all underlying tracers.
func (t *MultiTracer) Close() error {
	var errs *multierror.Error
	for _, tr := range t.tracers {
		if err := tr.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// Dump writes the contents of the first ring tracer, if any.
func (t *MultiTracer) Dump(w io.Writer, format Format) error {
	for _, tr := range t.tracers {
		if r, ok := tr.(*RingTracer); ok {
			return r.Dump(w, format)
		}
	}
	return nil
}

// Level returns the configured level.
func (t *MultiTracer) Level() Level {
	return t.level
}

// Enabled returns true if tracing is active.
func (t *MultiTracer) Enabled() bool {
	return t.level > LevelOff
}
