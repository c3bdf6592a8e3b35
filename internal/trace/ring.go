package trace

import (
	"bufio"
	"io"
	"sync"
)

// RingTracer keeps the most recent events in memory. The CLI dumps it on
// exit, which makes it the cheap default for diagnosing one bad session.
type RingTracer struct {
	mu    sync.Mutex
	buf   []Event
	next  int
	n     int
	level Level
}

// NewRingTracer keeps up to capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{buf: make([]Event, capacity), level: level}
}

// Emit stores a copy of ev, overwriting the oldest event when full.
func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stored.Seq = NextSeq()
	t.buf[t.next] = stored
	t.next = (t.next + 1) % len(t.buf)
	if t.n < len(t.buf) {
		t.n++
	}
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, t.n)
	start := (t.next - t.n + len(t.buf)) % len(t.buf)
	for i := 0; i < t.n; i++ {
		out = append(out, t.buf[(start+i)%len(t.buf)])
	}
	return out
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	bw := bufio.NewWriter(w)
	for _, ev := range t.Snapshot() {
		if _, err := bw.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Flush does nothing; events stay in memory.
func (t *RingTracer) Flush() error { return nil }

// Close does nothing.
func (t *RingTracer) Close() error { return nil }

// Level returns the configured level.
func (t *RingTracer) Level() Level { return t.level }

// Enabled reports whether the level lets anything through.
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
