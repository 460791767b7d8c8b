package log

import (
	"path/filepath"
	"sync/atomic"

	"voxelsandbox/internal/sim/world"
)

// EventLogger writes world events as compressed JSONL under <dir>/events.
// A disabled logger accepts and discards entries.
type EventLogger struct {
	w       *JSONLZstdWriter
	enabled atomic.Bool
}

func NewEventLogger(dataDir string, enabled bool) *EventLogger {
	l := &EventLogger{w: NewJSONLZstdWriter(filepath.Join(dataDir, "events"), "events")}
	l.enabled.Store(enabled)
	return l
}

func (l *EventLogger) SetEnabled(on bool) { l.enabled.Store(on) }

func (l *EventLogger) WriteEvent(ev world.Event) error {
	if !l.enabled.Load() {
		return nil
	}
	return l.w.Write(ev)
}

func (l *EventLogger) Close() error { return l.w.Close() }
