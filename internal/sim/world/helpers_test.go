package world

import (
	"testing"

	"voxelsandbox/internal/persistence/saves"
	"voxelsandbox/internal/sim/catalogs"
)

type recordingEvents struct {
	events []Event
}

func (r *recordingEvents) WriteEvent(ev Event) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingEvents) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

type recordingIndex struct {
	entries []SaveEntry
}

func (r *recordingIndex) RecordSave(e SaveEntry) { r.entries = append(r.entries, e) }

func newTestWorld(t *testing.T, cfg WorldConfig) *World {
	t.Helper()
	w, err := New(cfg, catalogs.Default())
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func newTestSaves(t *testing.T) *saves.Store {
	t.Helper()
	s, err := saves.New(t.TempDir(), saves.DefaultMaxBackups, nil)
	if err != nil {
		t.Fatalf("new saves: %v", err)
	}
	return s
}

// surfaceAt returns the surface y of column x, away from the decorated origin chunk.
func surfaceAt(t *testing.T, w *World, x int) int {
	t.Helper()
	if x >= 0 && x < w.gen.Dims().Size {
		t.Fatalf("column %d lies in the origin chunk", x)
	}
	return w.gen.SurfaceHeight(x)
}
