package main

import (
	"os"
	"path/filepath"
	"testing"

	persistlog "voxelsandbox/internal/persistence/log"
	"voxelsandbox/internal/sim/catalogs"
	"voxelsandbox/internal/sim/world"
)

func TestListEventFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"events-2024-05-01-10-000.jsonl.zst", "events-2024-05-01-09-001.jsonl.zst", "other.txt", "events-2024-05-01-09-000.jsonl.zst"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	files, err := listEventFiles(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"events-2024-05-01-09-000.jsonl.zst", "events-2024-05-01-09-001.jsonl.zst", "events-2024-05-01-10-000.jsonl.zst"}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), files)
	}
	for i := range want {
		if filepath.Base(files[i]) != want[i] {
			t.Fatalf("file %d: expected %s, got %s", i, want[i], files[i])
		}
	}
}

func TestReplayFileAppliesBlockEvents(t *testing.T) {
	w, err := world.New(world.WorldConfig{Seed: 9}, catalogs.Default())
	if err != nil {
		t.Fatalf("world: %v", err)
	}

	dir := t.TempDir()
	lw := persistlog.NewJSONLZstdWriter(dir, "events")
	evs := []world.Event{
		{Tick: 1, Kind: world.EventBlockPlaced, Pos: [3]int{40, 120, 3}, Block: catalogs.Wood},
		{Tick: 5, Kind: world.EventBlockPlaced, Pos: [3]int{40, 121, 3}, Block: catalogs.Sand},
		{Tick: 6, Kind: world.EventPickup, Pos: [3]int{40, 121, 3}, Block: catalogs.Sand, Count: 1},
		{Tick: 7, Kind: world.EventBlockPlaced, Pos: [3]int{41, 121, 3}, Block: catalogs.Wood},
		{Tick: 8, Kind: world.EventBlockDug, Pos: [3]int{41, 121, 3}, Block: catalogs.Wood},
	}
	for _, ev := range evs {
		if err := lw.Write(ev); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := lw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	files, err := listEventFiles(dir)
	if err != nil || len(files) != 1 {
		t.Fatalf("expected one events file, got %v (err=%v)", files, err)
	}

	st := replayStats{kinds: map[world.EventKind]int{}}
	if err := replayFile(w, files[0], 3, 0, &st); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if st.events != 4 || st.applied != 3 || st.lastTick != 8 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	if st.kinds[world.EventPickup] != 1 {
		t.Fatalf("expected 1 pickup counted, got %d", st.kinds[world.EventPickup])
	}

	check := func(x, y, z int, want uint16) {
		t.Helper()
		got, err := w.Block(x, y, z)
		if err != nil {
			t.Fatalf("block (%d,%d,%d): %v", x, y, z, err)
		}
		if got != want {
			t.Fatalf("block (%d,%d,%d): expected %d, got %d", x, y, z, want, got)
		}
	}
	check(40, 120, 3, catalogs.Air)
	check(40, 121, 3, catalogs.Sand)
	check(41, 121, 3, catalogs.Air)
}

func TestGameStateTick(t *testing.T) {
	if got := gameStateTick(map[string]any{"tick": float64(42)}); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	if got := gameStateTick(map[string]any{}); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
