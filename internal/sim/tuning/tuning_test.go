package tuning

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"voxelsandbox/internal/sim/world/terrain/gen"
	"voxelsandbox/internal/sim/world/terrain/store"
)

func TestLoadRepoTuningMatchesDefaults(t *testing.T) {
	got, err := Load(filepath.Join("..", "..", "..", "configs", "tuning.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Defaults()
	// An empty YAML mapping decodes to an empty, non-nil map.
	got.StarterItems = nil
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("configs/tuning.yaml drifted from Defaults():\n got=%+v\nwant=%+v", got, want)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte("render_distance: 5\nworldgen:\n  amplitude: 12\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.RenderDistance != 5 || got.WorldGen.Amplitude != 12 {
		t.Fatalf("overrides not applied: %+v", got)
	}
	if got.ChunkSize != 16 || got.WorldGen.CaveThreshold != 0.4 {
		t.Fatalf("defaults lost: %+v", got)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	for i, body := range []string{
		"max_updates_per_tick: 0\n",
		"render_distance: -1\n",
		"starter_items:\n  DIRT: -3\n",
		"chunk_size: [16, 16]\n",
	} {
		path := filepath.Join(dir, "t.yaml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("case %d: expected error for %q", i, body)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestDefaultsConvertToEngineDefaults(t *testing.T) {
	d := Defaults()
	if got, want := d.GenParams(), gen.DefaultParams(); got != want {
		t.Fatalf("gen params mismatch:\n got %+v\nwant %+v", got, want)
	}
	if got, want := d.DecorParams(), store.DefaultDecorParams(); got != want {
		t.Fatalf("decor params mismatch:\n got %+v\nwant %+v", got, want)
	}
}
