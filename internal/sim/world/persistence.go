package world

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"voxelsandbox/internal/persistence/saves"
	"voxelsandbox/internal/persistence/snapshot"
	"voxelsandbox/internal/sim/world/terrain/gen"
	"voxelsandbox/internal/sim/world/terrain/store"
)

var ErrNoSaveStore = errors.New("no save store configured")

// ExportSave builds the save record of the current state: the player, the seed
// and, for every resident chunk, the cells that differ from its regenerated baseline.
func (w *World) ExportSave() snapshot.SaveV1 {
	diffs := store.ExportDiffs(w.gen, w.cfg.Decor, w.chunks.Chunks())
	return snapshot.SaveV1{
		Player:       w.player.toV1(),
		WorldSeed:    snapshot.Seed(w.gen.Seed()),
		LoadedChunks: diffs,
		GameState: map[string]any{
			"world_id": w.cfg.ID,
			"tick":     w.tick.Load(),
			"drops":    len(w.drops),
			"day_tick": w.dayTick,
			"is_day":   w.IsDay(),
			"time":     dayPhase(w.IsDay()),
		},
	}
}

func dayPhase(isDay bool) string {
	if isDay {
		return "day"
	}
	return "night"
}

// dayTickFromState restores the day/night clock. Records without day_tick but
// with a "night" time start at the beginning of the night.
func dayTickFromState(gs map[string]any, dayLength uint64) uint64 {
	switch v := gs["day_tick"].(type) {
	case float64:
		if v >= 0 {
			return uint64(v)
		}
	case uint64:
		return v
	case int:
		if v >= 0 {
			return uint64(v)
		}
	case json.Number:
		if n, err := strconv.ParseUint(v.String(), 10, 64); err == nil {
			return n
		}
	}
	if t, _ := gs["time"].(string); t == "night" {
		return dayLength
	}
	return 0
}

// ImportSave replaces the world state with rec. A record without a seed gets a
// fresh random one. Diff cells outside the grid are skipped and returned; the
// rest of the record still applies.
func (w *World) ImportSave(rec snapshot.SaveV1) ([]error, error) {
	seed := w.rng.Int63()
	if rec.WorldSeed != nil {
		seed = *rec.WorldSeed
	}
	g := w.gen
	if seed != g.Seed() {
		ng, err := gen.New(seed, w.cfg.Gen, w.palette)
		if err != nil {
			return nil, err
		}
		g = ng
	}
	chunks, skipped := store.ImportDiffs(g, w.cfg.Decor, rec.LoadedChunks)

	w.gen = g
	w.chunks = store.NewChunkStore(g, w.cfg.Decor)
	w.chunks.Reset(chunks)
	w.player = playerFromV1(rec.Player, w.catalogs)
	w.dig = digState{}
	w.drops = nil
	w.monsters = nil
	w.dayTick = dayTickFromState(rec.GameState, w.rates.DayLength)
	return skipped, nil
}

// SaveGame writes the current state under name. Failures are reported as
// (false, reason) so an interactive driver can show them and keep running.
func (w *World) SaveGame(name string) (bool, string) {
	if w.saves == nil {
		return false, ErrNoSaveStore.Error()
	}
	rec := w.ExportSave()
	h, err := w.saves.Save(name, rec)
	if err != nil {
		w.emit(Event{Kind: EventSaveFailed, Detail: err.Error()})
		w.logf("save %s failed: %v", name, err)
		return false, fmt.Sprintf("save failed: %v", err)
	}
	cells := 0
	for _, c := range rec.LoadedChunks {
		cells += len(c)
	}
	w.emit(Event{Kind: EventSaved, Detail: name, Count: len(rec.LoadedChunks)})
	if w.index != nil {
		w.index.RecordSave(SaveEntry{
			Tick:   w.tick.Load(),
			Name:   name,
			Path:   w.saves.Path(name),
			Header: h,
			Seed:   w.gen.Seed(),
			Chunks: len(rec.LoadedChunks),
			Cells:  cells,
		})
	}
	return true, fmt.Sprintf("saved %s (%d chunks, %d changed cells)", name, len(rec.LoadedChunks), cells)
}

// LoadGame restores the named save, falling back through its backups.
func (w *World) LoadGame(name string) (bool, string) {
	if w.saves == nil {
		return false, ErrNoSaveStore.Error()
	}
	rec, path, err := w.saves.Load(name)
	if err != nil {
		w.emit(Event{Kind: EventLoadFailed, Detail: err.Error()})
		w.logf("load %s failed: %v", name, err)
		if errors.Is(err, saves.ErrNotFound) {
			return false, fmt.Sprintf("no save named %s", name)
		}
		return false, fmt.Sprintf("load failed: %v", err)
	}
	skipped, err := w.ImportSave(rec)
	if err != nil {
		w.emit(Event{Kind: EventLoadFailed, Detail: err.Error()})
		return false, fmt.Sprintf("load failed: %v", err)
	}
	for _, e := range skipped {
		w.logf("load %s: skipped %v", name, e)
	}
	w.emit(Event{Kind: EventLoaded, Detail: name, Count: w.chunks.Len()})
	msg := fmt.Sprintf("loaded %s (%d chunks)", name, w.chunks.Len())
	if path != w.saves.Path(name) {
		msg += " from backup"
	}
	if len(skipped) > 0 {
		msg += fmt.Sprintf(", %d cells skipped", len(skipped))
	}
	return true, msg
}

func (w *World) ListSaves() ([]string, error) {
	if w.saves == nil {
		return nil, ErrNoSaveStore
	}
	return w.saves.List()
}
