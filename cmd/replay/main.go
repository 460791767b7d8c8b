package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"voxelsandbox/internal/persistence/snapshot"
	"voxelsandbox/internal/sim/catalogs"
	"voxelsandbox/internal/sim/tuning"
	"voxelsandbox/internal/sim/world"
	"voxelsandbox/internal/sim/world/terrain/store"
)

func main() {
	var (
		savePath   = flag.String("save", "", "path to a .json.zst save")
		eventsDir  = flag.String("events", "", "events dir containing events-*.jsonl.zst (optional)")
		configDir  = flag.String("configs", "./configs", "config directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		fromTick   = flag.Uint64("from_tick", 0, "apply block events from this tick (inclusive; default: save tick + 1)")
		toTick     = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *savePath == "" {
		fmt.Fprintln(os.Stderr, "missing -save")
		os.Exit(2)
	}

	rec, err := snapshot.ReadSave(*savePath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read save:", err)
		os.Exit(1)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}
	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		tune = tuning.Defaults()
	}

	worldID, _ := rec.GameState["world_id"].(string)
	w, err := world.New(world.WorldConfig{
		ID:           worldID,
		TickRateHz:   tune.TickRateHz,
		PlayerName:   rec.Player.Name,
		StarterItems: tune.StarterItems,
		Gen:          tune.GenParams(),
		Decor:        tune.DecorParams(),
	}, cats)
	if err != nil {
		fmt.Fprintln(os.Stderr, "world:", err)
		os.Exit(1)
	}
	skipped, err := w.ImportSave(rec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "import save:", err)
		os.Exit(1)
	}

	seed := "none"
	if rec.WorldSeed != nil {
		seed = fmt.Sprint(*rec.WorldSeed)
	}
	saveTick := gameStateTick(rec.GameState)
	cells := 0
	for _, cs := range rec.LoadedChunks {
		cells += len(cs)
	}
	fmt.Printf("save v%d id=%s saved_at=%s world=%s tick=%d seed=%s player=%s chunks=%d cells=%d skipped=%d\n",
		rec.Header.Version, rec.Header.SaveID, rec.Header.SavedAt, worldID, saveTick, seed,
		rec.Player.Name, len(rec.LoadedChunks), cells, len(skipped))
	for _, e := range skipped {
		fmt.Println("  skipped:", e)
	}

	if *eventsDir != "" {
		start := *fromTick
		if start == 0 {
			start = saveTick + 1
		}
		files, err := listEventFiles(*eventsDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "list events:", err)
			os.Exit(1)
		}
		if len(files) == 0 {
			fmt.Fprintln(os.Stderr, "no events files found in", *eventsDir)
			os.Exit(1)
		}
		var st replayStats
		st.kinds = map[world.EventKind]int{}
		for _, path := range files {
			if err := replayFile(w, path, start, *toTick, &st); err != nil {
				fmt.Fprintln(os.Stderr, "replay:", err)
				os.Exit(1)
			}
		}
		fmt.Printf("replay ok: events=%d applied=%d last_tick=%d\n", st.events, st.applied, st.lastTick)
		kinds := make([]string, 0, len(st.kinds))
		for k := range st.kinds {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("  %s=%d\n", k, st.kinds[world.EventKind(k)])
		}
	}

	keys := w.Chunks().LoadedChunkKeys()
	store.SortKeys(keys)
	for _, k := range keys {
		ch, _ := w.Chunks().Chunk(k)
		d := ch.Digest()
		fmt.Printf("chunk %s %s\n", k, hex.EncodeToString(d[:]))
	}
}

func gameStateTick(gs map[string]any) uint64 {
	switch v := gs["tick"].(type) {
	case float64:
		if v > 0 {
			return uint64(v)
		}
	case json.Number:
		n, _ := v.Int64()
		if n > 0 {
			return uint64(n)
		}
	}
	return 0
}

type replayStats struct {
	events   int
	applied  int
	lastTick uint64
	kinds    map[world.EventKind]int
}

func listEventFiles(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "events-") && strings.HasSuffix(name, ".jsonl.zst") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, filepath.Join(dir, name))
	}
	return out, nil
}

// replayFile re-applies block edits from one event file onto w.
func replayFile(w *world.World, path string, fromTick, toTick uint64, st *replayStats) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	for sc.Scan() {
		var ev world.Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			return fmt.Errorf("%s: unmarshal: %w", filepath.Base(path), err)
		}
		if ev.Tick < fromTick {
			continue
		}
		if toTick != 0 && ev.Tick > toTick {
			return nil
		}
		st.events++
		st.kinds[ev.Kind]++
		st.lastTick = ev.Tick

		var id uint16
		switch ev.Kind {
		case world.EventBlockDug:
			id = catalogs.Air
		case world.EventBlockPlaced:
			id = ev.Block
		default:
			continue
		}
		if err := w.SetBlock(ev.Pos[0], ev.Pos[1], ev.Pos[2], id); err != nil {
			return fmt.Errorf("tick %d %s at %v: %w", ev.Tick, ev.Kind, ev.Pos, err)
		}
		st.applied++
	}
	return sc.Err()
}
