package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"voxelsandbox/internal/persistence/saves"
	"voxelsandbox/internal/persistence/snapshot"
	"voxelsandbox/internal/sim/world/terrain/store"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "inspect":
			inspectCmd(os.Args[2:])
			return
		case "restore":
			restoreCmd(os.Args[2:])
			return
		case "delete":
			deleteCmd(os.Args[2:])
			return
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state":
			stateCmd(os.Args[2:])
			return
		case "save":
			saveCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

func savesDir(dataDir, worldID string) string {
	return filepath.Join(dataDir, "worlds", worldID, "saves")
}

func openStore(dataDir, worldID string, maxBackups int) *saves.Store {
	if strings.TrimSpace(worldID) == "" {
		fmt.Fprintln(os.Stderr, "missing -world")
		os.Exit(2)
	}
	st, err := saves.New(savesDir(dataDir, worldID), maxBackups, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open saves:", err)
		os.Exit(1)
	}
	return st
}

func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (optional)")
	_ = fs.Parse(args)

	if *worldID == "" {
		entries, err := os.ReadDir(filepath.Join(*dataDir, "worlds"))
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
		for _, e := range entries {
			if e.IsDir() {
				fmt.Println(e.Name())
			}
		}
		return
	}

	st := openStore(*dataDir, *worldID, saves.DefaultMaxBackups)
	names, err := st.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(1)
	}
	for _, name := range names {
		line := name
		if slots := st.Backups(name); len(slots) > 0 {
			parts := make([]string, 0, len(slots))
			for _, s := range slots {
				parts = append(parts, fmt.Sprint(s))
			}
			line += " backups=" + strings.Join(parts, ",")
		}
		fmt.Println(line)
	}
}

func inspectCmd(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id")
	name := fs.String("name", "", "save name")
	slot := fs.Int("slot", 0, "backup slot to read (0 = current file)")
	path := fs.String("path", "", "save file path (overrides -world/-name)")
	chunks := fs.Bool("chunks", false, "print per-chunk cell counts")
	_ = fs.Parse(args)

	p := strings.TrimSpace(*path)
	if p == "" {
		if strings.TrimSpace(*name) == "" {
			fmt.Fprintln(os.Stderr, "missing -name or -path")
			os.Exit(2)
		}
		st := openStore(*dataDir, *worldID, saves.DefaultMaxBackups)
		p = st.Path(*name)
		if *slot > 0 {
			p = st.BackupPath(*name, *slot)
		}
	}

	rec, err := snapshot.ReadSave(p)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read save:", err)
		os.Exit(1)
	}
	seed := "none"
	if rec.WorldSeed != nil {
		seed = fmt.Sprint(*rec.WorldSeed)
	}
	cells := 0
	for _, cs := range rec.LoadedChunks {
		cells += len(cs)
	}
	pl := rec.Player
	fmt.Printf("save v%d id=%s saved_at=%s checksum=%s seed=%s chunks=%d cells=%d\n",
		rec.Header.Version, rec.Header.SaveID, rec.Header.SavedAt, rec.Header.Checksum, seed, len(rec.LoadedChunks), cells)
	fmt.Printf("player %s hp=%d hunger=%d level=%d tool=%d pos=(%.2f,%.2f,%.2f) items=%d tools=%d\n",
		pl.Name, pl.HP, pl.Hunger, pl.Level, pl.CurrentTool, pl.Position.X, pl.Position.Y, pl.Position.Z,
		len(pl.Inventory), len(pl.Tools))
	if !*chunks {
		return
	}
	keys := make([]store.ChunkKey, 0, len(rec.LoadedChunks))
	raw := make(map[store.ChunkKey]string, len(rec.LoadedChunks))
	bad := 0
	for s := range rec.LoadedChunks {
		k, err := store.ParseChunkKey(s)
		if err != nil {
			bad++
			continue
		}
		keys = append(keys, k)
		raw[k] = s
	}
	store.SortKeys(keys)
	for _, k := range keys {
		fmt.Printf("  chunk %s cells=%d\n", k, len(rec.LoadedChunks[raw[k]]))
	}
	if bad > 0 {
		fmt.Printf("  unparsable keys=%d\n", bad)
	}
}

// restoreCmd promotes a backup slot to the current save. The current file is
// rotated into the backups like any other save.
func restoreCmd(args []string) {
	fs := flag.NewFlagSet("restore", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id")
	name := fs.String("name", "", "save name")
	slot := fs.Int("slot", 1, "backup slot to restore from")
	maxBackups := fs.Int("max_backups", saves.DefaultMaxBackups, "backup slots to keep")
	_ = fs.Parse(args)

	if strings.TrimSpace(*name) == "" {
		fmt.Fprintln(os.Stderr, "missing -name")
		os.Exit(2)
	}
	if *slot <= 0 {
		fmt.Fprintln(os.Stderr, "slot must be >= 1")
		os.Exit(2)
	}
	st := openStore(*dataDir, *worldID, *maxBackups)
	src := st.BackupPath(*name, *slot)
	rec, err := snapshot.ReadSave(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read backup:", err)
		os.Exit(1)
	}
	hdr, err := st.Save(*name, rec)
	if err != nil {
		fmt.Fprintln(os.Stderr, "save:", err)
		os.Exit(1)
	}
	fmt.Printf("restored %s from slot %d: id=%s checksum=%s\n", *name, *slot, hdr.SaveID, hdr.Checksum)
}

func deleteCmd(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id")
	name := fs.String("name", "", "save name")
	_ = fs.Parse(args)

	if strings.TrimSpace(*name) == "" {
		fmt.Fprintln(os.Stderr, "missing -name")
		os.Exit(2)
	}
	st := openStore(*dataDir, *worldID, saves.DefaultMaxBackups)
	names, err := st.List()
	if err != nil {
		fmt.Fprintln(os.Stderr, "list:", err)
		os.Exit(1)
	}
	if i := sort.SearchStrings(names, *name); i >= len(names) || names[i] != *name {
		fmt.Fprintln(os.Stderr, "no such save:", *name)
		os.Exit(1)
	}
	if err := st.Delete(*name); err != nil {
		fmt.Fprintln(os.Stderr, "delete:", err)
		os.Exit(1)
	}
	fmt.Println("deleted", *name)
}
