package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"voxelsandbox/internal/persistence/indexdb"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	name := fs.String("name", "", "save name filter (saves)")
	kind := fs.String("kind", "", "event kind filter (events)")
	limit := fs.Int("limit", 20, "result limit")
	_ = fs.Parse(args)

	q := "saves"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "worlds", *worldID, "index", "world.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	if *limit <= 0 {
		*limit = 20
	}

	switch q {
	case "saves":
		recs, err := indexdb.QueryHistory(context.Background(), db, *name, *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		for _, r := range recs {
			printJSON(struct {
				ID       int64  `json:"id"`
				Name     string `json:"name"`
				SaveID   string `json:"save_id"`
				Tick     uint64 `json:"tick"`
				Path     string `json:"path"`
				Seed     int64  `json:"seed"`
				Chunks   int    `json:"chunks"`
				Cells    int    `json:"cells"`
				Checksum string `json:"checksum"`
				SavedAt  string `json:"saved_at"`
			}{r.ID, r.Name, r.SaveID, r.Tick, r.Path, r.Seed, r.Chunks, r.Cells, r.Checksum, r.SavedAt})
		}

	case "events":
		rows, err := db.Query(`SELECT seq,tick,kind,actor,x,y,z,chunk,block,count,detail FROM events
			WHERE (?1 = '' OR kind = ?1) ORDER BY seq DESC LIMIT ?2`, strings.ToUpper(*kind), *limit)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Seq    int64          `json:"seq"`
				Tick   uint64         `json:"tick"`
				Kind   string         `json:"kind"`
				Actor  sql.NullString `json:"-"`
				X      int            `json:"x"`
				Y      int            `json:"y"`
				Z      int            `json:"z"`
				Chunk  sql.NullString `json:"-"`
				Block  int            `json:"block"`
				Count  int            `json:"count"`
				Detail sql.NullString `json:"-"`

				ActorS  string `json:"actor,omitempty"`
				ChunkS  string `json:"chunk,omitempty"`
				DetailS string `json:"detail,omitempty"`
			}
			if err := rows.Scan(&r.Seq, &r.Tick, &r.Kind, &r.Actor, &r.X, &r.Y, &r.Z, &r.Chunk, &r.Block, &r.Count, &r.Detail); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			r.ActorS, r.ChunkS, r.DetailS = r.Actor.String, r.Chunk.String, r.Detail.String
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "rows:", err)
			os.Exit(1)
		}

	case "catalogs":
		rows, err := db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Name      string `json:"name"`
				Digest    string `json:"digest"`
				UpdatedAt string `json:"updated_at"`
			}
			if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "rows:", err)
			os.Exit(1)
		}

	case "meta":
		rows, err := db.Query(`SELECT key,value FROM meta ORDER BY key`)
		if err != nil {
			fmt.Fprintln(os.Stderr, "query:", err)
			os.Exit(1)
		}
		defer rows.Close()
		for rows.Next() {
			var k, v string
			if err := rows.Scan(&k, &v); err != nil {
				fmt.Fprintln(os.Stderr, "scan:", err)
				os.Exit(1)
			}
			fmt.Printf("%s=%s\n", k, v)
		}
		if err := rows.Err(); err != nil {
			fmt.Fprintln(os.Stderr, "rows:", err)
			os.Exit(1)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown query:", q, "(want saves|events|catalogs|meta)")
		os.Exit(2)
	}
}

func printJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, "json:", err)
		os.Exit(1)
	}
	fmt.Println(string(b))
}
