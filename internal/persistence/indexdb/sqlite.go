package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"voxelsandbox/internal/sim/catalogs"
	"voxelsandbox/internal/sim/tuning"
	"voxelsandbox/internal/sim/world"
)

// SQLiteIndex is a secondary read model of saves and gameplay events. Save
// files and the JSONL event log stay the source of truth; writes are queued
// and dropped when the writer falls behind.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	// mu guards closed and the send side of ch.
	mu     sync.RWMutex
	closed bool

	dropSave  atomic.Uint64
	dropEvent atomic.Uint64
}

type reqKind int

const (
	reqSave reqKind = iota + 1
	reqEvent
)

type req struct {
	kind reqKind

	save  world.SaveEntry
	event world.Event
}

type Stats struct {
	QueueDepth     int
	QueueCapacity  int
	DropSaveTotal  uint64
	DropEventTotal uint64
}

// SaveRecord is one row of the save history.
type SaveRecord struct {
	ID       int64
	Name     string
	SaveID   string
	Tick     uint64
	Path     string
	Seed     int64
	Chunks   int
	Cells    int
	Checksum string
	SavedAt  string
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 16384),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS catalogs (
			name TEXT PRIMARY KEY,
			digest TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS saves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			save_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			path TEXT NOT NULL,
			seed INTEGER NOT NULL,
			chunks INTEGER NOT NULL,
			cells INTEGER NOT NULL,
			checksum TEXT NOT NULL,
			saved_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_saves_name ON saves(name, id);`,
		`CREATE TABLE IF NOT EXISTS events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			tick INTEGER NOT NULL,
			kind TEXT NOT NULL,
			actor TEXT,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			chunk TEXT,
			block INTEGER NOT NULL,
			count INTEGER NOT NULL,
			detail TEXT,
			raw_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_kind_tick ON events(kind, tick);`,
		`CREATE INDEX IF NOT EXISTS idx_events_pos ON events(x, z, y);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:     len(s.ch),
		QueueCapacity:  cap(s.ch),
		DropSaveTotal:  s.dropSave.Load(),
		DropEventTotal: s.dropEvent.Load(),
	}
}

// RecordSave queues one save history row.
func (s *SQLiteIndex) RecordSave(e world.SaveEntry) {
	if s == nil {
		return
	}
	if !s.enqueue(req{kind: reqSave, save: e}) {
		s.dropSave.Add(1)
	}
}

// WriteEvent queues one gameplay event. It never blocks the world loop.
func (s *SQLiteIndex) WriteEvent(ev world.Event) error {
	if s == nil {
		return nil
	}
	if !s.enqueue(req{kind: reqEvent, event: ev}) {
		s.dropEvent.Add(1)
	}
	return nil
}

// enqueue reports false only when the queue is full. Sends after Close are
// discarded without counting as drops.
func (s *SQLiteIndex) enqueue(r req) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return true
	}
	select {
	case s.ch <- r:
		return true
	default:
		return false
	}
}

func (s *SQLiteIndex) UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error {
	if s == nil {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	type kv struct {
		name   string
		digest string
		json   []byte
	}
	var rows []kv
	read := func(name, file, digest string) {
		if configDir == "" {
			return
		}
		b, err := os.ReadFile(filepath.Join(configDir, file))
		if err != nil {
			return
		}
		rows = append(rows, kv{name: name, digest: digest, json: b})
	}
	read("blocks", "blocks.json", cats.Blocks.Digest)
	read("tools", "tools.json", cats.Tools.Digest)
	read("recipes", "recipes.json", cats.Recipes.Digest)

	// Tuning: store the values we actually apply (canonical JSON).
	{
		b, _ := json.Marshal(tune)
		sum := sha256.Sum256(b)
		rows = append(rows, kv{name: "tuning", digest: hex.EncodeToString(sum[:]), json: b})
	}

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('schema_version','1')`); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES('protocol_version',?)`, tune.ProtocolVersion); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO catalogs(name,digest,json,updated_at) VALUES(?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		if r.name == "" || r.digest == "" || len(r.json) == 0 {
			continue
		}
		if _, err := stmt.Exec(r.name, r.digest, string(r.json), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// History returns the most recent saves, newest first. An empty name matches
// every save.
func (s *SQLiteIndex) History(ctx context.Context, name string, limit int) ([]SaveRecord, error) {
	return QueryHistory(ctx, s.db, name, limit)
}

// QueryHistory reads the save history from any handle on an index database.
func QueryHistory(ctx context.Context, db *sql.DB, name string, limit int) ([]SaveRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `SELECT id,name,save_id,tick,path,seed,chunks,cells,checksum,saved_at
		FROM saves WHERE (?1 = '' OR name = ?1) ORDER BY id DESC LIMIT ?2`, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SaveRecord
	for rows.Next() {
		var r SaveRecord
		var tick int64
		if err := rows.Scan(&r.ID, &r.Name, &r.SaveID, &tick, &r.Path, &r.Seed, &r.Chunks, &r.Cells, &r.Checksum, &r.SavedAt); err != nil {
			return nil, err
		}
		r.Tick = uint64(tick)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertSave, _ := s.db.Prepare(`INSERT INTO saves(name,save_id,tick,path,seed,chunks,cells,checksum,saved_at) VALUES(?,?,?,?,?,?,?,?,?)`)
	insertEvent, _ := s.db.Prepare(`INSERT INTO events(tick,kind,actor,x,y,z,chunk,block,count,detail,raw_json) VALUES(?,?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		if insertSave != nil {
			_ = insertSave.Close()
		}
		if insertEvent != nil {
			_ = insertEvent.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 500
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqSave:
			e := r.save
			if insertSave != nil {
				if _, err := tx.Stmt(insertSave).Exec(
					e.Name,
					e.Header.SaveID,
					int64(e.Tick),
					e.Path,
					e.Seed,
					e.Chunks,
					e.Cells,
					e.Header.Checksum,
					e.Header.SavedAt,
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}
			// Saves are rare and read back by admin tools; make them visible now.
			commit()
			continue

		case reqEvent:
			ev := r.event
			raw, _ := json.Marshal(ev)
			if insertEvent != nil {
				if _, err := tx.Stmt(insertEvent).Exec(
					int64(ev.Tick),
					string(ev.Kind),
					ev.Actor,
					ev.Pos[0], ev.Pos[1], ev.Pos[2],
					ev.Chunk,
					int64(ev.Block),
					ev.Count,
					ev.Detail,
					string(raw),
				); err != nil {
					rollback()
					continue
				}
				opCount++
			}
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}
