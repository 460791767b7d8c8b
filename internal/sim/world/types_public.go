package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"voxelsandbox/internal/persistence/snapshot"
	"voxelsandbox/internal/sim/world/terrain/store"
)

type EventKind string

const (
	EventChunkLoaded  EventKind = "CHUNK_LOADED"
	EventChunkEvicted EventKind = "CHUNK_EVICTED"
	EventBlockDug     EventKind = "BLOCK_DUG"
	EventBlockPlaced  EventKind = "BLOCK_PLACED"
	EventPickup       EventKind = "PICKUP"
	EventCrafted      EventKind = "CRAFTED"
	EventToolBroke    EventKind = "TOOL_BROKE"
	EventSaved        EventKind = "SAVED"
	EventSaveFailed   EventKind = "SAVE_FAILED"
	EventLoaded       EventKind = "LOADED"
	EventLoadFailed   EventKind = "LOAD_FAILED"

	EventNightfall      EventKind = "NIGHTFALL"
	EventDaybreak       EventKind = "DAYBREAK"
	EventDamaged        EventKind = "DAMAGED"
	EventAte            EventKind = "ATE"
	EventMonsterSpawned EventKind = "MONSTER_SPAWNED"
	EventMonsterKilled  EventKind = "MONSTER_KILLED"
	EventPlayerDowned   EventKind = "PLAYER_DOWNED"
)

type Event struct {
	Tick   uint64    `json:"tick"`
	Kind   EventKind `json:"kind"`
	Actor  string    `json:"actor,omitempty"`
	Pos    [3]int    `json:"pos"`
	Chunk  string    `json:"chunk,omitempty"`
	Block  uint16    `json:"block,omitempty"`
	Count  int       `json:"count,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

type EventLogger interface {
	WriteEvent(ev Event) error
}

// SaveEntry describes one successful save for indexing.
type SaveEntry struct {
	Tick   uint64
	Name   string
	Path   string
	Header snapshot.Header
	Seed   int64
	Chunks int
	Cells  int
}

type SaveIndex interface {
	RecordSave(e SaveEntry)
}

// StreamResult reports what one observer update changed in the resident set.
type StreamResult struct {
	Center   store.ChunkKey
	Loaded   []store.ChunkKey
	Evicted  []store.ChunkKey
	Resident int
}

type DigResult struct {
	Block     uint16
	Progress  float64
	Broken    bool
	Drop      uint16
	ToolBroke bool
}

// PlayerView is a copy of the player state safe to hand to other goroutines.
type PlayerView struct {
	Name        string
	HP          int
	Hunger      int
	Level       int
	CurrentTool int
	Tools       map[int]int
	Inventory   map[uint16]int
	Pos         mgl64.Vec3
}
