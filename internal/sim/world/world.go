package world

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"voxelsandbox/internal/persistence/saves"
	"voxelsandbox/internal/sim/catalogs"
	"voxelsandbox/internal/sim/world/feature/entities/items"
	"voxelsandbox/internal/sim/world/feature/entities/monsters"
	"voxelsandbox/internal/sim/world/feature/survival"
	"voxelsandbox/internal/sim/world/logic/mathx"
	"voxelsandbox/internal/sim/world/terrain/gen"
	"voxelsandbox/internal/sim/world/terrain/store"
)

// World owns the resident chunks, the player, the dropped items and the
// monsters.
// Outside of Run all state must be accessed from a single goroutine; while Run
// is active, other goroutines go through Submit.
type World struct {
	cfg      WorldConfig
	catalogs *catalogs.Catalogs
	palette  gen.Palette

	tick atomic.Uint64

	gen    *gen.Generator
	chunks *store.ChunkStore

	player *Player
	dig    digState

	drops      []items.Drop
	nextDropID uint64

	monsters      []monsters.Monster
	nextMonsterID uint64
	monsterParams monsters.Params

	// dayTick drives the day/night cycle; it is saved, the tick counter is not.
	dayTick uint64
	rates   survival.Rates

	// Food value per item, and the item a killed monster drops.
	foods map[uint16]int
	meat  uint16

	// Seeds spawn search and replacement seeds for records saved without one.
	rng *rand.Rand

	inbox    chan commandEnvelope
	stop     chan struct{}
	stopOnce sync.Once

	// Optional collaborators (may be nil).
	saves  *saves.Store
	events EventLogger
	index  SaveIndex
	logger *log.Logger

	metrics atomic.Value // WorldMetrics
}

type digState struct {
	active   bool
	pos      [3]int
	block    uint16
	progress float64
}

// paletteFromCatalogs resolves the block ids terrain generation needs by name.
func paletteFromCatalogs(cats *catalogs.Catalogs) (gen.Palette, error) {
	b := func(id string) (uint16, error) {
		v, ok := cats.Blocks.Code(id)
		if !ok {
			return 0, fmt.Errorf("missing block id in catalog: %s", id)
		}
		return v, nil
	}
	var pal gen.Palette
	for _, r := range []struct {
		id  string
		dst *uint16
	}{
		{"AIR", &pal.Air},
		{"GRASS", &pal.Grass},
		{"DIRT", &pal.Dirt},
		{"STONE", &pal.Stone},
		{"SAND", &pal.Sand},
		{"DEEP_STONE", &pal.DeepStone},
		{"WOOD", &pal.Wood},
		{"LEAVES", &pal.Leaves},
		{"COAL_ORE", &pal.CoalOre},
		{"IRON_ORE", &pal.IronOre},
		{"GOLD_ORE", &pal.GoldOre},
	} {
		v, err := b(r.id)
		if err != nil {
			return gen.Palette{}, err
		}
		*r.dst = v
	}
	return pal, nil
}

func New(cfg WorldConfig, cats *catalogs.Catalogs) (*World, error) {
	if cats == nil {
		return nil, fmt.Errorf("nil catalogs")
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	pal, err := paletteFromCatalogs(cats)
	if err != nil {
		return nil, err
	}
	g, err := gen.New(cfg.Seed, cfg.Gen, pal)
	if err != nil {
		return nil, err
	}
	starter := map[uint16]int{}
	for id, n := range cfg.StarterItems {
		code, ok := cats.Blocks.Code(id)
		if !ok {
			return nil, fmt.Errorf("starter item: unknown block id %s", id)
		}
		starter[code] = n
	}

	w := &World{
		cfg:           cfg,
		catalogs:      cats,
		palette:       pal,
		gen:           g,
		chunks:        store.NewChunkStore(g, cfg.Decor),
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		inbox:         make(chan commandEnvelope, 1024),
		stop:          make(chan struct{}),
		rates:         survival.RatesFor(cfg.TickRateHz),
		monsterParams: monsters.ParamsFor(cfg.TickRateHz),
		foods:         map[uint16]int{},
		meat:          pal.Air,
	}
	if code, ok := cats.Blocks.Code("MEAT"); ok {
		w.meat = code
		w.foods[code] = survival.MeatFood
	}
	w.player = newPlayer(cfg.PlayerName, w.SafeSpawn(w.rng), starter)
	w.publishMetrics(0)
	return w, nil
}

func (w *World) SetSaveStore(s *saves.Store)  { w.saves = s }
func (w *World) SetEventLogger(l EventLogger) { w.events = l }
func (w *World) SetSaveIndex(idx SaveIndex)   { w.index = idx }
func (w *World) SetLogger(l *log.Logger)      { w.logger = l }

func (w *World) ID() string                   { return w.cfg.ID }
func (w *World) Config() WorldConfig          { return w.cfg }
func (w *World) Catalogs() *catalogs.Catalogs { return w.catalogs }
func (w *World) Seed() int64                  { return w.gen.Seed() }
func (w *World) Generator() *gen.Generator    { return w.gen }
func (w *World) Chunks() *store.ChunkStore    { return w.chunks }
func (w *World) CurrentTick() uint64          { return w.tick.Load() }
func (w *World) Player() PlayerView           { return w.player.view() }
func (w *World) Drops() []items.Drop          { return append([]items.Drop(nil), w.drops...) }

// Block reads the block at world position (x, y, z); y grows upward.
func (w *World) Block(x, y, z int) (uint16, error) {
	return w.chunks.GetBlock(x, y, z)
}

// SetBlock writes a block without any gameplay checks.
func (w *World) SetBlock(x, y, z int, id uint16) error {
	if _, ok := w.catalogs.Blocks.Def(id); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBlock, id)
	}
	if err := w.chunks.SetBlock(x, y, z, id); err != nil {
		return err
	}
	if w.dig.active && w.dig.pos == [3]int{x, y, z} {
		w.dig = digState{}
	}
	return nil
}

func (w *World) emit(ev Event) {
	if w.events == nil {
		return
	}
	ev.Tick = w.tick.Load()
	if ev.Actor == "" {
		ev.Actor = w.player.Name
	}
	if err := w.events.WriteEvent(ev); err != nil {
		w.logf("event log: %v", err)
	}
}

func (w *World) logf(format string, args ...any) {
	if w.logger != nil {
		w.logger.Printf(format, args...)
	}
}

func blockPos(p mgl64.Vec3) (int, int, int) {
	return mathx.FloorToInt(p[0]), mathx.FloorToInt(p[1]), mathx.FloorToInt(p[2])
}
