package world

import (
	"context"
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"voxelsandbox/internal/sim/world/terrain/store"
)

type CommandKind int

const (
	CmdObserve CommandKind = iota + 1
	CmdDig
	CmdPlace
	CmdCraft
	CmdEquip
	CmdSave
	CmdLoad
	CmdList
	CmdState
	CmdChunk
	CmdEat
	CmdAttack
)

type Command struct {
	Kind  CommandKind
	Pos   mgl64.Vec3
	DT    float64
	Block uint16
	Count int
	Tool  int
	Name  string
	Chunk store.ChunkKey
}

// Result is the reply to one Command. Err is set for rejected actions; save and
// load failures are reported through OK and Message instead.
type Result struct {
	Tick    uint64
	Seed    int64
	OK      bool
	Message string
	Err     error
	IsDay   bool

	Stream *StreamResult
	Dig    *DigResult
	Attack *AttackResult
	Saves  []string
	Player *PlayerView
	Chunk  *store.Chunk
}

type commandEnvelope struct {
	cmd  Command
	resp chan Result
}

var (
	ErrStopped        = errors.New("world stopped")
	ErrChunkNotLoaded = errors.New("chunk not loaded")
)

// Submit queues cmd for the world loop and waits for its result.
func (w *World) Submit(ctx context.Context, cmd Command) (Result, error) {
	env := commandEnvelope{cmd: cmd, resp: make(chan Result, 1)}
	select {
	case w.inbox <- env:
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-w.stop:
		return Result{}, ErrStopped
	}
	select {
	case r := <-env.resp:
		return r, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-w.stop:
		return Result{}, ErrStopped
	}
}

// Run steps the world at TickRateHz until ctx is cancelled or Stop is called.
// Either way, pending and later Submit calls return ErrStopped.
func (w *World) Run(ctx context.Context) error {
	defer w.Stop()
	interval := time.Second / time.Duration(w.cfg.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case <-ticker.C:
			start := time.Now()
			n := w.drainInbox()
			w.Step()
			w.recordStep(time.Since(start), n)
		}
	}
}

// Stop ends Run. It is safe to call more than once.
func (w *World) Stop() { w.stopOnce.Do(func() { close(w.stop) }) }

// drainInbox handles at most MaxUpdatesPerTick queued commands. The rest stay
// queued for the next tick.
func (w *World) drainInbox() int {
	n := 0
	for n < w.cfg.MaxUpdatesPerTick {
		select {
		case env := <-w.inbox:
			env.resp <- w.Apply(env.cmd)
			n++
		default:
			return n
		}
	}
	return n
}

// Step advances the world by one tick: drops are collected, survival clocks and
// monsters run, and autosave runs when due.
func (w *World) Step() {
	w.collectDrops()
	tick := w.tick.Add(1)
	w.tickSurvival(tick)
	if w.cfg.AutosaveEveryTicks > 0 && w.saves != nil && tick%uint64(w.cfg.AutosaveEveryTicks) == 0 {
		if ok, msg := w.SaveGame(w.cfg.AutosaveName); !ok {
			w.logf("autosave: %s", msg)
		}
	}
}

// Apply executes one command synchronously.
func (w *World) Apply(cmd Command) Result {
	res := Result{Tick: w.tick.Load()}
	switch cmd.Kind {
	case CmdObserve:
		s := w.Observe(cmd.Pos)
		res.Stream = &s
		res.OK = true
	case CmdDig:
		x, y, z := blockPos(cmd.Pos)
		d, err := w.Dig(x, y, z, cmd.DT)
		res.Dig = &d
		res.Err = err
		res.OK = err == nil
	case CmdPlace:
		x, y, z := blockPos(cmd.Pos)
		res.Err = w.Place(x, y, z, cmd.Block)
		res.OK = res.Err == nil
	case CmdCraft:
		res.Err = w.Craft(cmd.Block)
		res.OK = res.Err == nil
	case CmdEquip:
		res.Err = w.Equip(cmd.Tool)
		res.OK = res.Err == nil
	case CmdEat:
		res.Err = w.Eat(cmd.Block, cmd.Count)
		res.OK = res.Err == nil
	case CmdAttack:
		a, err := w.Attack()
		res.Err = err
		if err == nil {
			res.Attack = &a
		}
		res.OK = err == nil
	case CmdSave:
		res.OK, res.Message = w.SaveGame(cmd.Name)
	case CmdLoad:
		res.OK, res.Message = w.LoadGame(cmd.Name)
	case CmdList:
		res.Saves, res.Err = w.ListSaves()
		res.OK = res.Err == nil
	case CmdState:
		res.OK = true
	case CmdChunk:
		ch, ok := w.chunks.Chunk(cmd.Chunk)
		if !ok {
			res.Err = ErrChunkNotLoaded
			break
		}
		res.Chunk = ch.Clone()
		res.OK = true
	default:
		res.Err = errors.New("unknown command")
		return res
	}
	if res.Err != nil && res.Message == "" {
		res.Message = res.Err.Error()
	}
	p := w.player.view()
	res.Player = &p
	res.Seed = w.gen.Seed()
	res.IsDay = w.IsDay()
	return res
}
