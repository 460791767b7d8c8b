package world

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"voxelsandbox/internal/sim/catalogs"
	"voxelsandbox/internal/sim/world/feature/economy/inventory"
	"voxelsandbox/internal/sim/world/feature/entities/items"
	"voxelsandbox/internal/sim/world/feature/work/mining"
)

var (
	ErrUnknownBlock  = errors.New("unknown block")
	ErrUnknownRecipe = errors.New("unknown recipe")
	ErrMissingItems  = errors.New("missing items")
	ErrNotAir        = errors.New("target is not air")
	ErrNotInInv      = errors.New("item not in inventory")
)

// Dig applies dt seconds of digging to the block at (x, y, z). Progress
// accumulates across calls on the same block and restarts when the target
// changes. When it reaches 100 the block turns to air, its drop is spawned at
// the block centre and the current tool wears.
func (w *World) Dig(x, y, z int, dt float64) (DigResult, error) {
	id, err := w.chunks.GetBlock(x, y, z)
	if err != nil {
		return DigResult{}, err
	}
	def, ok := w.catalogs.Blocks.Def(id)
	if !ok {
		return DigResult{}, fmt.Errorf("%w: %d", ErrUnknownBlock, id)
	}
	tool, ok := w.catalogs.Tools.Def(w.player.CurrentTool)
	if !ok {
		return DigResult{}, mining.ErrNoSuchTool
	}
	if err := mining.Check(def, w.player.CurrentTool, tool); err != nil {
		return DigResult{Block: id}, err
	}

	pos := [3]int{x, y, z}
	if !w.dig.active || w.dig.pos != pos || w.dig.block != id {
		w.dig = digState{active: true, pos: pos, block: id}
	}
	w.dig.progress = mining.Advance(w.dig.progress, tool.Efficiency, def.Hardness, dt)
	res := DigResult{Block: id, Progress: w.dig.progress}
	if w.dig.progress < mining.Done {
		return res, nil
	}

	w.dig = digState{}
	if err := w.chunks.SetBlock(x, y, z, w.palette.Air); err != nil {
		return res, err
	}
	res.Broken = true
	res.Drop = def.Drop
	if def.Drop != w.palette.Air {
		w.spawnDrop(mgl64.Vec3{float64(x) + 0.5, float64(y) + 0.5, float64(z) + 0.5}, def.Drop, 1)
	}
	w.emit(Event{Kind: EventBlockDug, Pos: pos, Block: id})

	cur, broke := mining.Wear(w.player.Tools, w.player.ToolUsed, w.player.CurrentTool, tool)
	if broke {
		res.ToolBroke = true
		w.emit(Event{Kind: EventToolBroke, Pos: pos, Detail: tool.Name})
	}
	w.player.CurrentTool = cur
	return res, nil
}

func (w *World) spawnDrop(pos mgl64.Vec3, block uint16, count int) {
	w.nextDropID++
	ttl := uint64(items.TTLSeconds * w.cfg.TickRateHz)
	w.drops = items.Spawn(w.drops, items.Drop{
		ID:          w.nextDropID,
		Pos:         pos,
		Block:       block,
		Count:       count,
		ExpiresTick: w.tick.Load() + ttl,
	})
}

// Place puts one block of id from the inventory into the air cell at (x, y, z).
func (w *World) Place(x, y, z int, id uint16) error {
	if id == w.palette.Air {
		return fmt.Errorf("%w: cannot place air", ErrUnknownBlock)
	}
	if _, ok := w.catalogs.Blocks.Def(id); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBlock, id)
	}
	if w.player.Inventory[id] <= 0 {
		return ErrNotInInv
	}
	cur, err := w.chunks.GetBlock(x, y, z)
	if err != nil {
		return err
	}
	if cur != w.palette.Air {
		return ErrNotAir
	}
	if err := w.chunks.SetBlock(x, y, z, id); err != nil {
		return err
	}
	inventory.DeductItems(w.player.Inventory, map[uint16]int{id: 1})
	w.emit(Event{Kind: EventBlockPlaced, Pos: [3]int{x, y, z}, Block: id})
	return nil
}

// Craft consumes the inputs of the recipe producing output. Tools are added to
// the tool belt and equipped; blocks go to the inventory.
func (w *World) Craft(output uint16) error {
	r, ok := w.catalogs.Recipes.Recipe(output)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRecipe, output)
	}
	need := make(map[uint16]int, len(r.Inputs))
	for _, in := range r.Inputs {
		need[in.Item] += in.Count
	}
	if item, n, ok := inventory.Missing(w.player.Inventory, need); !ok {
		name := fmt.Sprint(item)
		if def, ok := w.catalogs.Blocks.Def(item); ok {
			name = def.Name
		}
		return fmt.Errorf("%w: %s needs %d", ErrMissingItems, name, n)
	}
	inventory.DeductItems(w.player.Inventory, need)
	switch r.Kind {
	case "TOOL":
		w.player.Tools[int(output)]++
		w.player.CurrentTool = int(output)
	default:
		w.player.Inventory[output]++
	}
	w.emit(Event{Kind: EventCrafted, Block: output, Detail: r.Name})
	return nil
}

// Equip selects an owned tool; the hand is always available.
func (w *World) Equip(tool int) error {
	if _, ok := w.catalogs.Tools.Def(tool); !ok {
		return mining.ErrNoSuchTool
	}
	if tool != catalogs.Hand && w.player.Tools[tool] <= 0 {
		return mining.ErrToolNotOwned
	}
	if tool != w.player.CurrentTool {
		w.dig = digState{}
	}
	w.player.CurrentTool = tool
	return nil
}

// collectDrops visits at most MaxUpdatesPerTick drops, expiring old ones and
// moving those in pickup range into the inventory up to the stack limit.
func (w *World) collectDrops() {
	now := w.tick.Load()
	w.drops = items.Update(w.drops, now, w.cfg.MaxUpdatesPerTick, func(d *items.Drop) bool {
		if !d.InRange(w.player.Pos) {
			return true
		}
		took := inventory.AddCapped(w.player.Inventory, d.Block, d.Count, inventory.MaxStack)
		if took > 0 {
			d.Count -= took
			w.emit(Event{Kind: EventPickup, Pos: d.Cell(), Block: d.Block, Count: took})
		}
		return d.Count > 0
	})
}
