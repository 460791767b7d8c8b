package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"voxelsandbox/internal/sim/world/feature/economy/inventory"
	"voxelsandbox/internal/sim/world/feature/entities/monsters"
	"voxelsandbox/internal/sim/world/feature/survival"
	"voxelsandbox/internal/sim/world/logic/mathx"
)

var (
	ErrNotFood  = errors.New("item is not food")
	ErrNoTarget = errors.New("no monster in reach")
)

const (
	// Reach of the player's melee attack, in blocks.
	attackReach = 3.0
	// Damage of one hit per point of tool efficiency.
	attackDamagePerEfficiency = 5
)

type AttackResult struct {
	MonsterID uint64
	Damage    int
	MonsterHP int
	Killed    bool
	Drop      uint16
}

func (w *World) IsDay() bool { return survival.IsDay(w.dayTick, w.rates.DayLength) }

func (w *World) Monsters() []monsters.Monster {
	return append([]monsters.Monster(nil), w.monsters...)
}

// tickSurvival runs the player's hunger and health clocks, the day/night cycle
// and the monsters for the current tick.
func (w *World) tickSurvival(tick uint64) {
	wasDay := w.IsDay()
	w.dayTick++
	if isDay := w.IsDay(); isDay != wasDay {
		if isDay {
			w.emit(Event{Kind: EventDaybreak})
		} else {
			w.emit(Event{Kind: EventNightfall})
		}
	}

	next, starved := survival.Tick(survival.State{HP: w.player.HP, Hunger: w.player.Hunger}, tick, w.rates)
	w.player.HP, w.player.Hunger = next.HP, next.Hunger
	if starved {
		w.emit(Event{Kind: EventDamaged, Count: w.player.HP, Detail: "STARVATION"})
	}

	w.spawnMonsters(tick)
	w.updateMonsters()

	if w.player.HP <= 0 {
		w.respawnPlayer()
	}
}

// spawnMonsters adds one monster near the player every SpawnEverySeconds of
// night while fewer than MaxAlive roam. Monsters vanish at daybreak.
func (w *World) spawnMonsters(tick uint64) {
	if w.IsDay() {
		w.monsters = nil
		return
	}
	every := uint64(monsters.SpawnEverySeconds * w.cfg.TickRateHz)
	if tick%every != 0 || len(w.monsters) >= monsters.MaxAlive {
		return
	}
	px, pz := mathx.FloorToInt(w.player.Pos[0]), mathx.FloorToInt(w.player.Pos[2])
	x := px + w.rng.Intn(2*monsters.SpawnRange+1) - monsters.SpawnRange
	z := pz + w.rng.Intn(2*monsters.SpawnRange+1) - monsters.SpawnRange
	y, ok := w.monsterGround(float64(x)+0.5, float64(z)+0.5)
	if !ok {
		return
	}
	w.nextMonsterID++
	m := monsters.Monster{
		ID:  w.nextMonsterID,
		Pos: mgl64.Vec3{float64(x) + 0.5, y, float64(z) + 0.5},
		HP:  monsters.MaxHP,
	}
	w.monsters = append(w.monsters, m)
	w.emit(Event{Kind: EventMonsterSpawned, Pos: [3]int{x, mathx.FloorToInt(y), z}, Count: int(m.ID)})
}

// updateMonsters visits at most MaxUpdatesPerTick monsters.
func (w *World) updateMonsters() {
	w.monsters = monsters.Update(w.monsters, w.cfg.MaxUpdatesPerTick, func(m *monsters.Monster) bool {
		dmg, keep := monsters.Step(m, w.player.Pos, w.monsterParams, w.monsterGround)
		if dmg > 0 && w.player.HP > 0 {
			w.player.HP -= dmg
			if w.player.HP < 0 {
				w.player.HP = 0
			}
			x, y, z := blockPos(m.Pos)
			w.emit(Event{Kind: EventDamaged, Pos: [3]int{x, y, z}, Count: w.player.HP, Detail: "MONSTER"})
		}
		return keep
	})
}

// monsterGround stands a monster on the terrain surface of the column. Columns
// whose chunk is resident are blocked when the standing cell is not air.
func (w *World) monsterGround(x, z float64) (float64, bool) {
	ix, iz := mathx.FloorToInt(x), mathx.FloorToInt(z)
	y := w.gen.SurfaceHeight(ix) + 1
	if y >= w.gen.Dims().Height {
		return 0, false
	}
	if b, ok := w.chunks.PeekBlock(ix, y, iz); ok && b != w.palette.Air {
		return 0, false
	}
	return float64(y), true
}

// Attack hits the nearest monster within reach. Damage scales with the
// efficiency of the current tool; a killed monster may leave meat behind.
func (w *World) Attack() (AttackResult, error) {
	i := monsters.Nearest(w.monsters, w.player.Pos, attackReach)
	if i < 0 {
		return AttackResult{}, ErrNoTarget
	}
	eff := 1.0
	if tool, ok := w.catalogs.Tools.Def(w.player.CurrentTool); ok && tool.Efficiency > 0 {
		eff = tool.Efficiency
	}
	dmg := int(math.Round(eff * attackDamagePerEfficiency))
	m := &w.monsters[i]
	res := AttackResult{MonsterID: m.ID, Damage: dmg}
	res.Killed = monsters.Hit(m, dmg)
	res.MonsterHP = m.HP
	if !res.Killed {
		return res, nil
	}

	pos := m.Pos
	w.monsters = append(w.monsters[:i], w.monsters[i+1:]...)
	x, y, z := blockPos(pos)
	w.emit(Event{Kind: EventMonsterKilled, Pos: [3]int{x, y, z}, Count: int(res.MonsterID)})
	if w.meat != w.palette.Air && w.rng.Float64() < monsters.MeatDropChance {
		w.spawnDrop(pos, w.meat, 1)
		res.Drop = w.meat
	}
	return res, nil
}

// Eat consumes count pieces of food from the inventory.
func (w *World) Eat(item uint16, count int) error {
	food := w.foods[item]
	if food <= 0 {
		return fmt.Errorf("%w: %d", ErrNotFood, item)
	}
	count = survival.NormalizeConsumeCount(count)
	if w.player.Inventory[item] < count {
		return ErrNotInInv
	}
	inventory.DeductItems(w.player.Inventory, map[uint16]int{item: count})
	next := survival.ApplyFood(survival.State{HP: w.player.HP, Hunger: w.player.Hunger}, food, count)
	w.player.HP, w.player.Hunger = next.HP, next.Hunger
	w.emit(Event{Kind: EventAte, Block: item, Count: count})
	return nil
}

// respawnPlayer puts a downed player back at a safe spawn with full health.
// The inventory is kept.
func (w *World) respawnPlayer() {
	x, y, z := blockPos(w.player.Pos)
	w.emit(Event{Kind: EventPlayerDowned, Pos: [3]int{x, y, z}})
	w.player.Pos = w.SafeSpawn(w.rng)
	w.player.HP = survival.MaxHP
	w.player.Hunger = survival.MaxHunger
	w.dig = digState{}
	w.monsters = nil
}
