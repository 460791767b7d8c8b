package world

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"voxelsandbox/internal/persistence/snapshot"
	"voxelsandbox/internal/sim/catalogs"
	"voxelsandbox/internal/sim/world/feature/entities/monsters"
	"voxelsandbox/internal/sim/world/feature/survival"
)

// atNight puts the world clock at the start of the night.
func atNight(w *World) { w.dayTick = w.rates.DayLength }

func adjacentMonster(w *World, id uint64, hp int) monsters.Monster {
	return monsters.Monster{ID: id, Pos: w.player.Pos.Add(mgl64.Vec3{1, 0, 0}), HP: hp}
}

func TestHungerDecaysThenStarves(t *testing.T) {
	ev := &recordingEvents{}
	w := newTestWorld(t, WorldConfig{Seed: 3, TickRateHz: 1})
	w.SetEventLogger(ev)
	w.player.HP = 50
	w.player.Hunger = 1

	for i := 0; i < 30; i++ {
		w.Step()
	}
	if p := w.Player(); p.Hunger != 0 || p.HP != 50 {
		t.Fatalf("expected hunger 0 and hp 50 after 30s, got hunger=%d hp=%d", p.Hunger, p.HP)
	}
	for i := 0; i < 30; i++ {
		w.Step()
	}
	if p := w.Player(); p.HP != 49 {
		t.Fatalf("expected starvation to 49, got %d", p.HP)
	}
	if ev.count(EventDamaged) != 1 {
		t.Fatalf("expected one DAMAGED event, got %d", ev.count(EventDamaged))
	}
}

func TestHealthRegeneratesWhenFed(t *testing.T) {
	w := newTestWorld(t, WorldConfig{Seed: 3, TickRateHz: 1})
	w.player.HP = 50
	w.player.Hunger = 80
	for i := 0; i < 10; i++ {
		w.Step()
	}
	if p := w.Player(); p.HP != 52 || p.Hunger != 80 {
		t.Fatalf("expected hp 52 hunger 80, got hp=%d hunger=%d", p.HP, p.Hunger)
	}
}

func TestDayNightCycle(t *testing.T) {
	ev := &recordingEvents{}
	w := newTestWorld(t, WorldConfig{Seed: 3, TickRateHz: 1})
	w.SetEventLogger(ev)
	if !w.IsDay() {
		t.Fatalf("a fresh world starts at day")
	}
	w.dayTick = w.rates.DayLength - 1
	w.Step()
	if w.IsDay() || ev.count(EventNightfall) != 1 {
		t.Fatalf("expected nightfall, is_day=%v events=%d", w.IsDay(), ev.count(EventNightfall))
	}

	w.monsters = append(w.monsters, adjacentMonster(w, 1, monsters.MaxHP))
	w.dayTick = 2*w.rates.DayLength - 1
	w.Step()
	if !w.IsDay() || ev.count(EventDaybreak) != 1 {
		t.Fatalf("expected daybreak, is_day=%v events=%d", w.IsDay(), ev.count(EventDaybreak))
	}
	if len(w.Monsters()) != 0 {
		t.Fatalf("monsters must vanish at daybreak, got %d", len(w.Monsters()))
	}
}

func TestNightSpawnsMonsters(t *testing.T) {
	ev := &recordingEvents{}
	w := newTestWorld(t, WorldConfig{Seed: 3, TickRateHz: 1})
	w.SetEventLogger(ev)
	atNight(w)
	// Far from the resident chunks around spawn.
	w.player.Pos = mgl64.Vec3{1000.5, 80, 1000.5}
	resident := w.Chunks().Len()
	for i := 0; i < monsters.SpawnEverySeconds; i++ {
		w.Step()
	}
	if ev.count(EventMonsterSpawned) != 1 || len(w.Monsters()) != 1 {
		t.Fatalf("expected one monster after %ds of night, got events=%d alive=%d",
			monsters.SpawnEverySeconds, ev.count(EventMonsterSpawned), len(w.Monsters()))
	}
	m := w.Monsters()[0]
	if m.HP != monsters.MaxHP {
		t.Fatalf("expected a fresh monster, got hp %d", m.HP)
	}
	if w.Chunks().Len() != resident {
		t.Fatalf("spawning must not generate chunks: %d -> %d", resident, w.Chunks().Len())
	}
}

func TestMonsterAttacksPlayer(t *testing.T) {
	ev := &recordingEvents{}
	w := newTestWorld(t, WorldConfig{Seed: 3})
	w.SetEventLogger(ev)
	atNight(w)
	w.monsters = []monsters.Monster{adjacentMonster(w, 1, monsters.MaxHP)}

	w.Step()
	if p := w.Player(); p.HP != survival.MaxHP-monsters.AttackDamage {
		t.Fatalf("expected hp %d, got %d", survival.MaxHP-monsters.AttackDamage, p.HP)
	}
	// The cooldown holds the next attack back.
	w.Step()
	if p := w.Player(); p.HP != survival.MaxHP-monsters.AttackDamage {
		t.Fatalf("expected cooldown, got hp %d", p.HP)
	}
	if ev.count(EventDamaged) != 1 {
		t.Fatalf("expected one DAMAGED event, got %d", ev.count(EventDamaged))
	}
}

func TestMonsterUpdatesAreCapped(t *testing.T) {
	w := newTestWorld(t, WorldConfig{Seed: 3, MaxUpdatesPerTick: 1})
	atNight(w)
	w.monsters = []monsters.Monster{adjacentMonster(w, 1, monsters.MaxHP), adjacentMonster(w, 2, monsters.MaxHP)}

	w.Step()
	if p := w.Player(); p.HP != survival.MaxHP-monsters.AttackDamage {
		t.Fatalf("expected one attack per tick, got hp %d", p.HP)
	}
	w.Step()
	if p := w.Player(); p.HP != survival.MaxHP-2*monsters.AttackDamage {
		t.Fatalf("expected the second monster on the next tick, got hp %d", p.HP)
	}
}

func TestDownedPlayerRespawns(t *testing.T) {
	ev := &recordingEvents{}
	w := newTestWorld(t, WorldConfig{Seed: 3})
	w.SetEventLogger(ev)
	atNight(w)
	w.player.HP = monsters.AttackDamage
	w.player.Inventory[catalogs.Dirt] = 4
	w.monsters = []monsters.Monster{adjacentMonster(w, 1, monsters.MaxHP)}

	w.Step()
	p := w.Player()
	if p.HP != survival.MaxHP || p.Hunger != survival.MaxHunger {
		t.Fatalf("expected full stats after respawn, got hp=%d hunger=%d", p.HP, p.Hunger)
	}
	if p.Inventory[catalogs.Dirt] != 4 {
		t.Fatalf("respawn must keep the inventory, got %v", p.Inventory)
	}
	if ev.count(EventPlayerDowned) != 1 || len(w.Monsters()) != 0 {
		t.Fatalf("expected PLAYER_DOWNED and no monsters, got events=%d alive=%d",
			ev.count(EventPlayerDowned), len(w.Monsters()))
	}
}

func TestAttackKillsMonsterAndMeatFeedsPlayer(t *testing.T) {
	ev := &recordingEvents{}
	w := newTestWorld(t, WorldConfig{Seed: 3})
	w.SetEventLogger(ev)
	atNight(w)

	if _, err := w.Attack(); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget, got %v", err)
	}

	// Hand efficiency is 1: two hits of 5 kill a 10 hp monster.
	w.monsters = []monsters.Monster{adjacentMonster(w, 1, 10)}
	res, err := w.Attack()
	if err != nil || res.Killed || res.MonsterHP != 5 {
		t.Fatalf("expected a wounded monster, got %+v err=%v", res, err)
	}
	res, err = w.Attack()
	if err != nil || !res.Killed || len(w.Monsters()) != 0 {
		t.Fatalf("expected a kill, got %+v err=%v alive=%d", res, err, len(w.Monsters()))
	}

	// Meat drops half the time; keep killing until one does.
	id := uint64(2)
	for res.Drop == 0 && id < 64 {
		w.monsters = []monsters.Monster{adjacentMonster(w, id, 1)}
		if res, err = w.Attack(); err != nil {
			t.Fatalf("attack: %v", err)
		}
		id++
	}
	if res.Drop != catalogs.Meat {
		t.Fatalf("expected a meat drop after %d kills", id)
	}
	if ev.count(EventMonsterKilled) != int(id)-1 {
		t.Fatalf("expected %d MONSTER_KILLED events, got %d", id-1, ev.count(EventMonsterKilled))
	}

	w.Step()
	if n := w.Player().Inventory[catalogs.Meat]; n != 1 {
		t.Fatalf("expected the meat picked up, got %d", n)
	}

	w.player.HP = 50
	w.player.Hunger = 10
	if err := w.Eat(catalogs.Dirt, 1); !errors.Is(err, ErrNotFood) {
		t.Fatalf("expected ErrNotFood, got %v", err)
	}
	if err := w.Eat(catalogs.Meat, 2); !errors.Is(err, ErrNotInInv) {
		t.Fatalf("expected ErrNotInInv, got %v", err)
	}
	if err := w.Eat(catalogs.Meat, 0); err != nil {
		t.Fatalf("eat: %v", err)
	}
	p := w.Player()
	if p.HP != 50+survival.MeatFood || p.Hunger != 10+2*survival.MeatFood || p.Inventory[catalogs.Meat] != 0 {
		t.Fatalf("unexpected state after eating: hp=%d hunger=%d inv=%v", p.HP, p.Hunger, p.Inventory)
	}
	if ev.count(EventAte) != 1 {
		t.Fatalf("expected one ATE event")
	}
}

func TestCommandsEatAndAttack(t *testing.T) {
	w := newTestWorld(t, WorldConfig{Seed: 3})
	atNight(w)
	w.player.Inventory[catalogs.Meat] = 1
	w.player.Hunger = 50

	res := w.Apply(Command{Kind: CmdEat, Block: catalogs.Meat, Count: 1})
	if !res.OK || res.Player.Hunger != 50+2*survival.MeatFood {
		t.Fatalf("eat command failed: %+v", res)
	}
	if res.IsDay {
		t.Fatalf("expected night in the result")
	}

	w.monsters = []monsters.Monster{adjacentMonster(w, 9, monsters.MaxHP)}
	res = w.Apply(Command{Kind: CmdAttack})
	if !res.OK || res.Attack == nil || res.Attack.MonsterID != 9 || res.Attack.Damage != 5 {
		t.Fatalf("attack command failed: %+v", res)
	}
	res = w.Apply(Command{Kind: CmdEat, Block: catalogs.Meat})
	if res.OK || !errors.Is(res.Err, ErrNotInInv) {
		t.Fatalf("expected ErrNotInInv, got %+v", res)
	}
}

func TestDayClockSurvivesSave(t *testing.T) {
	w := newTestWorld(t, WorldConfig{Seed: 3, TickRateHz: 1})
	w.dayTick = w.rates.DayLength + 7
	w.monsters = []monsters.Monster{adjacentMonster(w, 1, monsters.MaxHP)}
	rec := w.ExportSave()
	if rec.GameState["is_day"] != false || rec.GameState["time"] != "night" {
		t.Fatalf("unexpected game state: %v", rec.GameState)
	}

	// Through JSON the clock comes back as a float64.
	b, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back snapshot.SaveV1
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	w2 := newTestWorld(t, WorldConfig{Seed: 3, TickRateHz: 1})
	if _, err := w2.ImportSave(back); err != nil {
		t.Fatalf("import: %v", err)
	}
	if w2.dayTick != w.dayTick || w2.IsDay() {
		t.Fatalf("expected day tick %d at night, got %d day=%v", w.dayTick, w2.dayTick, w2.IsDay())
	}
	if len(w2.Monsters()) != 0 {
		t.Fatalf("monsters are not saved")
	}

	if got := dayTickFromState(map[string]any{"time": "night"}, 300); got != 300 {
		t.Fatalf("expected a record with only a night flag to start at 300, got %d", got)
	}
	if got := dayTickFromState(nil, 300); got != 0 {
		t.Fatalf("expected 0 for a record without game state, got %d", got)
	}
}
