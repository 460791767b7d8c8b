package monsters

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func flat(y float64) GroundFunc {
	return func(x, z float64) (float64, bool) { return y, true }
}

func TestStepChasesTarget(t *testing.T) {
	p := Params{StepDist: 1, CooldownTicks: 4}
	m := Monster{ID: 1, Pos: mgl64.Vec3{0, 10, 0}, HP: MaxHP}
	target := mgl64.Vec3{5, 10, 0}

	dmg, keep := Step(&m, target, p, flat(10))
	if !keep || dmg != 0 {
		t.Fatalf("expected a plain move, got dmg=%d keep=%v", dmg, keep)
	}
	if m.Pos[0] != 1 || m.Pos[2] != 0 {
		t.Fatalf("expected x=1, got %v", m.Pos)
	}

	// It never walks into the target.
	for i := 0; i < 10; i++ {
		Step(&m, target, p, flat(10))
	}
	if m.Pos[0] > 5-AttackRange+1e-6 {
		t.Fatalf("monster overshot attack range: %v", m.Pos)
	}
}

func TestStepAttacksWithCooldown(t *testing.T) {
	p := Params{StepDist: 1, CooldownTicks: 3}
	m := Monster{ID: 1, Pos: mgl64.Vec3{0, 10, 0}, HP: MaxHP}
	target := mgl64.Vec3{1, 10, 0}

	total := 0
	for i := 0; i < 7; i++ {
		dmg, keep := Step(&m, target, p, flat(10))
		if !keep {
			t.Fatalf("monster removed at step %d", i)
		}
		total += dmg
	}
	// Attacks land on steps 0, 3 and 6.
	if total != 3*AttackDamage {
		t.Fatalf("expected %d damage, got %d", 3*AttackDamage, total)
	}
}

func TestStepBlockedColumn(t *testing.T) {
	p := Params{StepDist: 1, CooldownTicks: 1}
	m := Monster{Pos: mgl64.Vec3{0, 10, 0}, HP: MaxHP}
	target := mgl64.Vec3{8, 10, 0}

	Step(&m, target, p, func(x, z float64) (float64, bool) { return 0, false })
	if m.Pos != (mgl64.Vec3{0, 10, 0}) {
		t.Fatalf("expected no move into a blocked column, got %v", m.Pos)
	}
	Step(&m, target, p, flat(12))
	if m.Pos != (mgl64.Vec3{0, 10, 0}) {
		t.Fatalf("expected no climb of two blocks, got %v", m.Pos)
	}
	Step(&m, target, p, flat(11))
	if m.Pos != (mgl64.Vec3{1, 11, 0}) {
		t.Fatalf("expected a one block step up, got %v", m.Pos)
	}
}

func TestStepRemovesDeadAndFar(t *testing.T) {
	p := ParamsFor(20)
	dead := Monster{Pos: mgl64.Vec3{0, 10, 0}, HP: 0}
	if _, keep := Step(&dead, mgl64.Vec3{1, 10, 0}, p, nil); keep {
		t.Fatalf("expected dead monster removed")
	}
	far := Monster{Pos: mgl64.Vec3{0, 10, 0}, HP: MaxHP}
	if _, keep := Step(&far, mgl64.Vec3{ChaseRange + 1, 10, 0}, p, nil); keep {
		t.Fatalf("expected far monster removed")
	}
}

func TestHitAndNearest(t *testing.T) {
	ms := []Monster{
		{ID: 1, Pos: mgl64.Vec3{3, 0, 0}, HP: MaxHP},
		{ID: 2, Pos: mgl64.Vec3{1, 0, 0}, HP: 0},
		{ID: 3, Pos: mgl64.Vec3{2, 0, 0}, HP: MaxHP},
	}
	if i := Nearest(ms, mgl64.Vec3{}, 4); i != 2 {
		t.Fatalf("expected monster 3 (index 2), got %d", i)
	}
	if i := Nearest(ms, mgl64.Vec3{}, 1.5); i != -1 {
		t.Fatalf("expected nothing in reach, got %d", i)
	}
	if Hit(&ms[0], MaxHP-1) {
		t.Fatalf("monster should survive")
	}
	if !Hit(&ms[0], 5) || ms[0].HP != 0 {
		t.Fatalf("expected monster dead with hp 0, got %d", ms[0].HP)
	}
}

func TestUpdateLimitKeepsRest(t *testing.T) {
	ms := []Monster{{ID: 1}, {ID: 2}, {ID: 3}}
	var seen []uint64
	out := Update(ms, 2, func(m *Monster) bool {
		seen = append(seen, m.ID)
		return m.ID != 1
	})
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Fatalf("unexpected visit order: %v", seen)
	}
	if len(out) != 2 || out[0].ID != 3 || out[1].ID != 2 {
		t.Fatalf("expected [3 2], got %+v", out)
	}
}
