// Package monsters moves the hostile entities that roam at night.
package monsters

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	MaxAlive   = 5
	MaxHP      = 50
	SpawnRange = 10

	// A monster farther than ChaseRange (horizontally) from its target gives up.
	ChaseRange  = 15.0
	AttackRange = 1.5

	AttackDamage          = 5
	AttackCooldownSeconds = 2
	SpawnEverySeconds     = 15

	// Blocks per second.
	Speed = 2.0

	reachSlack = 1e-9

	// MeatDropChance is the chance a killed monster leaves one meat.
	MeatDropChance = 0.5
)

type Monster struct {
	ID  uint64     `json:"id"`
	Pos mgl64.Vec3 `json:"pos"`
	HP  int        `json:"hp"`
	// Ticks until the next attack is allowed.
	Cooldown int `json:"cooldown"`
}

type Params struct {
	StepDist      float64
	CooldownTicks int
}

func ParamsFor(tickRateHz int) Params {
	if tickRateHz <= 0 {
		tickRateHz = 1
	}
	return Params{
		StepDist:      Speed / float64(tickRateHz),
		CooldownTicks: AttackCooldownSeconds * tickRateHz,
	}
}

// GroundFunc returns the height a monster would stand at in the column
// containing (x, z), or false when the column is blocked.
type GroundFunc func(x, z float64) (float64, bool)

func horizontal(from, to mgl64.Vec3) (dx, dz, dist float64) {
	dx = to[0] - from[0]
	dz = to[2] - from[2]
	return dx, dz, math.Hypot(dx, dz)
}

// Step moves m one tick toward target and attacks it when in reach. It returns
// the damage dealt and whether m stays alive in the world. A monster that is
// dead or out of chase range is removed. Movement is refused when the next
// column is blocked or more than one block higher or lower.
func Step(m *Monster, target mgl64.Vec3, p Params, ground GroundFunc) (damage int, keep bool) {
	if m.HP <= 0 {
		return 0, false
	}
	dx, dz, dist := horizontal(m.Pos, target)
	if dist > ChaseRange {
		return 0, false
	}
	if dist > AttackRange {
		step := math.Min(p.StepDist, dist-AttackRange)
		nx := m.Pos[0] + dx/dist*step
		nz := m.Pos[2] + dz/dist*step
		if ground == nil {
			m.Pos[0], m.Pos[2] = nx, nz
		} else if y, ok := ground(nx, nz); ok && math.Abs(y-m.Pos[1]) <= 1 {
			m.Pos = mgl64.Vec3{nx, y, nz}
		}
	}
	if m.Cooldown > 0 {
		m.Cooldown--
	}
	if _, _, d := horizontal(m.Pos, target); m.Cooldown == 0 && d <= AttackRange+reachSlack && math.Abs(target[1]-m.Pos[1]) <= 2 {
		m.Cooldown = p.CooldownTicks
		return AttackDamage, true
	}
	return 0, true
}

// Hit lowers m's health by damage and reports whether it died.
func Hit(m *Monster, damage int) bool {
	if damage <= 0 {
		return m.HP <= 0
	}
	m.HP -= damage
	if m.HP < 0 {
		m.HP = 0
	}
	return m.HP == 0
}

// Nearest returns the index of the live monster closest to p within reach, or -1.
func Nearest(ms []Monster, p mgl64.Vec3, reach float64) int {
	best, bestDist := -1, reach
	for i := range ms {
		if ms[i].HP <= 0 {
			continue
		}
		if d := ms[i].Pos.Sub(p).Len(); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Update visits at most limit monsters from the front of the list. A visited
// monster is removed when visit returns false; visited survivors move to the back
// so every monster is eventually visited. Monsters beyond the limit are kept
// untouched for later ticks. limit <= 0 visits all.
func Update(ms []Monster, limit int, visit func(*Monster) bool) []Monster {
	n := len(ms)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Monster, 0, n)
	out = append(out, ms[limit:]...)
	for i := 0; i < limit; i++ {
		m := ms[i]
		if visit != nil && !visit(&m) {
			continue
		}
		out = append(out, m)
	}
	return out
}
