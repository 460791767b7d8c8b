// Package items manages dropped item entities waiting to be picked up.
package items

import (
	"github.com/go-gl/mathgl/mgl64"

	"voxelsandbox/internal/sim/world/logic/mathx"
)

const (
	PickupRadius = 1.5
	TTLSeconds   = 300
)

type Drop struct {
	ID          uint64     `json:"id"`
	Pos         mgl64.Vec3 `json:"pos"`
	Block       uint16     `json:"block"`
	Count       int        `json:"count"`
	ExpiresTick uint64     `json:"expires_tick"`
}

// Cell returns the block cell the drop rests in.
func (d Drop) Cell() [3]int {
	return [3]int{mathx.FloorToInt(d.Pos[0]), mathx.FloorToInt(d.Pos[1]), mathx.FloorToInt(d.Pos[2])}
}

// Spawn adds d to drops, merging into an existing drop of the same block in the same cell.
func Spawn(drops []Drop, d Drop) []Drop {
	if d.Count <= 0 {
		return drops
	}
	for i := range drops {
		if drops[i].Block == d.Block && drops[i].Cell() == d.Cell() {
			drops[i].Count += d.Count
			if d.ExpiresTick > drops[i].ExpiresTick {
				drops[i].ExpiresTick = d.ExpiresTick
			}
			return drops
		}
	}
	return append(drops, d)
}

// InRange reports whether p is within PickupRadius of the drop.
func (d Drop) InRange(p mgl64.Vec3) bool {
	return d.Pos.Sub(p).Len() <= PickupRadius
}

// Update visits at most limit drops from the front of the list. A visited drop is
// removed when it has expired or when keep returns false; visited survivors move
// to the back so every drop is eventually visited. Drops beyond the limit are
// kept untouched for later ticks. limit <= 0 visits all.
func Update(drops []Drop, nowTick uint64, limit int, keep func(*Drop) bool) []Drop {
	n := len(drops)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Drop, 0, n)
	out = append(out, drops[limit:]...)
	for i := 0; i < limit; i++ {
		d := drops[i]
		if d.ExpiresTick != 0 && nowTick >= d.ExpiresTick {
			continue
		}
		if keep != nil && !keep(&d) {
			continue
		}
		out = append(out, d)
	}
	return out
}
