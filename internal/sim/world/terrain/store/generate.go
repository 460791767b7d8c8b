package store

import (
	"math/rand"

	"voxelsandbox/internal/sim/world/logic/mathx"
	genpkg "voxelsandbox/internal/sim/world/terrain/gen"
)

// DecorParams controls the tree pass applied to the origin chunk.
type DecorParams struct {
	TreeChance   float64 // chance the origin chunk gets trees at all
	ColumnChance float64 // per-column chance once the chunk is eligible
	ColumnMin    int
	ColumnMax    int
	TrunkMin     int
	TrunkMax     int
	LeafRadius   int
}

func DefaultDecorParams() DecorParams {
	return DecorParams{
		TreeChance:   0.1,
		ColumnChance: 0.3,
		ColumnMin:    3,
		ColumnMax:    12,
		TrunkMin:     4,
		TrunkMax:     7,
		LeafRadius:   2,
	}
}

// NewChunk generates and decorates chunk (cx, cz). The grid is complete before it is returned.
func NewChunk(g *genpkg.Generator, decor DecorParams, cx, cz int) *Chunk {
	ch := newChunk(cx, cz, g.Dims(), g.GenerateChunk(cx, cz))
	decorate(ch, g, decor)
	_ = ch.Digest()
	return ch
}

func decorRNG(seed int64, cx, cz int) *rand.Rand {
	return rand.New(rand.NewSource(int64(mathx.Hash2(seed, cx, cz))))
}

func decorate(ch *Chunk, g *genpkg.Generator, p DecorParams) {
	if ch.CX != 0 || ch.CZ != 0 {
		return
	}
	rng := decorRNG(g.Seed(), ch.CX, ch.CZ)
	if rng.Float64() >= p.TreeChance {
		return
	}
	pal := g.Palette()
	d := ch.dims
	lo := mathx.ClampInt(p.ColumnMin, 0, d.Size-1)
	hi := mathx.ClampInt(p.ColumnMax, lo, d.Size-1)
	span := p.TrunkMax - p.TrunkMin
	if span < 0 {
		span = 0
	}

	for x := lo; x <= hi; x++ {
		// Draw order is fixed per column so reruns place identical trees.
		z := lo + rng.Intn(hi-lo+1)
		grow := rng.Float64() < p.ColumnChance
		trunk := p.TrunkMin + rng.Intn(span+1)

		surface := 0
		for y := d.Height - 1; y >= 0; y-- {
			b := ch.at(x, y, z)
			if b == pal.Grass || b == pal.Dirt {
				surface = y
				break
			}
		}
		if surface <= 0 || !grow {
			continue
		}
		placeTree(ch, pal, x, surface, z, trunk, p.LeafRadius)
	}
}

func placeTree(ch *Chunk, pal genpkg.Palette, x, surface, z, trunk, radius int) {
	d := ch.dims
	for y := surface + 1; y < d.Height && y < surface+1+trunk; y++ {
		ch.put(x, y, z, pal.Wood)
	}
	top := mathx.ClampInt(surface+trunk, 0, d.Height-1)
	r2 := radius * radius
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			for dy := -radius; dy <= 0; dy++ {
				if dx*dx+dy*dy+dz*dz > r2 {
					continue
				}
				nx, ny, nz := x+dx, top+dy, z+dz
				if !d.InBounds(nx, ny, nz) {
					continue
				}
				if ch.at(nx, ny, nz) == pal.Air {
					ch.put(nx, ny, nz, pal.Leaves)
				}
			}
		}
	}
}
