package world

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	spawnAttempts = 100
	spawnRangeX   = 20
	spawnHeadroom = 3
)

// SafeSpawn searches up to 100 columns with x in [-20, 20] on the z = 0 row for
// solid ground at the surface with three air cells above it, and returns the
// position standing on that ground. It falls back to (0, Height/2, 0).
func (w *World) SafeSpawn(rng *rand.Rand) mgl64.Vec3 {
	height := w.gen.Dims().Height
	for i := 0; i < spawnAttempts; i++ {
		x := rng.Intn(2*spawnRangeX+1) - spawnRangeX
		surface := w.gen.SurfaceHeight(x)
		if surface+spawnHeadroom >= height {
			continue
		}
		if w.isSafeColumn(x, surface) {
			return mgl64.Vec3{float64(x) + 0.5, float64(surface + 1), 0.5}
		}
	}
	return mgl64.Vec3{0.5, float64(height / 2), 0.5}
}

func (w *World) isSafeColumn(x, surface int) bool {
	ground, err := w.chunks.GetBlock(x, surface, 0)
	if err != nil || ground == w.palette.Air {
		return false
	}
	for dy := 1; dy <= spawnHeadroom; dy++ {
		b, err := w.chunks.GetBlock(x, surface+dy, 0)
		if err != nil || b != w.palette.Air {
			return false
		}
	}
	return true
}
