package tuning

import (
	"voxelsandbox/internal/sim/world/terrain/gen"
	"voxelsandbox/internal/sim/world/terrain/store"
)

// GenParams returns the terrain generator tunables.
func (t Tuning) GenParams() gen.Params {
	w := t.WorldGen
	return gen.Params{
		ChunkSize:         t.ChunkSize,
		Height:            t.WorldHeight,
		BaseHeight:        w.BaseHeight,
		Amplitude:         w.Amplitude,
		Frequency:         w.Frequency,
		BiomeSize:         w.BiomeSize,
		MountainThreshold: w.MountainThreshold,
		MountainBoost:     w.MountainBoost,
		MinSurface:        w.MinSurface,
		CeilingMargin:     w.CeilingMargin,
		CaveThreshold:     w.CaveThreshold,
		CaveFrequency:     w.CaveFrequency,
		CaveMinDepth:      w.CaveMinDepth,
		OreFrequency:      w.OreFrequency,
		OreMinDepth:       w.OreMinDepth,
		OreShallowMax:     w.OreShallowMax,
		OreMidMax:         w.OreMidMax,
	}
}

func (t Tuning) DecorParams() store.DecorParams { return store.DecorParams(t.Decor) }
