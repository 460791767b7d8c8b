package store

import (
	"testing"

	genpkg "voxelsandbox/internal/sim/world/terrain/gen"
)

var testPalette = genpkg.Palette{
	Air: 0, Grass: 1, Dirt: 2, Stone: 3, Wood: 5, Leaves: 6, CoalOre: 7,
	Sand: 10, DeepStone: 11, IronOre: 12, GoldOre: 13,
}

func newTestGen(t *testing.T, seed int64) *genpkg.Generator {
	t.Helper()
	g, err := genpkg.New(seed, genpkg.DefaultParams(), testPalette)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return g
}

func newTestStore(t *testing.T, seed int64) *ChunkStore {
	t.Helper()
	return NewChunkStore(newTestGen(t, seed), DefaultDecorParams())
}

func alwaysTrees() DecorParams {
	p := DefaultDecorParams()
	p.TreeChance = 1
	p.ColumnChance = 1
	return p
}
