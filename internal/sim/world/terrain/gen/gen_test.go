package gen

import (
	"errors"
	"testing"
)

var testPalette = Palette{
	Air: 0, Grass: 1, Dirt: 2, Stone: 3, Wood: 5, Leaves: 6, CoalOre: 7,
	Sand: 10, DeepStone: 11, IronOre: 12, GoldOre: 13,
}

func newTestGen(t *testing.T, seed int64) *Generator {
	t.Helper()
	g, err := New(seed, DefaultParams(), testPalette)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	return g
}

func TestSurfaceHeightWithinBand(t *testing.T) {
	g := newTestGen(t, 42)
	p := g.Params()
	for x := -2000; x <= 2000; x += 7 {
		h := g.SurfaceHeight(x)
		if h < p.MinSurface || h > p.Height-p.CeilingMargin {
			t.Fatalf("SurfaceHeight(%d) = %d outside [%d,%d]", x, h, p.MinSurface, p.Height-p.CeilingMargin)
		}
	}
	if h := g.SurfaceHeight(0); h < 20 || h > 128-30 {
		t.Fatalf("seed 42 SurfaceHeight(0) = %d", h)
	}
}

func TestBiomeIsEnumerated(t *testing.T) {
	g := newTestGen(t, 42)
	switch b := g.Biome(0); b {
	case Desert, Forest, Plains, Hills:
	default:
		t.Fatalf("unexpected biome %v", b)
	}
}

func TestBiomeFromMonotonic(t *testing.T) {
	prev := BiomeFrom(-1)
	for v := -1.0; v <= 1.0; v += 0.01 {
		b := BiomeFrom(v)
		if b < prev {
			t.Fatalf("biome order regressed at %f: %v after %v", v, b, prev)
		}
		prev = b
	}
	if BiomeFrom(-0.6) != Desert || BiomeFrom(-0.1) != Forest || BiomeFrom(0.1) != Plains || BiomeFrom(0.9) != Hills {
		t.Fatalf("unexpected biome ranges")
	}
}

func TestNearSurfaceIsNeverCave(t *testing.T) {
	g := newTestGen(t, 7)
	for x := -300; x <= 300; x++ {
		h := g.SurfaceHeight(x)
		for y := h - g.Params().CaveMinDepth + 1; y <= h; y++ {
			if g.IsCave(x, y) {
				t.Fatalf("cave at x=%d y=%d within immunity band of surface %d", x, y, h)
			}
		}
	}
}

func TestOreRequiresMinimumDepth(t *testing.T) {
	g := newTestGen(t, 7)
	for x := -300; x <= 300; x++ {
		h := g.SurfaceHeight(x)
		for y := h - g.Params().OreMinDepth + 1; y <= h; y++ {
			if _, ok := g.OreAt(x, y); ok {
				t.Fatalf("ore at x=%d y=%d above minimum depth", x, y)
			}
		}
	}
}

func TestOreTiersDeepenMonotonically(t *testing.T) {
	g := newTestGen(t, 1)
	tierOf := map[uint16]int{testPalette.CoalOre: 1, testPalette.IronOre: 2, testPalette.GoldOre: 3}
	firstDepth := map[int]int{}
	for depth := 0; depth < 128; depth++ {
		for _, tier := range g.OreTiers(depth) {
			rank := tierOf[tier.Block]
			if rank == 0 {
				t.Fatalf("unexpected ore block %d", tier.Block)
			}
			if _, ok := firstDepth[rank]; !ok {
				firstDepth[rank] = depth
			}
		}
		tiers := g.OreTiers(depth)
		for i := 1; i < len(tiers); i++ {
			if tiers[i].Threshold >= tiers[i-1].Threshold {
				t.Fatalf("tiers at depth %d not ordered by threshold", depth)
			}
		}
	}
	if !(firstDepth[1] <= firstDepth[2] && firstDepth[2] <= firstDepth[3]) {
		t.Fatalf("tier availability not monotonic: %v", firstDepth)
	}
	if len(g.OreTiers(29)) != 0 {
		t.Fatalf("expected no ore above depth 30")
	}
}

func TestSurfaceBlockBands(t *testing.T) {
	g := newTestGen(t, 3)
	cases := []struct {
		y     int
		biome Biome
		want  uint16
	}{
		{61, Plains, testPalette.Air},
		{60, Plains, testPalette.Grass},
		{60, Desert, testPalette.Sand},
		{56, Forest, testPalette.Dirt},
		{56, Desert, testPalette.Sand},
		{55, Hills, testPalette.Stone},
		{50, Hills, testPalette.Stone},
		{49, Hills, testPalette.DeepStone},
		{0, Desert, testPalette.DeepStone},
	}
	for _, c := range cases {
		if got := g.SurfaceBlock(0, c.y, 60, c.biome); got != c.want {
			t.Fatalf("SurfaceBlock(y=%d,%v): got %d want %d", c.y, c.biome, got, c.want)
		}
	}
}

func TestGenerateChunkDeterministic(t *testing.T) {
	a := newTestGen(t, 42).GenerateChunk(-3, 5)
	b := newTestGen(t, 42).GenerateChunk(-3, 5)
	if len(a) != 16*128*16 {
		t.Fatalf("unexpected grid length %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("grid differs at %d: %d vs %d", i, a[i], b[i])
		}
	}
}

func TestGenerateChunkCavesAreAirAndOreOnlyInStoneBands(t *testing.T) {
	g := newTestGen(t, 42)
	d := g.Dims()
	ores := map[uint16]bool{testPalette.CoalOre: true, testPalette.IronOre: true, testPalette.GoldOre: true}
	for _, cx := range []int{-2, 0, 3} {
		grid := g.GenerateChunk(cx, 0)
		for lx := 0; lx < d.Size; lx++ {
			wx := cx*d.Size + lx
			h := g.SurfaceHeight(wx)
			for y := 0; y < d.Height; y++ {
				b := grid[d.Index(lx, y, 0)]
				if g.IsCave(wx, y) && b != testPalette.Air {
					t.Fatalf("cave cell x=%d y=%d holds block %d", wx, y, b)
				}
				if ores[b] && y >= h-10 {
					t.Fatalf("ore %d outside stone bands at x=%d y=%d surface=%d", b, wx, y, h)
				}
				if b != grid[d.Index(lx, y, d.Size-1)] {
					t.Fatalf("column x=%d y=%d differs across z", wx, y)
				}
			}
		}
	}
}

func TestNegativeChunkColumnsMatchWorldColumns(t *testing.T) {
	g := newTestGen(t, 11)
	d := g.Dims()
	grid := g.GenerateChunk(-1, 0)
	// Local x 15 of chunk -1 is world column -1.
	h := g.SurfaceHeight(-1)
	if got := grid[d.Index(15, h, 0)]; got == testPalette.Air && !g.IsCave(-1, h) {
		t.Fatalf("expected solid surface at world x=-1 y=%d", h)
	}
	if got := grid[d.Index(15, h+1, 0)]; got != testPalette.Air {
		t.Fatalf("expected air above surface at world x=-1, got %d", got)
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	p := DefaultParams()
	p.Height = 40
	_, err := New(1, p, testPalette)
	var ge *GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	p = DefaultParams()
	p.ChunkSize = 0
	if _, err := New(1, p, testPalette); err == nil {
		t.Fatalf("expected error for zero chunk size")
	}
}

func TestNoiseSeedsAreDistinct(t *testing.T) {
	seeds := []int64{BaseSeed(42), TerrainBaseSeed(42), TerrainDetailSeed(42), BiomeSeed(42), CaveMainSeed(42), CaveDetailSeed(42), OreSeed(42)}
	seen := map[int64]bool{}
	for _, s := range seeds {
		if seen[s] {
			t.Fatalf("duplicate derived seed %d", s)
		}
		seen[s] = true
	}
}
