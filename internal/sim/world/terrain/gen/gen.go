// Package gen decides, for any world column, the surface elevation, biome, caves and ores.
package gen

import (
	"math"

	"voxelsandbox/internal/sim/world/logic/mathx"
	"voxelsandbox/internal/sim/world/terrain/noise"
)

// Seeds derived from the world seed, one per noise field.
func BaseSeed(seed int64) int64          { return seed }
func TerrainBaseSeed(seed int64) int64   { return seed*2 + 1 }
func TerrainDetailSeed(seed int64) int64 { return seed*3 + 2 }
func BiomeSeed(seed int64) int64         { return seed*5 + 3 }
func CaveMainSeed(seed int64) int64      { return seed*7 + 4 }
func CaveDetailSeed(seed int64) int64    { return seed*11 + 5 }
func OreSeed(seed int64) int64           { return seed*13 + 6 }

type Biome uint8

const (
	Desert Biome = iota
	Forest
	Plains
	Hills
)

func (b Biome) String() string {
	switch b {
	case Desert:
		return "DESERT"
	case Forest:
		return "FOREST"
	case Plains:
		return "PLAINS"
	case Hills:
		return "HILLS"
	default:
		return "UNKNOWN"
	}
}

// BiomeFrom maps a biome noise value onto contiguous, ordered ranges.
func BiomeFrom(v float64) Biome {
	switch {
	case v < -0.5:
		return Desert
	case v < 0:
		return Forest
	case v < 0.5:
		return Plains
	default:
		return Hills
	}
}

// Generator is stateless with respect to queries; every method is a pure function of its inputs.
type Generator struct {
	seed    int64
	params  Params
	palette Palette
	dims    Dims

	base    *noise.Field
	terrain *noise.Field
	detail  *noise.Field
	biome   *noise.Field
	cave    *noise.Field
	caveDet *noise.Field
	ore     *noise.Field
}

func New(seed int64, p Params, pal Palette) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		seed:    seed,
		params:  p,
		palette: pal,
		dims:    Dims{Size: p.ChunkSize, Height: p.Height},
		base:    noise.New(BaseSeed(seed)),
		terrain: noise.New(TerrainBaseSeed(seed)),
		detail:  noise.New(TerrainDetailSeed(seed)),
		biome:   noise.New(BiomeSeed(seed)),
		cave:    noise.New(CaveMainSeed(seed)),
		caveDet: noise.New(CaveDetailSeed(seed)),
		ore:     noise.New(OreSeed(seed)),
	}, nil
}

func (g *Generator) Seed() int64      { return g.seed }
func (g *Generator) Params() Params   { return g.params }
func (g *Generator) Palette() Palette { return g.palette }
func (g *Generator) Dims() Dims       { return g.dims }

// SurfaceHeight returns the y of the top solid block of column wx.
func (g *Generator) SurfaceHeight(wx int) int {
	p := g.params
	x := float64(wx)
	base := g.terrain.Fractal(x, 0, 6, 0.5, p.Frequency)
	detail := g.detail.Fractal(x, 100, 8, 0.7, p.Frequency*2)

	h := float64(p.BaseHeight) + (base*0.7+detail*0.3)*p.Amplitude

	mountain := math.Abs(g.base.Noise2D(x*0.005, 0, 0.5))
	if mountain > p.MountainThreshold {
		h += mountain * p.MountainBoost
	}
	return mathx.ClampInt(int(math.Floor(h)), p.MinSurface, p.Height-p.CeilingMargin)
}

func (g *Generator) Biome(wx int) Biome {
	return BiomeFrom(g.biome.Noise2D(float64(wx)/g.params.BiomeSize, 0, 1))
}

// Depth is measured downward from the surface of the column.
func (g *Generator) Depth(wx, y int) int {
	return g.SurfaceHeight(wx) - y
}

func (g *Generator) IsCave(wx, y int) bool {
	return g.isCaveAtDepth(wx, y, g.Depth(wx, y))
}

func (g *Generator) isCaveAtDepth(wx, y, depth int) bool {
	p := g.params
	if depth < p.CaveMinDepth {
		return false
	}
	x := float64(wx)
	fy := float64(y)
	c1 := g.cave.Fractal(x, fy, 4, 0.5, p.CaveFrequency)
	c2 := g.caveDet.Fractal(x*1.5, fy*1.5, 2, 0.3, p.CaveFrequency*2)

	height := float64(p.Height)
	v := (c1 + c2*0.3) * (1 + float64(depth)/height*2)

	deep := (float64(depth) - height*0.7) / (height * 0.3)
	if deep > 0 {
		v = math.Max(v, g.base.Noise2D(x*0.02, fy*0.02, 0.3)*deep)
	}
	return v > p.CaveThreshold
}

func (g *Generator) OreAt(wx, y int) (uint16, bool) {
	return g.oreAtDepth(wx, y, g.Depth(wx, y))
}

func (g *Generator) oreAtDepth(wx, y, depth int) (uint16, bool) {
	p := g.params
	if depth < p.OreMinDepth {
		return 0, false
	}
	v := g.ore.Fractal(float64(wx), float64(y), 3, 0.6, p.OreFrequency)
	for _, t := range g.OreTiers(depth) {
		if v > t.Threshold {
			return t.Block, true
		}
	}
	return 0, false
}

// OreTier is one candidate ore of a depth band; tiers are ordered by descending threshold.
type OreTier struct {
	Block     uint16
	Threshold float64
}

func (g *Generator) OreTiers(depth int) []OreTier {
	p := g.params
	pal := g.palette
	switch {
	case depth < p.OreMinDepth:
		return nil
	case depth < p.OreShallowMax:
		return []OreTier{{pal.CoalOre, 0.85}}
	case depth < p.OreMidMax:
		return []OreTier{{pal.IronOre, 0.9}}
	default:
		return []OreTier{{pal.GoldOre, 0.95}, {pal.IronOre, 0.85}, {pal.CoalOre, 0.7}}
	}
}

func (g *Generator) SurfaceBlock(wx, y, surface int, b Biome) uint16 {
	pal := g.palette
	switch {
	case y > surface:
		return pal.Air
	case y == surface:
		if b == Desert {
			return pal.Sand
		}
		return pal.Grass
	case y >= surface-4:
		if b == Desert {
			return pal.Sand
		}
		return pal.Dirt
	case y >= surface-10:
		return pal.Stone
	default:
		return pal.DeepStone
	}
}

// GenerateChunk returns the terrain of chunk (cx, cz) laid out by Dims.
// Terrain depends only on the world x column and y, so one column is computed per local x
// and copied across every z.
func (g *Generator) GenerateChunk(cx, cz int) []uint16 {
	d := g.dims
	dst := make([]uint16, d.Len())
	col := make([]uint16, d.Height)
	for lx := 0; lx < d.Size; lx++ {
		wx := cx*d.Size + lx
		g.generateColumn(wx, col)
		for y, b := range col {
			for lz := 0; lz < d.Size; lz++ {
				dst[d.Index(lx, y, lz)] = b
			}
		}
	}
	return dst
}

func (g *Generator) generateColumn(wx int, col []uint16) {
	surface := g.SurfaceHeight(wx)
	biome := g.Biome(wx)
	pal := g.palette
	for y := range col {
		depth := surface - y
		if g.isCaveAtDepth(wx, y, depth) {
			col[y] = pal.Air
			continue
		}
		b := g.SurfaceBlock(wx, y, surface, biome)
		if b == pal.Stone || b == pal.DeepStone {
			if ore, ok := g.oreAtDepth(wx, y, depth); ok {
				b = ore
			}
		}
		col[y] = b
	}
}
