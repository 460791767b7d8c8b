package gen

import "fmt"

type Params struct {
	ChunkSize int
	Height    int

	BaseHeight int
	Amplitude  float64
	Frequency  float64
	BiomeSize  float64

	MountainThreshold float64
	MountainBoost     float64
	MinSurface        int
	CeilingMargin     int

	CaveThreshold float64
	CaveFrequency float64
	CaveMinDepth  int

	OreFrequency  float64
	OreMinDepth   int
	OreShallowMax int
	OreMidMax     int
}

func DefaultParams() Params {
	return Params{
		ChunkSize:         16,
		Height:            128,
		BaseHeight:        64,
		Amplitude:         20,
		Frequency:         0.01,
		BiomeSize:         200,
		MountainThreshold: 0.8,
		MountainBoost:     30,
		MinSurface:        20,
		CeilingMargin:     30,
		CaveThreshold:     0.4,
		CaveFrequency:     0.05,
		CaveMinDepth:      20,
		OreFrequency:      0.1,
		OreMinDepth:       30,
		OreShallowMax:     50,
		OreMidMax:         80,
	}
}

func (p Params) Validate() error {
	bad := func(format string, args ...any) error {
		return &GenerationError{Op: "params", Reason: fmt.Sprintf(format, args...)}
	}
	switch {
	case p.ChunkSize <= 0:
		return bad("chunk size must be positive, got %d", p.ChunkSize)
	case p.Height <= p.MinSurface+p.CeilingMargin:
		return bad("height %d leaves no surface band between %d and %d", p.Height, p.MinSurface, p.Height-p.CeilingMargin)
	case p.Frequency <= 0 || p.CaveFrequency <= 0 || p.OreFrequency <= 0:
		return bad("noise frequencies must be positive")
	case p.BiomeSize <= 0:
		return bad("biome size must be positive, got %v", p.BiomeSize)
	case p.OreMinDepth > p.OreShallowMax || p.OreShallowMax > p.OreMidMax:
		return bad("ore bands out of order: %d/%d/%d", p.OreMinDepth, p.OreShallowMax, p.OreMidMax)
	}
	return nil
}

// Palette holds the block ids the generator emits.
type Palette struct {
	Air       uint16
	Grass     uint16
	Dirt      uint16
	Stone     uint16
	Sand      uint16
	DeepStone uint16
	Wood      uint16
	Leaves    uint16
	CoalOre   uint16
	IronOre   uint16
	GoldOre   uint16
}

// Dims is the shape of a chunk grid: Size x Height x Size, flat index (x*Height+y)*Size+z.
type Dims struct {
	Size   int
	Height int
}

func (d Dims) Len() int { return d.Size * d.Height * d.Size }

func (d Dims) Index(x, y, z int) int {
	return (x*d.Height+y)*d.Size + z
}

func (d Dims) InBounds(x, y, z int) bool {
	return x >= 0 && x < d.Size && y >= 0 && y < d.Height && z >= 0 && z < d.Size
}

// GenerationError reports invalid tunables or coordinates. It is not recoverable.
type GenerationError struct {
	Op     string
	Reason string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %s", e.Op, e.Reason)
}
