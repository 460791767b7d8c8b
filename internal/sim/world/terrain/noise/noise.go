// Package noise provides the seeded gradient noise used by terrain generation.
package noise

import (
	"math"
	"math/rand"

	"voxelsandbox/internal/sim/world/logic/mathx"
)

const tableSize = 256

// Field is a 2D Perlin noise field. It is immutable after New and safe for concurrent reads.
type Field struct {
	seed int64
	perm [tableSize * 2]int
}

func New(seed int64) *Field {
	f := &Field{seed: seed}

	base := make([]int, tableSize)
	for i := range base {
		base[i] = i
	}
	// Each field owns its generator; no state is shared with other fields or decoration.
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(base), func(i, j int) { base[i], base[j] = base[j], base[i] })

	for i, v := range base {
		f.perm[i] = v
		f.perm[i+tableSize] = v
	}
	return f
}

func (f *Field) Seed() int64 { return f.seed }

// Permutation returns a copy of the first half of the lookup table.
func (f *Field) Permutation() []int {
	out := make([]int, tableSize)
	copy(out, f.perm[:tableSize])
	return out
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad(hash int, x, y float64) float64 {
	h := hash & 15
	u := y
	if h < 8 {
		u = x
	}
	var v float64
	switch {
	case h < 4:
		v = y
	case h == 12 || h == 14:
		v = x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// Sample evaluates the field at (x, y). The result is continuous and roughly in [-1, 1].
func (f *Field) Sample(x, y float64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	xi := int(x0) & (tableSize - 1)
	yi := int(y0) & (tableSize - 1)
	xf := x - x0
	yf := y - y0

	u := fade(xf)
	v := fade(yf)

	a := f.perm[xi] + yi
	b := f.perm[xi+1] + yi
	aa := f.perm[a]
	ab := f.perm[a+1]
	ba := f.perm[b]
	bb := f.perm[b+1]

	x1 := lerp(u, grad(aa, xf, yf), grad(ba, xf-1, yf))
	x2 := lerp(u, grad(ab, xf, yf-1), grad(bb, xf-1, yf-1))
	return lerp(v, x1, x2)
}

// Noise2D samples at (x*freq, y*freq), clamped to [-1, 1].
func (f *Field) Noise2D(x, y, freq float64) float64 {
	return mathx.ClampFloat(f.Sample(x*freq, y*freq), -1, 1)
}

// Fractal sums octaves of Noise2D, doubling frequency and scaling amplitude by persistence each
// step, then normalises by the total amplitude. Zero or negative octaves yield 0.
func (f *Field) Fractal(x, y float64, octaves int, persistence, freq float64) float64 {
	if octaves <= 0 {
		return 0
	}
	var (
		total  float64
		maxAmp float64
		amp    = 1.0
	)
	for i := 0; i < octaves; i++ {
		total += f.Noise2D(x, y, freq) * amp
		maxAmp += amp
		amp *= persistence
		freq *= 2
	}
	if maxAmp == 0 {
		return 0
	}
	return mathx.ClampFloat(total/maxAmp, -1, 1)
}
