package store

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	genpkg "voxelsandbox/internal/sim/world/terrain/gen"
)

type ChunkKey struct {
	CX int
	CZ int
}

// String renders the key in the "x,z" form used by save records.
func (k ChunkKey) String() string {
	return strconv.Itoa(k.CX) + "," + strconv.Itoa(k.CZ)
}

func ParseChunkKey(s string) (ChunkKey, error) {
	xs, zs, ok := strings.Cut(s, ",")
	if !ok {
		return ChunkKey{}, fmt.Errorf("chunk key %q: missing comma", s)
	}
	cx, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return ChunkKey{}, fmt.Errorf("chunk key %q: %w", s, err)
	}
	cz, err := strconv.Atoi(strings.TrimSpace(zs))
	if err != nil {
		return ChunkKey{}, fmt.Errorf("chunk key %q: %w", s, err)
	}
	return ChunkKey{CX: cx, CZ: cz}, nil
}

// BoundsError reports a local coordinate outside a chunk grid.
type BoundsError struct {
	Chunk   ChunkKey
	X, Y, Z int
	Dims    genpkg.Dims
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("chunk %s: local (%d,%d,%d) outside %dx%dx%d grid",
		e.Chunk, e.X, e.Y, e.Z, e.Dims.Size, e.Dims.Height, e.Dims.Size)
}

type Chunk struct {
	CX, CZ int
	Blocks []uint16 // len = size*height*size, see genpkg.Dims.Index

	dims  genpkg.Dims
	dirty bool
	hash  [32]byte
}

func newChunk(cx, cz int, dims genpkg.Dims, blocks []uint16) *Chunk {
	c := &Chunk{CX: cx, CZ: cz, Blocks: blocks, dims: dims, dirty: true}
	return c
}

func (c *Chunk) Key() ChunkKey     { return ChunkKey{CX: c.CX, CZ: c.CZ} }
func (c *Chunk) Dims() genpkg.Dims { return c.dims }

func (c *Chunk) InBounds(x, y, z int) bool {
	return c.dims.InBounds(x, y, z)
}

func (c *Chunk) Get(x, y, z int) (uint16, error) {
	if !c.dims.InBounds(x, y, z) {
		return 0, &BoundsError{Chunk: c.Key(), X: x, Y: y, Z: z, Dims: c.dims}
	}
	return c.Blocks[c.dims.Index(x, y, z)], nil
}

func (c *Chunk) Set(x, y, z int, b uint16) error {
	if !c.dims.InBounds(x, y, z) {
		return &BoundsError{Chunk: c.Key(), X: x, Y: y, Z: z, Dims: c.dims}
	}
	i := c.dims.Index(x, y, z)
	if c.Blocks[i] == b {
		return nil
	}
	c.Blocks[i] = b
	c.dirty = true
	return nil
}

// at and put skip bounds checks; callers guarantee valid coordinates.
func (c *Chunk) at(x, y, z int) uint16 {
	return c.Blocks[c.dims.Index(x, y, z)]
}

func (c *Chunk) put(x, y, z int, b uint16) {
	c.Blocks[c.dims.Index(x, y, z)] = b
	c.dirty = true
}

func (c *Chunk) Clone() *Chunk {
	blocks := make([]uint16, len(c.Blocks))
	copy(blocks, c.Blocks)
	out := newChunk(c.CX, c.CZ, c.dims, blocks)
	return out
}

// Equal reports whether both chunks hold the same coordinates and grid.
func (c *Chunk) Equal(o *Chunk) bool {
	if c.CX != o.CX || c.CZ != o.CZ || len(c.Blocks) != len(o.Blocks) {
		return false
	}
	for i := range c.Blocks {
		if c.Blocks[i] != o.Blocks[i] {
			return false
		}
	}
	return true
}

func (c *Chunk) Digest() [32]byte {
	if c.dirty || c.hash == ([32]byte{}) {
		h := sha256.New()
		var tmp [2]byte
		for _, v := range c.Blocks {
			binary.LittleEndian.PutUint16(tmp[:], v)
			h.Write(tmp[:])
		}
		copy(c.hash[:], h.Sum(nil))
		c.dirty = false
	}
	return c.hash
}
