package store

import (
	"sort"
	"sync"

	"voxelsandbox/internal/sim/world/logic/mathx"
	genpkg "voxelsandbox/internal/sim/world/terrain/gen"
)

// ChunkStore holds the resident chunks. Insertion order is kept for inspection only; eviction is
// purely distance based. The mutex guards the key set; cell writes are serialised by the caller.
type ChunkStore struct {
	Gen   *genpkg.Generator
	Decor DecorParams

	mu     sync.RWMutex
	chunks map[ChunkKey]*Chunk
	order  []ChunkKey
}

func NewChunkStore(gen *genpkg.Generator, decor DecorParams) *ChunkStore {
	return &ChunkStore{
		Gen:    gen,
		Decor:  decor,
		chunks: map[ChunkKey]*Chunk{},
	}
}

func (s *ChunkStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

func (s *ChunkStore) Chunk(k ChunkKey) (*Chunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ch, ok := s.chunks[k]
	return ch, ok
}

// ChunkKeyOf returns the chunk containing world column (x, z).
func (s *ChunkStore) ChunkKeyOf(x, z int) ChunkKey {
	size := s.Gen.Dims().Size
	return ChunkKey{CX: mathx.FloorDiv(x, size), CZ: mathx.FloorDiv(z, size)}
}

func (s *ChunkStore) InBounds(x, y, z int) bool {
	return y >= 0 && y < s.Gen.Dims().Height
}

func (s *ChunkStore) LoadedChunkKeys() []ChunkKey {
	s.mu.RLock()
	keys := make([]ChunkKey, 0, len(s.chunks))
	for k := range s.chunks {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	SortKeys(keys)
	return keys
}

func SortKeys(keys []ChunkKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		return keys[i].CZ < keys[j].CZ
	})
}

func (s *ChunkStore) InsertionOrder() []ChunkKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChunkKey, len(s.order))
	copy(out, s.order)
	return out
}

// Chunks returns the resident chunks sorted by key.
func (s *ChunkStore) Chunks() []*Chunk {
	keys := s.LoadedChunkKeys()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Chunk, 0, len(keys))
	for _, k := range keys {
		if ch := s.chunks[k]; ch != nil {
			out = append(out, ch)
		}
	}
	return out
}

func (s *ChunkStore) GetOrGenChunk(cx, cz int) *Chunk {
	k := ChunkKey{CX: cx, CZ: cz}
	if ch, ok := s.Chunk(k); ok {
		return ch
	}
	ch := NewChunk(s.Gen, s.Decor, cx, cz)
	return s.insert(ch, false)
}

// Put inserts ch, replacing any resident chunk with the same key.
func (s *ChunkStore) Put(ch *Chunk) {
	s.insert(ch, true)
}

func (s *ChunkStore) insert(ch *Chunk, replace bool) *Chunk {
	k := ch.Key()
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.chunks[k]; ok {
		if !replace {
			return cur
		}
		s.chunks[k] = ch
		return ch
	}
	s.chunks[k] = ch
	s.order = append(s.order, k)
	return ch
}

// Reset replaces the whole resident set.
func (s *ChunkStore) Reset(chunks []*Chunk) {
	s.mu.Lock()
	s.chunks = make(map[ChunkKey]*Chunk, len(chunks))
	s.order = s.order[:0]
	s.mu.Unlock()
	for _, ch := range chunks {
		s.insert(ch, true)
	}
}

// EnsureLoaded generates every absent chunk within radius of center and returns the new keys.
// Resident chunks are never regenerated.
func (s *ChunkStore) EnsureLoaded(center ChunkKey, radius int) []ChunkKey {
	var added []ChunkKey
	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if !mathx.WithinRadius(dx, dz, radius) {
				continue
			}
			k := ChunkKey{CX: center.CX + dx, CZ: center.CZ + dz}
			if _, ok := s.Chunk(k); ok {
				continue
			}
			// Built outside the lock; becomes visible only once complete.
			ch := NewChunk(s.Gen, s.Decor, k.CX, k.CZ)
			if s.insert(ch, false) == ch {
				added = append(added, k)
			}
		}
	}
	return added
}

// EvictFar drops every resident chunk farther than limit from center, mutated or not.
func (s *ChunkStore) EvictFar(center ChunkKey, limit int) []ChunkKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	var evicted []ChunkKey
	kept := s.order[:0]
	for _, k := range s.order {
		if mathx.WithinRadius(k.CX-center.CX, k.CZ-center.CZ, limit) {
			kept = append(kept, k)
			continue
		}
		delete(s.chunks, k)
		evicted = append(evicted, k)
	}
	s.order = kept
	return evicted
}

func (s *ChunkStore) locate(x, z int) (ChunkKey, int, int) {
	size := s.Gen.Dims().Size
	return s.ChunkKeyOf(x, z), mathx.Mod(x, size), mathx.Mod(z, size)
}

// GetBlock reads a world-space block, generating its chunk if needed.
func (s *ChunkStore) GetBlock(x, y, z int) (uint16, error) {
	k, lx, lz := s.locate(x, z)
	if !s.InBounds(x, y, z) {
		return s.Gen.Palette().Air, &BoundsError{Chunk: k, X: lx, Y: y, Z: lz, Dims: s.Gen.Dims()}
	}
	return s.GetOrGenChunk(k.CX, k.CZ).Get(lx, y, lz)
}

// PeekBlock reads a world-space block only if its chunk is resident.
func (s *ChunkStore) PeekBlock(x, y, z int) (uint16, bool) {
	k, lx, lz := s.locate(x, z)
	if !s.InBounds(x, y, z) {
		return s.Gen.Palette().Air, false
	}
	ch, ok := s.Chunk(k)
	if !ok {
		return s.Gen.Palette().Air, false
	}
	b, err := ch.Get(lx, y, lz)
	return b, err == nil
}

func (s *ChunkStore) SetBlock(x, y, z int, b uint16) error {
	k, lx, lz := s.locate(x, z)
	if !s.InBounds(x, y, z) {
		return &BoundsError{Chunk: k, X: lx, Y: y, Z: lz, Dims: s.Gen.Dims()}
	}
	return s.GetOrGenChunk(k.CX, k.CZ).Set(lx, y, lz, b)
}
