package store

import (
	"errors"
	"testing"

	"voxelsandbox/internal/sim/world/logic/mathx"
)

func keysWithin(center ChunkKey, r int) map[ChunkKey]bool {
	out := map[ChunkKey]bool{}
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			if mathx.WithinRadius(dx, dz, r) {
				out[ChunkKey{CX: center.CX + dx, CZ: center.CZ + dz}] = true
			}
		}
	}
	return out
}

func TestEnsureLoadedThenEvictLeavesExactRing(t *testing.T) {
	s := newTestStore(t, 42)
	center := ChunkKey{CX: 0, CZ: 0}
	s.EnsureLoaded(center, 2)

	// Move away: the new ring is loaded, the old far chunks go.
	next := ChunkKey{CX: 5, CZ: -1}
	s.EnsureLoaded(next, 2)
	s.EvictFar(next, 2)

	want := keysWithin(next, 2)
	got := s.LoadedChunkKeys()
	if len(got) != len(want) {
		t.Fatalf("expected %d resident chunks, got %d", len(want), len(got))
	}
	for _, k := range got {
		if !want[k] {
			t.Fatalf("unexpected resident chunk %v", k)
		}
	}
}

func TestEnsureLoadedDoesNotRegenerate(t *testing.T) {
	s := newTestStore(t, 42)
	added := s.EnsureLoaded(ChunkKey{}, 1)
	if len(added) != 5 {
		t.Fatalf("expected 5 chunks in radius 1, got %d", len(added))
	}
	if err := s.SetBlock(3, 127, 3, 8); err != nil {
		t.Fatalf("set block: %v", err)
	}
	if again := s.EnsureLoaded(ChunkKey{}, 1); len(again) != 0 {
		t.Fatalf("expected no new chunks, got %v", again)
	}
	b, err := s.GetBlock(3, 127, 3)
	if err != nil || b != 8 {
		t.Fatalf("mutation lost: got %d err=%v", b, err)
	}
}

func TestEvictFarDropsMutatedChunks(t *testing.T) {
	s := newTestStore(t, 42)
	s.EnsureLoaded(ChunkKey{}, 0)
	if err := s.SetBlock(1, 127, 1, 8); err != nil {
		t.Fatalf("set block: %v", err)
	}
	evicted := s.EvictFar(ChunkKey{CX: 10, CZ: 0}, 2)
	if len(evicted) != 1 || evicted[0] != (ChunkKey{}) {
		t.Fatalf("expected origin evicted, got %v", evicted)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Len())
	}
	b, _ := s.GetBlock(1, 127, 1)
	if b == 8 {
		t.Fatalf("evicted mutation should not survive regeneration")
	}
}

func TestInsertionOrderPreserved(t *testing.T) {
	s := newTestStore(t, 3)
	order := []ChunkKey{{2, 2}, {-1, 0}, {0, 5}}
	for _, k := range order {
		s.GetOrGenChunk(k.CX, k.CZ)
	}
	s.GetOrGenChunk(-1, 0)
	got := s.InsertionOrder()
	if len(got) != len(order) {
		t.Fatalf("expected %d keys, got %d", len(order), len(got))
	}
	for i := range order {
		if got[i] != order[i] {
			t.Fatalf("order[%d]: got %v want %v", i, got[i], order[i])
		}
	}
	s.EvictFar(ChunkKey{CX: 0, CZ: 5}, 0)
	if got := s.InsertionOrder(); len(got) != 1 || got[0] != (ChunkKey{0, 5}) {
		t.Fatalf("unexpected order after evict: %v", got)
	}
}

func TestWorldCoordinatesUseFloorDivision(t *testing.T) {
	s := newTestStore(t, 9)
	if err := s.SetBlock(-1, 126, -17, 9); err != nil {
		t.Fatalf("set: %v", err)
	}
	ch, ok := s.Chunk(ChunkKey{CX: -1, CZ: -2})
	if !ok {
		t.Fatalf("expected chunk (-1,-2) to be generated")
	}
	b, err := ch.Get(15, 126, 15)
	if err != nil || b != 9 {
		t.Fatalf("expected block at local (15,126,15), got %d err=%v", b, err)
	}
	if k := s.ChunkKeyOf(-16, 15); k != (ChunkKey{CX: -1, CZ: 0}) {
		t.Fatalf("ChunkKeyOf(-16,15) = %v", k)
	}
}

func TestWorldBlockOutOfHeightIsBoundsError(t *testing.T) {
	s := newTestStore(t, 9)
	var be *BoundsError
	if err := s.SetBlock(0, -1, 0, 1); !errors.As(err, &be) {
		t.Fatalf("expected BoundsError, got %v", err)
	}
	if _, err := s.GetBlock(0, 128, 0); !errors.As(err, &be) {
		t.Fatalf("expected BoundsError, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("out-of-range access must not generate chunks")
	}
}

func TestResetReplacesResidentSet(t *testing.T) {
	s := newTestStore(t, 5)
	s.EnsureLoaded(ChunkKey{}, 1)
	ch := NewChunk(s.Gen, s.Decor, 7, 7)
	s.Reset([]*Chunk{ch})
	keys := s.LoadedChunkKeys()
	if len(keys) != 1 || keys[0] != (ChunkKey{7, 7}) {
		t.Fatalf("unexpected keys after reset: %v", keys)
	}
}

func TestPeekBlockOnlyReadsResidentChunks(t *testing.T) {
	s := newTestStore(t, 9)
	if _, ok := s.PeekBlock(40, 126, 3); ok {
		t.Fatalf("expected miss for a chunk that is not resident")
	}
	if s.Len() != 0 {
		t.Fatalf("PeekBlock must not generate chunks")
	}
	if err := s.SetBlock(40, 126, 3, 9); err != nil {
		t.Fatalf("set: %v", err)
	}
	if b, ok := s.PeekBlock(40, 126, 3); !ok || b != 9 {
		t.Fatalf("expected 9, got %d ok=%v", b, ok)
	}
	if _, ok := s.PeekBlock(40, 128, 3); ok {
		t.Fatalf("expected miss above the grid")
	}
}
