package store

import (
	"errors"
	"testing"
)

func TestChunkKeyStringRoundTrip(t *testing.T) {
	for _, k := range []ChunkKey{{0, 0}, {-3, 7}, {12, -1}} {
		got, err := ParseChunkKey(k.String())
		if err != nil {
			t.Fatalf("parse %q: %v", k.String(), err)
		}
		if got != k {
			t.Fatalf("round trip: got %v want %v", got, k)
		}
	}
	for _, bad := range []string{"", "1", "a,b", "1,"} {
		if _, err := ParseChunkKey(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestChunkGetSetBounds(t *testing.T) {
	g := newTestGen(t, 1)
	ch := NewChunk(g, DefaultDecorParams(), 2, -1)
	if err := ch.Set(1, 2, 3, 8); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, err := ch.Get(1, 2, 3)
	if err != nil || b != 8 {
		t.Fatalf("get: got %d err=%v", b, err)
	}

	var be *BoundsError
	if _, err := ch.Get(16, 0, 0); !errors.As(err, &be) {
		t.Fatalf("expected BoundsError, got %v", err)
	}
	if err := ch.Set(0, 128, 0, 1); !errors.As(err, &be) {
		t.Fatalf("expected BoundsError for y=128, got %v", err)
	}
	if err := ch.Set(0, 0, -1, 1); err == nil {
		t.Fatalf("expected error for z=-1")
	}
}

func TestChunkDigestTracksMutation(t *testing.T) {
	g := newTestGen(t, 1)
	ch := NewChunk(g, DefaultDecorParams(), 0, 1)
	before := ch.Digest()
	if err := ch.Set(0, 127, 0, 3); err != nil {
		t.Fatalf("set: %v", err)
	}
	after := ch.Digest()
	if before == after {
		t.Fatalf("digest did not change after mutation")
	}
	clone := ch.Clone()
	if clone.Digest() != after || !clone.Equal(ch) {
		t.Fatalf("clone should match original")
	}
}
