package mathx

import "testing"

func TestFloorDivAndModNegative(t *testing.T) {
	cases := []struct {
		a, b int
		q, m int
	}{
		{0, 16, 0, 0},
		{15, 16, 0, 15},
		{16, 16, 1, 0},
		{-1, 16, -1, 15},
		{-16, 16, -1, 0},
		{-17, 16, -2, 15},
	}
	for _, c := range cases {
		if got := FloorDiv(c.a, c.b); got != c.q {
			t.Fatalf("FloorDiv(%d,%d): got %d want %d", c.a, c.b, got, c.q)
		}
		if got := Mod(c.a, c.b); got != c.m {
			t.Fatalf("Mod(%d,%d): got %d want %d", c.a, c.b, got, c.m)
		}
	}
}

func TestFloorDivModReconstructs(t *testing.T) {
	for a := -100; a <= 100; a++ {
		q := FloorDiv(a, 16)
		m := Mod(a, 16)
		if m < 0 || m >= 16 {
			t.Fatalf("Mod(%d,16)=%d out of range", a, m)
		}
		if q*16+m != a {
			t.Fatalf("reconstruct %d: got %d", a, q*16+m)
		}
	}
}

func TestFloorToInt(t *testing.T) {
	if got := FloorToInt(-0.5); got != -1 {
		t.Fatalf("FloorToInt(-0.5): got %d", got)
	}
	if got := FloorToInt(3.9); got != 3 {
		t.Fatalf("FloorToInt(3.9): got %d", got)
	}
}

func TestWithinRadius(t *testing.T) {
	if !WithinRadius(3, 0, 3) {
		t.Fatalf("expected (3,0) within 3")
	}
	if WithinRadius(3, 1, 3) {
		t.Fatalf("expected (3,1) outside 3")
	}
	if WithinRadius(0, 0, -1) {
		t.Fatalf("negative radius must be empty")
	}
}

func TestHash2Deterministic(t *testing.T) {
	if Hash2(42, -3, 7) != Hash2(42, -3, 7) {
		t.Fatalf("hash not deterministic")
	}
	if Hash2(42, 0, 0) == Hash2(43, 0, 0) {
		t.Fatalf("expected different seeds to hash differently")
	}
}
