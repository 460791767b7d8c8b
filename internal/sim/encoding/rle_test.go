package encoding

import (
	"encoding/base64"
	"testing"
)

func TestBlocksRoundTrip(t *testing.T) {
	in := make([]uint16, 0, 200)
	in = append(in, 1, 1, 1, 2, 2, 3)
	for i := 0; i < 50; i++ {
		in = append(in, 7)
	}
	in = append(in, 9, 10, 10, 10, 300)

	out, err := DecodeBlocks(EncodeBlocks(in), len(in))
	if err != nil {
		t.Fatalf("DecodeBlocks: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len mismatch: got %d want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("mismatch at %d: got %d want %d", i, out[i], in[i])
		}
	}
}

func TestEmptyGrid(t *testing.T) {
	if s := EncodeBlocks(nil); s != "" {
		t.Fatalf("expected empty encoding, got %q", s)
	}
	out, err := DecodeBlocks("", 0)
	if err != nil || len(out) != 0 {
		t.Fatalf("expected empty grid, got %v err=%v", out, err)
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	enc := EncodeBlocks([]uint16{4, 4, 4, 4})
	if _, err := DecodeBlocks(enc, 3); err == nil {
		t.Fatalf("expected overflow error")
	}
	if _, err := DecodeBlocks(enc, 5); err == nil {
		t.Fatalf("expected short grid error")
	}
}

func TestDecodeRejectsBadPayload(t *testing.T) {
	cases := map[string]string{
		"not base64": "!!!",
		"zero run":   base64.StdEncoding.EncodeToString([]byte{1, 0}),
		"truncated":  base64.StdEncoding.EncodeToString([]byte{1}),
		"huge id":    base64.StdEncoding.EncodeToString([]byte{0x80, 0x80, 0x04, 1}),
	}
	for name, s := range cases {
		if _, err := DecodeBlocks(s, 1); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
