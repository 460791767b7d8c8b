// Package encoding packs chunk grids for the wire.
package encoding

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// EncodeBlocks run-length encodes a flat block grid as base64 of uvarint
// (block, run) pairs. Terrain columns are long runs of one block, so a chunk
// usually packs into a few hundred bytes.
func EncodeBlocks(blocks []uint16) string {
	buf := make([]byte, 0, 256)
	for i := 0; i < len(blocks); {
		b := blocks[i]
		j := i + 1
		for j < len(blocks) && blocks[j] == b {
			j++
		}
		buf = binary.AppendUvarint(buf, uint64(b))
		buf = binary.AppendUvarint(buf, uint64(j-i))
		i = j
	}
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodeBlocks reverses EncodeBlocks. want is the expected grid length; a
// payload that expands to any other length is rejected.
func DecodeBlocks(s string, want int) ([]uint16, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode blocks: %w", err)
	}
	out := make([]uint16, 0, want)
	for i := 0; i < len(raw); {
		b, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad block varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad run varint at %d", i)
		}
		i += n
		switch {
		case b > 0xFFFF:
			return nil, fmt.Errorf("block id too large: %d", b)
		case run == 0:
			return nil, fmt.Errorf("empty run at %d", i)
		case uint64(len(out))+run > uint64(want):
			return nil, fmt.Errorf("runs exceed %d cells", want)
		}
		for k := uint64(0); k < run; k++ {
			out = append(out, uint16(b))
		}
	}
	if len(out) != want {
		return nil, fmt.Errorf("got %d cells, want %d", len(out), want)
	}
	return out, nil
}
