package store

import (
	"fmt"
	"sort"

	snapv1 "voxelsandbox/internal/persistence/snapshot"
	genpkg "voxelsandbox/internal/sim/world/terrain/gen"
)

// Reference regenerates the untouched baseline of chunk (cx, cz), decoration included.
func Reference(g *genpkg.Generator, decor DecorParams, cx, cz int) *Chunk {
	return NewChunk(g, decor, cx, cz)
}

// DiffChunk lists every cell of live that differs from ref, in grid order.
// Cells dug out to air are included so that replaying the diff restores them.
func DiffChunk(live, ref *Chunk) []snapv1.CellV1 {
	d := live.dims
	out := []snapv1.CellV1{}
	for x := 0; x < d.Size; x++ {
		for y := 0; y < d.Height; y++ {
			for z := 0; z < d.Size; z++ {
				b := live.at(x, y, z)
				if b != ref.at(x, y, z) {
					out = append(out, snapv1.CellV1{x, y, z, int(b)})
				}
			}
		}
	}
	return out
}

// ApplyDiff writes cells into ch. Out-of-range cells are skipped and reported; the rest still apply.
func ApplyDiff(ch *Chunk, cells []snapv1.CellV1) []error {
	var skipped []error
	for _, c := range cells {
		if c[3] < 0 || c[3] > 0xFFFF {
			skipped = append(skipped, fmt.Errorf("chunk %s: block id %d out of range", ch.Key(), c[3]))
			continue
		}
		if err := ch.Set(c[0], c[1], c[2], uint16(c[3])); err != nil {
			skipped = append(skipped, err)
		}
	}
	return skipped
}

// ExportDiffs converts resident chunks into the save map. Every chunk gets an entry, possibly empty.
func ExportDiffs(g *genpkg.Generator, decor DecorParams, chunks []*Chunk) map[string][]snapv1.CellV1 {
	out := make(map[string][]snapv1.CellV1, len(chunks))
	for _, ch := range chunks {
		if ch == nil {
			continue
		}
		ref := Reference(g, decor, ch.CX, ch.CZ)
		out[ch.Key().String()] = DiffChunk(ch, ref)
	}
	return out
}

// ImportDiffs regenerates every recorded chunk and replays its diff. Unparsable keys and
// out-of-range cells are returned as skipped errors and do not abort the import.
// Spellings that name the same chunk ("0,0", "0, 0") are merged into one chunk,
// applied in sorted key-string order.
func ImportDiffs(g *genpkg.Generator, decor DecorParams, diffs map[string][]snapv1.CellV1) ([]*Chunk, []error) {
	names := make([]string, 0, len(diffs))
	for s := range diffs {
		names = append(names, s)
	}
	sort.Strings(names)

	var keys []ChunkKey
	raw := make(map[ChunkKey][]string, len(diffs))
	var skipped []error
	for _, s := range names {
		k, err := ParseChunkKey(s)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		if _, seen := raw[k]; !seen {
			keys = append(keys, k)
		}
		raw[k] = append(raw[k], s)
	}
	SortKeys(keys)

	chunks := make([]*Chunk, 0, len(keys))
	for _, k := range keys {
		ch := NewChunk(g, decor, k.CX, k.CZ)
		for _, s := range raw[k] {
			skipped = append(skipped, ApplyDiff(ch, diffs[s])...)
		}
		_ = ch.Digest()
		chunks = append(chunks, ch)
	}
	return chunks, skipped
}
