// Package snapshot defines the on-disk save record and its encoding.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

const Version = 1

// zstd frame magic, little endian 0xFD2FB528.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

type Header struct {
	Version  int    `json:"version"`
	SaveID   string `json:"save_id,omitempty"`
	SavedAt  string `json:"saved_at,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

type SaveV1 struct {
	Header Header `json:"header"`

	Player PlayerV1 `json:"player"`

	// Nil when the record predates seeded saves; loaders pick a fresh seed.
	WorldSeed *int64 `json:"world_seed,omitempty"`

	// Chunk key "x,z" -> cells that differ from the regenerated chunk.
	LoadedChunks map[string][]CellV1 `json:"loaded_chunks"`

	GameState map[string]any `json:"game_state"`
}

// CellV1 is [local_x, local_y, local_z, block_id].
type CellV1 [4]int

type PlayerV1 struct {
	Name           string      `json:"name"`
	HP             int         `json:"hp"`
	Hunger         int         `json:"hunger"`
	Level          int         `json:"level"`
	CurrentTool    int         `json:"current_tool"`
	Tools          map[int]int `json:"tools"`
	ToolDurability map[int]int `json:"tool_durability,omitempty"`
	Inventory      map[int]int `json:"inventory"`
	Position       PositionV1  `json:"position"`
}

type PositionV1 struct {
	X float64 `json:"world_x"`
	Y float64 `json:"world_z"` // vertical axis; field name kept from older records
	Z float64 `json:"z"`
}

func Seed(v int64) *int64 { return &v }

// Checksum hashes the chunk diffs. encoding/json sorts map keys, so the result is stable.
func Checksum(chunks map[string][]CellV1) string {
	b, _ := json.Marshal(chunks)
	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], xxhash.Sum64(b))
	return hex.EncodeToString(sum[:])
}

func WriteSave(path string, rec SaveV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := encode(f, rec); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func encode(f *os.File, rec SaveV1) error {
	rec.Header.Version = Version
	rec.Header.Checksum = Checksum(rec.LoadedChunks)

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 256*1024)
	if err := json.NewEncoder(bw).Encode(&rec); err != nil {
		_ = enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func ReadSave(path string) (SaveV1, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SaveV1{}, err
	}
	return Decode(raw)
}

// Decode accepts zstd-compressed or plain JSON records.
func Decode(raw []byte) (SaveV1, error) {
	var rec SaveV1
	if bytes.HasPrefix(raw, zstdMagic) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return rec, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(raw, nil)
		if err != nil {
			return rec, fmt.Errorf("zstd decode: %w", err)
		}
		raw = out
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("json decode: %w", err)
	}
	if rec.Player.Name == "" {
		return rec, fmt.Errorf("json decode: missing player name")
	}
	if rec.Header.Checksum != "" {
		if got := Checksum(rec.LoadedChunks); got != rec.Header.Checksum {
			return rec, fmt.Errorf("checksum mismatch: got %s want %s", got, rec.Header.Checksum)
		}
	}
	return rec, nil
}
