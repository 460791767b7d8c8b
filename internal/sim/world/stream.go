package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"voxelsandbox/internal/sim/world/terrain/store"
)

// Observe moves the player to pos and streams chunks around it: every chunk within
// RenderDistance is made resident, then chunks beyond RenderDistance+EvictMargin
// are evicted.
func (w *World) Observe(pos mgl64.Vec3) StreamResult {
	w.player.Pos = pos
	x, _, z := blockPos(pos)
	center := w.chunks.ChunkKeyOf(x, z)
	return w.streamAround(center)
}

func (w *World) streamAround(center store.ChunkKey) StreamResult {
	loaded := w.chunks.EnsureLoaded(center, w.cfg.RenderDistance)
	evicted := w.chunks.EvictFar(center, w.cfg.RenderDistance+w.cfg.EvictMargin)
	for _, k := range loaded {
		w.emit(Event{Kind: EventChunkLoaded, Chunk: k.String()})
	}
	for _, k := range evicted {
		w.emit(Event{Kind: EventChunkEvicted, Chunk: k.String()})
	}
	if len(loaded) > 0 || len(evicted) > 0 {
		w.logf("stream center=%s loaded=%d evicted=%d resident=%d", center, len(loaded), len(evicted), w.chunks.Len())
	}
	return StreamResult{
		Center:   center,
		Loaded:   loaded,
		Evicted:  evicted,
		Resident: w.chunks.Len(),
	}
}
