// Package mining holds the pure rules for digging blocks with tools.
package mining

import (
	"errors"

	"voxelsandbox/internal/sim/catalogs"
)

// Done is the progress value at which a block breaks.
const Done = 100.0

var (
	ErrUnbreakable  = errors.New("block cannot be broken")
	ErrToolTooWeak  = errors.New("current tool cannot break this block")
	ErrNoSuchTool   = errors.New("unknown tool")
	ErrToolNotOwned = errors.New("tool not owned")
)

// Check reports whether tool (with code toolCode) may break block.
func Check(block catalogs.BlockDef, toolCode int, tool catalogs.ToolDef) error {
	if !block.Breakable || block.Hardness <= 0 {
		return ErrUnbreakable
	}
	if toolCode < block.MinTool || !tool.CanBreak(block.Code) {
		return ErrToolTooWeak
	}
	return nil
}

// Advance adds efficiency/hardness progress for dt seconds, scaled to a 60Hz frame
// baseline, and caps the result at Done.
func Advance(progress, efficiency, hardness, dt float64) float64 {
	if hardness <= 0 || dt <= 0 {
		return progress
	}
	progress += efficiency / hardness * dt * 60
	if progress > Done {
		progress = Done
	}
	return progress
}

// Wear records one use of the current tool. When the used count reaches the
// tool's durability one copy is consumed; losing the last copy falls back to
// the hand (code 0). It returns the tool now equipped and whether a copy broke.
func Wear(tools, used map[int]int, current int, def catalogs.ToolDef) (int, bool) {
	if def.Durability <= 0 {
		return current, false
	}
	used[current]++
	if used[current] < def.Durability {
		return current, false
	}
	delete(used, current)
	tools[current]--
	if tools[current] <= 0 {
		delete(tools, current)
		return catalogs.Hand, true
	}
	return current, true
}
