package world

import (
	"fmt"

	"voxelsandbox/internal/sim/world/terrain/gen"
	"voxelsandbox/internal/sim/world/terrain/store"
)

const DefaultEvictMargin = 2

type WorldConfig struct {
	ID         string
	Seed       int64
	TickRateHz int

	// Chunks within RenderDistance of the observer stay resident; chunks
	// beyond RenderDistance+EvictMargin are dropped. EvictMargin 0 takes the
	// default of 2; a negative value means no margin.
	RenderDistance int
	EvictMargin    int

	// MaxUpdatesPerTick bounds both queued commands and drop entities handled per tick.
	MaxUpdatesPerTick int

	// AutosaveEveryTicks writes AutosaveName every N ticks; 0 disables autosave.
	AutosaveEveryTicks int
	AutosaveName       string

	PlayerName string

	// Starter items granted to a fresh player, keyed by block id name.
	StarterItems map[string]int

	Gen   gen.Params
	Decor store.DecorParams
}

func (c *WorldConfig) applyDefaults() {
	if c.ID == "" {
		c.ID = "world_1"
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 20
	}
	if c.RenderDistance <= 0 {
		c.RenderDistance = 3
	}
	switch {
	case c.EvictMargin == 0:
		c.EvictMargin = DefaultEvictMargin
	case c.EvictMargin < 0:
		c.EvictMargin = 0
	}
	if c.MaxUpdatesPerTick <= 0 {
		c.MaxUpdatesPerTick = 50
	}
	if c.PlayerName == "" {
		c.PlayerName = "player"
	}
	if c.AutosaveName == "" {
		c.AutosaveName = c.PlayerName
	}
	if c.Gen == (gen.Params{}) {
		c.Gen = gen.DefaultParams()
	}
	if c.Decor == (store.DecorParams{}) {
		c.Decor = store.DefaultDecorParams()
	}
}

func (c WorldConfig) validate() error {
	if c.AutosaveEveryTicks < 0 {
		return fmt.Errorf("autosave every ticks must be >= 0, got %d", c.AutosaveEveryTicks)
	}
	for id, n := range c.StarterItems {
		if n < 0 {
			return fmt.Errorf("starter item %s: negative count %d", id, n)
		}
	}
	return c.Gen.Validate()
}
