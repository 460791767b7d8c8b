package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz         int `yaml:"tick_rate_hz"`
	ChunkSize          int `yaml:"chunk_size"`
	WorldHeight        int `yaml:"world_height"`
	RenderDistance     int `yaml:"render_distance"`
	EvictMargin        int `yaml:"evict_margin"`
	MaxUpdatesPerTick  int `yaml:"max_updates_per_tick"`
	AutosaveEveryTicks int `yaml:"autosave_every_ticks"`
	MaxBackups         int `yaml:"max_backups"`

	StarterItems map[string]int `yaml:"starter_items"`

	WorldGen WorldGen `yaml:"worldgen"`
	Decor    Decor    `yaml:"decor"`
}

type WorldGen struct {
	BaseHeight        int     `yaml:"base_height"`
	Amplitude         float64 `yaml:"amplitude"`
	Frequency         float64 `yaml:"frequency"`
	BiomeSize         float64 `yaml:"biome_size"`
	MountainThreshold float64 `yaml:"mountain_threshold"`
	MountainBoost     float64 `yaml:"mountain_boost"`
	MinSurface        int     `yaml:"min_surface"`
	CeilingMargin     int     `yaml:"ceiling_margin"`
	CaveThreshold     float64 `yaml:"cave_threshold"`
	CaveFrequency     float64 `yaml:"cave_frequency"`
	CaveMinDepth      int     `yaml:"cave_min_depth"`
	OreFrequency      float64 `yaml:"ore_frequency"`
	OreMinDepth       int     `yaml:"ore_min_depth"`
	OreShallowMax     int     `yaml:"ore_shallow_max"`
	OreMidMax         int     `yaml:"ore_mid_max"`
}

type Decor struct {
	TreeChance   float64 `yaml:"tree_chance"`
	ColumnChance float64 `yaml:"column_chance"`
	ColumnMin    int     `yaml:"column_min"`
	ColumnMax    int     `yaml:"column_max"`
	TrunkMin     int     `yaml:"trunk_min"`
	TrunkMax     int     `yaml:"trunk_max"`
	LeafRadius   int     `yaml:"leaf_radius"`
}

// Defaults matches configs/tuning.yaml.
func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:    "1.0",
		TickRateHz:         20,
		ChunkSize:          16,
		WorldHeight:        128,
		RenderDistance:     3,
		EvictMargin:        2,
		MaxUpdatesPerTick:  50,
		AutosaveEveryTicks: 0,
		MaxBackups:         2,
		WorldGen: WorldGen{
			BaseHeight:        64,
			Amplitude:         20,
			Frequency:         0.01,
			BiomeSize:         200,
			MountainThreshold: 0.8,
			MountainBoost:     30,
			MinSurface:        20,
			CeilingMargin:     30,
			CaveThreshold:     0.4,
			CaveFrequency:     0.05,
			CaveMinDepth:      20,
			OreFrequency:      0.1,
			OreMinDepth:       30,
			OreShallowMax:     50,
			OreMidMax:         80,
		},
		Decor: Decor{
			TreeChance:   0.1,
			ColumnChance: 0.3,
			ColumnMin:    3,
			ColumnMax:    12,
			TrunkMin:     4,
			TrunkMax:     7,
			LeafRadius:   2,
		},
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.TickRateHz <= 0:
		return fmt.Errorf("tick_rate_hz must be > 0")
	case t.ChunkSize <= 0:
		return fmt.Errorf("chunk_size must be > 0")
	case t.WorldHeight <= 0:
		return fmt.Errorf("world_height must be > 0")
	case t.RenderDistance < 0:
		return fmt.Errorf("render_distance must be >= 0")
	case t.EvictMargin < 0:
		return fmt.Errorf("evict_margin must be >= 0")
	case t.MaxUpdatesPerTick <= 0:
		return fmt.Errorf("max_updates_per_tick must be > 0")
	case t.AutosaveEveryTicks < 0:
		return fmt.Errorf("autosave_every_ticks must be >= 0")
	case t.MaxBackups < 0:
		return fmt.Errorf("max_backups must be >= 0")
	}
	for id, n := range t.StarterItems {
		if n < 0 {
			return fmt.Errorf("starter_items[%s] must be >= 0", id)
		}
	}
	return nil
}
