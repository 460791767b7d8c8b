// Package settings persists per-install user preferences in a TOML file.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
)

// Settings overrides a subset of the engine tuning for one installation.
type Settings struct {
	PlayerName     string `toml:"player_name"`
	RenderDistance int    `toml:"render_distance"`
	// TickLimit caps the world loop rate; 0 keeps the tuning rate.
	TickLimit          int  `toml:"tick_limit"`
	LogEnabled         bool `toml:"log_enabled"`
	AutosaveEveryTicks int  `toml:"autosave_every_ticks"`
}

func Defaults() Settings {
	return Settings{
		PlayerName:     "player",
		RenderDistance: 3,
		TickLimit:      60,
		LogEnabled:     true,
	}
}

// Load reads the settings file at path. A missing file is created with defaults.
// Keys absent from the file keep their default values.
func Load(path string) (Settings, error) {
	if strings.TrimSpace(path) == "" {
		return Settings{}, errors.New("settings path must not be empty")
	}
	s := Defaults()
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, Save(path, s)
		}
		return s, fmt.Errorf("read settings: %w", err)
	}
	if len(contents) != 0 {
		if err := toml.Unmarshal(contents, &s); err != nil {
			return Defaults(), fmt.Errorf("decode settings: %w", err)
		}
	}
	if err := s.Validate(); err != nil {
		return Defaults(), err
	}
	return s, nil
}

func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}
	encoded, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func (s Settings) Validate() error {
	if strings.TrimSpace(s.PlayerName) == "" {
		return errors.New("settings: player_name must not be empty")
	}
	if s.RenderDistance < 1 || s.RenderDistance > 16 {
		return fmt.Errorf("settings: render_distance %d out of range [1,16]", s.RenderDistance)
	}
	if s.TickLimit < 0 {
		return fmt.Errorf("settings: tick_limit must be >= 0")
	}
	if s.AutosaveEveryTicks < 0 {
		return fmt.Errorf("settings: autosave_every_ticks must be >= 0")
	}
	return nil
}
