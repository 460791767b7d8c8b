// Package catalogs holds the read-only block, tool and recipe registries.
package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type Catalogs struct {
	Blocks  BlockCatalog
	Tools   ToolCatalog
	Recipes RecipeCatalog
}

type BlockCatalog struct {
	// defs is indexed by block code; codes are dense from 0 (AIR).
	defs   []BlockDef
	Index  map[string]uint16
	Digest string
}

type BlockDef struct {
	Code      uint16  `json:"code"`
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Breakable bool    `json:"breakable"`
	Hardness  float64 `json:"hardness"`
	Drop      uint16  `json:"drop"`
	MinTool   int     `json:"min_tool"`
}

type ToolCatalog struct {
	defs   []ToolDef
	Digest string
}

type ToolDef struct {
	Code       int      `json:"code"`
	Name       string   `json:"name"`
	Durability int      `json:"durability"` // 0 = never wears out
	Efficiency float64  `json:"efficiency"`
	Breaks     []uint16 `json:"breaks"`
}

func (t ToolDef) CanBreak(block uint16) bool {
	for _, b := range t.Breaks {
		if b == block {
			return true
		}
	}
	return false
}

type RecipeCatalog struct {
	byOutput map[uint16]RecipeDef
	Digest   string
}

type RecipeDef struct {
	Output uint16      `json:"output"`
	Name   string      `json:"name"`
	Kind   string      `json:"kind"` // "TOOL" or "BLOCK"
	Inputs []ItemCount `json:"inputs"`
}

type ItemCount struct {
	Item  uint16 `json:"item"`
	Count int    `json:"count"`
}

func (c BlockCatalog) Len() int { return len(c.defs) }

func (c BlockCatalog) Def(code uint16) (BlockDef, bool) {
	if int(code) >= len(c.defs) {
		return BlockDef{}, false
	}
	return c.defs[code], true
}

func (c BlockCatalog) Code(id string) (uint16, bool) {
	v, ok := c.Index[id]
	return v, ok
}

func (c ToolCatalog) Len() int { return len(c.defs) }

func (c ToolCatalog) Def(code int) (ToolDef, bool) {
	if code < 0 || code >= len(c.defs) {
		return ToolDef{}, false
	}
	d := c.defs[code]
	d.Breaks = append([]uint16(nil), d.Breaks...)
	return d, true
}

func (c RecipeCatalog) Recipe(output uint16) (RecipeDef, bool) {
	r, ok := c.byOutput[output]
	if !ok {
		return RecipeDef{}, false
	}
	r.Inputs = append([]ItemCount(nil), r.Inputs...)
	return r, true
}

func (c RecipeCatalog) Outputs() []uint16 {
	out := make([]uint16, 0, len(c.byOutput))
	for k := range c.byOutput {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs
	if err := loadBlocks(filepath.Join(configDir, "blocks.json"), &c.Blocks); err != nil {
		return nil, err
	}
	if err := loadTools(filepath.Join(configDir, "tools.json"), &c.Tools); err != nil {
		return nil, err
	}
	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes); err != nil {
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadBlocks(path string, out *BlockCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var defs []BlockDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	if err := out.set(defs); err != nil {
		return fmt.Errorf("blocks.json: %w", err)
	}
	out.Digest = sha256Hex(raw)
	return nil
}

func (c *BlockCatalog) set(defs []BlockDef) error {
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	c.defs = make([]BlockDef, len(defs))
	c.Index = make(map[string]uint16, len(defs))
	for i, d := range defs {
		if int(d.Code) != i {
			return fmt.Errorf("block codes must be dense from 0: got %d at position %d", d.Code, i)
		}
		if d.ID == "" {
			return fmt.Errorf("empty id for code %d", d.Code)
		}
		if _, dup := c.Index[d.ID]; dup {
			return fmt.Errorf("duplicate id %s", d.ID)
		}
		if d.Breakable && d.Hardness <= 0 {
			return fmt.Errorf("breakable block %s needs positive hardness", d.ID)
		}
		c.defs[i] = d
		c.Index[d.ID] = d.Code
	}
	if len(c.defs) == 0 || c.defs[0].ID != "AIR" {
		return fmt.Errorf("missing AIR at code 0")
	}
	return nil
}

func loadTools(path string, out *ToolCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var defs []ToolDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("tools.json: %w", err)
	}
	if err := out.set(defs); err != nil {
		return fmt.Errorf("tools.json: %w", err)
	}
	out.Digest = sha256Hex(raw)
	return nil
}

func (c *ToolCatalog) set(defs []ToolDef) error {
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
	c.defs = make([]ToolDef, len(defs))
	for i, d := range defs {
		if d.Code != i {
			return fmt.Errorf("tool codes must be dense from 0: got %d at position %d", d.Code, i)
		}
		if d.Efficiency <= 0 {
			return fmt.Errorf("tool %d needs positive efficiency", d.Code)
		}
		c.defs[i] = d
	}
	if len(c.defs) == 0 {
		return fmt.Errorf("no tools")
	}
	return nil
}

func loadRecipes(path string, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var defs []RecipeDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	if err := out.set(defs); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	out.Digest = sha256Hex(raw)
	return nil
}

func (c *RecipeCatalog) set(defs []RecipeDef) error {
	c.byOutput = make(map[uint16]RecipeDef, len(defs))
	for _, d := range defs {
		if d.Kind != "TOOL" && d.Kind != "BLOCK" {
			return fmt.Errorf("recipe %d: bad kind %q", d.Output, d.Kind)
		}
		if len(d.Inputs) == 0 {
			return fmt.Errorf("recipe %d: no inputs", d.Output)
		}
		if _, dup := c.byOutput[d.Output]; dup {
			return fmt.Errorf("recipe %d: duplicate", d.Output)
		}
		c.byOutput[d.Output] = d
	}
	return nil
}

// validate checks cross references between the three catalogs.
func (c *Catalogs) validate() error {
	for _, t := range c.Tools.defs {
		for _, b := range t.Breaks {
			if int(b) >= c.Blocks.Len() {
				return fmt.Errorf("tool %d breaks unknown block %d", t.Code, b)
			}
		}
	}
	for _, b := range c.Blocks.defs {
		if int(b.Drop) >= c.Blocks.Len() {
			return fmt.Errorf("block %s drops unknown block %d", b.ID, b.Drop)
		}
	}
	for _, r := range c.Recipes.byOutput {
		switch r.Kind {
		case "TOOL":
			if int(r.Output) >= c.Tools.Len() {
				return fmt.Errorf("recipe output tool %d unknown", r.Output)
			}
		case "BLOCK":
			if int(r.Output) >= c.Blocks.Len() {
				return fmt.Errorf("recipe output block %d unknown", r.Output)
			}
		}
		for _, in := range r.Inputs {
			if int(in.Item) >= c.Blocks.Len() || in.Count <= 0 {
				return fmt.Errorf("recipe %d: bad input %+v", r.Output, in)
			}
		}
	}
	return nil
}
