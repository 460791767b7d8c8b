package catalogs

import (
	"encoding/json"
	"fmt"
)

// Block codes of the built-in registry.
const (
	Air uint16 = iota
	Grass
	Dirt
	Stone
	Water
	Wood
	Leaves
	CoalOre
	Workbench
	Meat
	Sand
	DeepStone
	IronOre
	GoldOre
)

// Tool codes of the built-in registry.
const (
	Hand = iota
	WoodenPickaxe
	StonePickaxe
	IronPickaxe
)

func defaultBlocks() []BlockDef {
	return []BlockDef{
		{Code: Air, ID: "AIR", Name: "Air"},
		{Code: Grass, ID: "GRASS", Name: "Grass", Breakable: true, Hardness: 2, Drop: Dirt},
		{Code: Dirt, ID: "DIRT", Name: "Dirt", Breakable: true, Hardness: 2, Drop: Dirt},
		{Code: Stone, ID: "STONE", Name: "Stone", Breakable: true, Hardness: 5, Drop: Stone, MinTool: 1},
		{Code: Water, ID: "WATER", Name: "Water"},
		{Code: Wood, ID: "WOOD", Name: "Wood", Breakable: true, Hardness: 3, Drop: Wood},
		{Code: Leaves, ID: "LEAVES", Name: "Leaves", Breakable: true, Hardness: 1, Drop: Air},
		{Code: CoalOre, ID: "COAL_ORE", Name: "Coal", Breakable: true, Hardness: 4, Drop: CoalOre, MinTool: 1},
		{Code: Workbench, ID: "WORKBENCH", Name: "Workbench", Breakable: true, Hardness: 3, Drop: Workbench},
		{Code: Meat, ID: "MEAT", Name: "Meat", Drop: Meat},
		{Code: Sand, ID: "SAND", Name: "Sand", Breakable: true, Hardness: 2, Drop: Sand},
		{Code: DeepStone, ID: "DEEP_STONE", Name: "Deep stone", Breakable: true, Hardness: 6, Drop: Stone, MinTool: 1},
		{Code: IronOre, ID: "IRON_ORE", Name: "Iron ore", Breakable: true, Hardness: 6, Drop: IronOre, MinTool: 2},
		{Code: GoldOre, ID: "GOLD_ORE", Name: "Gold ore", Breakable: true, Hardness: 7, Drop: GoldOre, MinTool: 2},
	}
}

func defaultTools() []ToolDef {
	return []ToolDef{
		{Code: Hand, Name: "Hand", Durability: 0, Efficiency: 1, Breaks: []uint16{Grass, Dirt, Wood, Leaves, Sand}},
		{Code: WoodenPickaxe, Name: "Wooden pickaxe", Durability: 60, Efficiency: 2,
			Breaks: []uint16{Grass, Dirt, Stone, Wood, Leaves, CoalOre, Sand}},
		{Code: StonePickaxe, Name: "Stone pickaxe", Durability: 132, Efficiency: 4,
			Breaks: []uint16{Grass, Dirt, Stone, Wood, Leaves, CoalOre, Workbench, Sand, DeepStone}},
		{Code: IronPickaxe, Name: "Iron pickaxe", Durability: 250, Efficiency: 6,
			Breaks: []uint16{Grass, Dirt, Stone, Wood, Leaves, CoalOre, Workbench, Sand, DeepStone, IronOre}},
	}
}

func defaultRecipes() []RecipeDef {
	return []RecipeDef{
		{Output: Workbench, Name: "Workbench", Kind: "BLOCK", Inputs: []ItemCount{{Item: Wood, Count: 3}}},
		{Output: WoodenPickaxe, Name: "Wooden pickaxe", Kind: "TOOL", Inputs: []ItemCount{{Item: Wood, Count: 3}, {Item: Dirt, Count: 2}}},
		{Output: StonePickaxe, Name: "Stone pickaxe", Kind: "TOOL", Inputs: []ItemCount{{Item: Stone, Count: 3}, {Item: Dirt, Count: 2}}},
		{Output: IronPickaxe, Name: "Iron pickaxe", Kind: "TOOL", Inputs: []ItemCount{{Item: IronOre, Count: 3}, {Item: Dirt, Count: 2}}},
	}
}

// Default returns the built-in registries, identical to configs/*.json.
func Default() *Catalogs {
	var c Catalogs
	must := func(err error) {
		if err != nil {
			panic(fmt.Sprintf("built-in catalogs: %v", err))
		}
	}
	must(c.Blocks.set(defaultBlocks()))
	must(c.Tools.set(defaultTools()))
	must(c.Recipes.set(defaultRecipes()))
	must(c.validate())

	digest := func(v any) string {
		b, _ := json.Marshal(v)
		return sha256Hex(b)
	}
	c.Blocks.Digest = digest(defaultBlocks())
	c.Tools.Digest = digest(defaultTools())
	c.Recipes.Digest = digest(defaultRecipes())
	return &c
}
