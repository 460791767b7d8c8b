package world

import (
	"github.com/go-gl/mathgl/mgl64"

	"voxelsandbox/internal/persistence/snapshot"
	"voxelsandbox/internal/sim/catalogs"
	"voxelsandbox/internal/sim/world/feature/survival"
)

type Player struct {
	Name        string
	HP          int
	Hunger      int
	Level       int
	CurrentTool int
	Tools       map[int]int
	// ToolUsed counts uses of the current copy of each tool since it was last consumed.
	ToolUsed  map[int]int
	Inventory map[uint16]int
	Pos       mgl64.Vec3
}

func newPlayer(name string, pos mgl64.Vec3, starter map[uint16]int) *Player {
	p := &Player{
		Name:        name,
		HP:          survival.MaxHP,
		Hunger:      survival.MaxHunger,
		Level:       1,
		CurrentTool: catalogs.Hand,
		Tools:       map[int]int{},
		ToolUsed:    map[int]int{},
		Inventory:   map[uint16]int{},
		Pos:         pos,
	}
	for id, n := range starter {
		if n > 0 {
			p.Inventory[id] = n
		}
	}
	return p
}

func (p *Player) view() PlayerView {
	v := PlayerView{
		Name:        p.Name,
		HP:          p.HP,
		Hunger:      p.Hunger,
		Level:       p.Level,
		CurrentTool: p.CurrentTool,
		Tools:       make(map[int]int, len(p.Tools)),
		Inventory:   make(map[uint16]int, len(p.Inventory)),
		Pos:         p.Pos,
	}
	for k, n := range p.Tools {
		v.Tools[k] = n
	}
	for k, n := range p.Inventory {
		v.Inventory[k] = n
	}
	return v
}

func (p *Player) toV1() snapshot.PlayerV1 {
	out := snapshot.PlayerV1{
		Name:        p.Name,
		HP:          p.HP,
		Hunger:      p.Hunger,
		Level:       p.Level,
		CurrentTool: p.CurrentTool,
		Tools:       map[int]int{},
		Inventory:   map[int]int{},
		Position:    snapshot.PositionV1{X: p.Pos[0], Y: p.Pos[1], Z: p.Pos[2]},
	}
	for k, n := range p.Tools {
		out.Tools[k] = n
	}
	for k, n := range p.Inventory {
		out.Inventory[int(k)] = n
	}
	if len(p.ToolUsed) > 0 {
		out.ToolDurability = map[int]int{}
		for k, n := range p.ToolUsed {
			out.ToolDurability[k] = n
		}
	}
	return out
}

// playerFromV1 restores a saved player. Unknown block ids and non-positive
// counts are dropped; an unowned current tool falls back to the hand.
func playerFromV1(v snapshot.PlayerV1, cats *catalogs.Catalogs) *Player {
	p := newPlayer(v.Name, mgl64.Vec3{v.Position.X, v.Position.Y, v.Position.Z}, nil)
	p.HP = v.HP
	p.Hunger = v.Hunger
	p.Level = v.Level
	for k, n := range v.Tools {
		if _, ok := cats.Tools.Def(k); ok && n > 0 {
			p.Tools[k] = n
		}
	}
	for k, n := range v.ToolDurability {
		if p.Tools[k] > 0 && n > 0 {
			p.ToolUsed[k] = n
		}
	}
	for k, n := range v.Inventory {
		if k < 0 || k > 0xFFFF {
			continue
		}
		if _, ok := cats.Blocks.Def(uint16(k)); ok && n > 0 {
			p.Inventory[uint16(k)] = n
		}
	}
	p.CurrentTool = v.CurrentTool
	if p.CurrentTool != catalogs.Hand && p.Tools[p.CurrentTool] <= 0 {
		p.CurrentTool = catalogs.Hand
	}
	return p
}
