package ws

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"voxelsandbox/internal/persistence/saves"
	"voxelsandbox/internal/protocol"
	"voxelsandbox/internal/sim/encoding"
	"voxelsandbox/internal/sim/world"
	"voxelsandbox/internal/sim/world/feature/work/mining"
	"voxelsandbox/internal/sim/world/terrain/gen"
	"voxelsandbox/internal/sim/world/terrain/store"
)

func decodeCommand(typ string, msg []byte) (world.Command, error) {
	switch typ {
	case protocol.TypeObserve:
		var m protocol.ObserveMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return world.Command{}, err
		}
		return world.Command{Kind: world.CmdObserve, Pos: mgl64.Vec3(m.Pos)}, nil
	case protocol.TypeDig:
		var m protocol.DigMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return world.Command{}, err
		}
		if m.DT <= 0 {
			return world.Command{}, fmt.Errorf("dt must be positive")
		}
		return world.Command{Kind: world.CmdDig, Pos: cellPos(m.Pos), DT: m.DT}, nil
	case protocol.TypePlace:
		var m protocol.PlaceMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return world.Command{}, err
		}
		return world.Command{Kind: world.CmdPlace, Pos: cellPos(m.Pos), Block: m.Block}, nil
	case protocol.TypeCraft:
		var m protocol.CraftMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return world.Command{}, err
		}
		return world.Command{Kind: world.CmdCraft, Block: m.Output}, nil
	case protocol.TypeEquip:
		var m protocol.EquipMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return world.Command{}, err
		}
		return world.Command{Kind: world.CmdEquip, Tool: m.Tool}, nil
	case protocol.TypeEat:
		var m protocol.EatMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return world.Command{}, err
		}
		if m.Count < 0 {
			return world.Command{}, fmt.Errorf("count must not be negative")
		}
		return world.Command{Kind: world.CmdEat, Block: m.Item, Count: m.Count}, nil
	case protocol.TypeAttack:
		var m protocol.AttackMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return world.Command{}, err
		}
		return world.Command{Kind: world.CmdAttack}, nil
	case protocol.TypeSave, protocol.TypeLoad, protocol.TypeList:
		var m protocol.SaveMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return world.Command{}, err
		}
		kind := map[string]world.CommandKind{
			protocol.TypeSave: world.CmdSave,
			protocol.TypeLoad: world.CmdLoad,
			protocol.TypeList: world.CmdList,
		}[typ]
		if kind != world.CmdList && m.Name == "" {
			return world.Command{}, fmt.Errorf("missing name")
		}
		return world.Command{Kind: kind, Name: m.Name}, nil
	case protocol.TypeChunkReq:
		var m protocol.ChunkReqMsg
		if err := json.Unmarshal(msg, &m); err != nil {
			return world.Command{}, err
		}
		return world.Command{Kind: world.CmdChunk, Chunk: store.ChunkKey{CX: m.Key[0], CZ: m.Key[1]}}, nil
	default:
		return world.Command{}, fmt.Errorf("unknown message type %q", typ)
	}
}

// cellPos addresses the centre of a block so the world floors it back to the same cell.
func cellPos(p [3]int) mgl64.Vec3 {
	return mgl64.Vec3{float64(p[0]) + 0.5, float64(p[1]) + 0.5, float64(p[2]) + 0.5}
}

func buildWelcome(w *world.World, res world.Result) protocol.WelcomeMsg {
	cfg := w.Config()
	cats := w.Catalogs()
	msg := protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		WorldID:         cfg.ID,
		PlayerName:      cfg.PlayerName,
		WorldParams: protocol.WorldParams{
			TickRateHz:     cfg.TickRateHz,
			ChunkSize:      cfg.Gen.ChunkSize,
			Height:         cfg.Gen.Height,
			RenderDistance: cfg.RenderDistance,
			EvictMargin:    cfg.EvictMargin,
			Seed:           res.Seed,
		},
		Catalogs: protocol.CatalogDigests{
			Blocks:  protocol.DigestRef{Digest: cats.Blocks.Digest, Count: cats.Blocks.Len()},
			Tools:   protocol.DigestRef{Digest: cats.Tools.Digest, Count: cats.Tools.Len()},
			Recipes: protocol.DigestRef{Digest: cats.Recipes.Digest, Count: len(cats.Recipes.Outputs())},
		},
	}
	if res.Player != nil {
		msg.Spawn = [3]float64(res.Player.Pos)
	}
	return msg
}

func buildReply(base protocol.BaseMessage, cmd world.Command, res world.Result) any {
	switch {
	case cmd.Kind == world.CmdObserve && res.Stream != nil:
		return protocol.ChunksMsg{
			Type:            protocol.TypeChunks,
			ProtocolVersion: protocol.Version,
			ReqID:           base.ReqID,
			Tick:            res.Tick,
			Center:          keyPair(res.Stream.Center),
			Loaded:          keyPairs(res.Stream.Loaded),
			Evicted:         keyPairs(res.Stream.Evicted),
			Resident:        res.Stream.Resident,
		}
	case cmd.Kind == world.CmdChunk && res.Chunk != nil:
		d := res.Chunk.Digest()
		dims := res.Chunk.Dims()
		return protocol.ChunkDataMsg{
			Type:            protocol.TypeChunkData,
			ProtocolVersion: protocol.Version,
			ReqID:           base.ReqID,
			Tick:            res.Tick,
			Key:             keyPair(res.Chunk.Key()),
			Size:            dims.Size,
			Height:          dims.Height,
			Digest:          hex.EncodeToString(d[:]),
			BlocksRLE:       encoding.EncodeBlocks(res.Chunk.Blocks),
		}
	case cmd.Kind == world.CmdList && res.OK:
		names := res.Saves
		if names == nil {
			names = []string{}
		}
		return protocol.SavesMsg{
			Type:            protocol.TypeSaves,
			ProtocolVersion: protocol.Version,
			ReqID:           base.ReqID,
			Names:           names,
		}
	}

	out := protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ReqID:           base.ReqID,
		Tick:            res.Tick,
		For:             base.Type,
		OK:              res.OK,
		Message:         res.Message,
		IsDay:           res.IsDay,
		Player:          playerInfo(res.Player),
	}
	if !res.OK {
		out.Code = ErrorCode(res.Err)
	}
	if res.Dig != nil && res.Err == nil {
		out.Dig = &protocol.DigInfo{
			Block:     res.Dig.Block,
			Progress:  res.Dig.Progress,
			Broken:    res.Dig.Broken,
			Drop:      res.Dig.Drop,
			ToolBroke: res.Dig.ToolBroke,
		}
	}
	if res.Attack != nil && res.Err == nil {
		out.Attack = &protocol.AttackInfo{
			MonsterID: res.Attack.MonsterID,
			Damage:    res.Attack.Damage,
			MonsterHP: res.Attack.MonsterHP,
			Killed:    res.Attack.Killed,
			Drop:      res.Attack.Drop,
		}
	}
	return out
}

// ErrorCode maps a world error onto a protocol code. A failed result without
// an error is a save or load failure.
func ErrorCode(err error) string {
	var be *store.BoundsError
	var ge *gen.GenerationError
	var we *saves.WriteError
	var le *saves.LoadError
	switch {
	case err == nil:
		return protocol.ErrPersistence
	case errors.As(err, &be):
		return protocol.ErrBounds
	case errors.As(err, &ge):
		return protocol.ErrInternal
	case errors.As(err, &we), errors.As(err, &le), errors.Is(err, world.ErrNoSaveStore):
		return protocol.ErrPersistence
	case errors.Is(err, mining.ErrToolTooWeak), errors.Is(err, mining.ErrNoSuchTool), errors.Is(err, mining.ErrToolNotOwned):
		return protocol.ErrNoTool
	case errors.Is(err, world.ErrMissingItems), errors.Is(err, world.ErrNotInInv):
		return protocol.ErrNoResource
	case errors.Is(err, world.ErrNotAir), errors.Is(err, mining.ErrUnbreakable),
		errors.Is(err, world.ErrNotFood), errors.Is(err, world.ErrNoTarget):
		return protocol.ErrInvalidTarget
	case errors.Is(err, world.ErrChunkNotLoaded):
		return protocol.ErrNotLoaded
	case errors.Is(err, world.ErrUnknownBlock), errors.Is(err, world.ErrUnknownRecipe):
		return protocol.ErrBadRequest
	default:
		return protocol.ErrInternal
	}
}

func badRequest(base protocol.BaseMessage, msg string) protocol.ResultMsg {
	return protocol.ResultMsg{
		Type:            protocol.TypeResult,
		ProtocolVersion: protocol.Version,
		ReqID:           base.ReqID,
		For:             base.Type,
		Code:            protocol.ErrProtoBadRequest,
		Message:         msg,
	}
}

func keyPair(k store.ChunkKey) [2]int { return [2]int{k.CX, k.CZ} }

func keyPairs(keys []store.ChunkKey) [][2]int {
	out := make([][2]int, 0, len(keys))
	for _, k := range keys {
		out = append(out, keyPair(k))
	}
	return out
}

func playerInfo(p *world.PlayerView) *protocol.PlayerInfo {
	if p == nil {
		return nil
	}
	info := &protocol.PlayerInfo{
		Pos:         [3]float64(p.Pos),
		HP:          p.HP,
		Hunger:      p.Hunger,
		CurrentTool: p.CurrentTool,
		Tools:       p.Tools,
		Inventory:   make([]protocol.ItemStack, 0, len(p.Inventory)),
	}
	for item, n := range p.Inventory {
		if n > 0 {
			info.Inventory = append(info.Inventory, protocol.ItemStack{Item: item, Count: n})
		}
	}
	sort.Slice(info.Inventory, func(i, j int) bool { return info.Inventory[i].Item < info.Inventory[j].Item })
	return info
}
