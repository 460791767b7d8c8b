package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerName      string `json:"player_name"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	WorldID         string         `json:"world_id"`
	PlayerName      string         `json:"player_name"`
	Spawn           [3]float64     `json:"spawn"`
	WorldParams     WorldParams    `json:"world_params"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type WorldParams struct {
	TickRateHz     int   `json:"tick_rate_hz"`
	ChunkSize      int   `json:"chunk_size"`
	Height         int   `json:"height"`
	RenderDistance int   `json:"render_distance"`
	EvictMargin    int   `json:"evict_margin"`
	Seed           int64 `json:"seed"`
}

type CatalogDigests struct {
	Blocks  DigestRef `json:"blocks"`
	Tools   DigestRef `json:"tools"`
	Recipes DigestRef `json:"recipes"`
}

type DigestRef struct {
	Digest string `json:"digest"`
	Count  int    `json:"count"`
}

// OBSERVE (client -> server): move the observer and stream chunks around it.
type ObserveMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	ReqID           string     `json:"req_id,omitempty"`
	Pos             [3]float64 `json:"pos"`
}

// DIG (client -> server): dt seconds of digging at a block.
type DigMsg struct {
	Type            string  `json:"type"`
	ProtocolVersion string  `json:"protocol_version"`
	ReqID           string  `json:"req_id,omitempty"`
	Pos             [3]int  `json:"pos"`
	DT              float64 `json:"dt"`
}

type PlaceMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`
	Pos             [3]int `json:"pos"`
	Block           uint16 `json:"block"`
}

type CraftMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`
	Output          uint16 `json:"output"`
}

type EquipMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`
	Tool            int    `json:"tool"`
}

// EAT (client -> server): consume food from the inventory. Count defaults to 1.
type EatMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`
	Item            uint16 `json:"item"`
	Count           int    `json:"count,omitempty"`
}

// ATTACK (client -> server): hit the nearest monster in reach.
type AttackMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`
}

// SAVE, LOAD and LIST share one shape; LIST ignores Name.
type SaveMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`
	Name            string `json:"name,omitempty"`
}

type ChunkReqMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`
	Key             [2]int `json:"key"`
}

// CHUNKS (server -> client): resident set changes after an OBSERVE.
type ChunksMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	ReqID           string   `json:"req_id,omitempty"`
	Tick            uint64   `json:"tick"`
	Center          [2]int   `json:"center"`
	Loaded          [][2]int `json:"loaded"`
	Evicted         [][2]int `json:"evicted"`
	Resident        int      `json:"resident"`
}

// CHUNK_DATA (server -> client): one chunk grid, RLE encoded in flat index order.
type ChunkDataMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`
	Tick            uint64 `json:"tick"`
	Key             [2]int `json:"key"`
	Size            int    `json:"size"`
	Height          int    `json:"height"`
	Digest          string `json:"digest"`
	BlocksRLE       string `json:"blocks_rle"`
}

// RESULT (server -> client): outcome of one command.
type ResultMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	ReqID           string      `json:"req_id,omitempty"`
	Tick            uint64      `json:"tick"`
	For             string      `json:"for"`
	OK              bool        `json:"ok"`
	Code            string      `json:"code,omitempty"`
	Message         string      `json:"message,omitempty"`
	IsDay           bool        `json:"is_day"`
	Dig             *DigInfo    `json:"dig,omitempty"`
	Attack          *AttackInfo `json:"attack,omitempty"`
	Player          *PlayerInfo `json:"player,omitempty"`
}

type DigInfo struct {
	Block     uint16  `json:"block"`
	Progress  float64 `json:"progress"`
	Broken    bool    `json:"broken"`
	Drop      uint16  `json:"drop,omitempty"`
	ToolBroke bool    `json:"tool_broke,omitempty"`
}

type AttackInfo struct {
	MonsterID uint64 `json:"monster_id"`
	Damage    int    `json:"damage"`
	MonsterHP int    `json:"monster_hp"`
	Killed    bool   `json:"killed"`
	Drop      uint16 `json:"drop,omitempty"`
}

type PlayerInfo struct {
	Pos         [3]float64  `json:"pos"`
	HP          int         `json:"hp"`
	Hunger      int         `json:"hunger"`
	CurrentTool int         `json:"current_tool"`
	Tools       map[int]int `json:"tools"`
	Inventory   []ItemStack `json:"inventory"`
}

type ItemStack struct {
	Item  uint16 `json:"item"`
	Count int    `json:"count"`
}

type SavesMsg struct {
	Type            string   `json:"type"`
	ProtocolVersion string   `json:"protocol_version"`
	ReqID           string   `json:"req_id,omitempty"`
	Names           []string `json:"names"`
}
