package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	// client -> server
	TypeHello    = "HELLO"
	TypeObserve  = "OBSERVE"
	TypeDig      = "DIG"
	TypePlace    = "PLACE"
	TypeCraft    = "CRAFT"
	TypeEquip    = "EQUIP"
	TypeEat      = "EAT"
	TypeAttack   = "ATTACK"
	TypeSave     = "SAVE"
	TypeLoad     = "LOAD"
	TypeList     = "LIST"
	TypeChunkReq = "CHUNK_REQ"

	// server -> client
	TypeWelcome   = "WELCOME"
	TypeChunks    = "CHUNKS"
	TypeChunkData = "CHUNK_DATA"
	TypeResult    = "RESULT"
	TypeSaves     = "SAVES"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
	ReqID           string `json:"req_id,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
