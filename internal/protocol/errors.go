package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Rule/action layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrBounds        = "E_BOUNDS"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrNoTool        = "E_NO_TOOL"
	ErrNoResource    = "E_NO_RESOURCE"
	ErrNotLoaded     = "E_NOT_LOADED"
	ErrPersistence   = "E_PERSISTENCE"
	ErrWorldBusy     = "E_WORLD_BUSY"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrBadRequest:      {},
	ErrBounds:          {},
	ErrInvalidTarget:   {},
	ErrNoTool:          {},
	ErrNoResource:      {},
	ErrNotLoaded:       {},
	ErrPersistence:     {},
	ErrWorldBusy:       {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
