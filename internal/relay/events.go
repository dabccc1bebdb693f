package relay

// Event is the wire frame exchanged on both socket channels. Server-emitted
// domain events are named after the action string of the record they carry.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// Client-initiated events.
const (
	EventJoin  = "join"
	EventLeave = "leave"
	EventError = "error"
)

// keyConsumableActions are re-delivered to the key side on join and routed
// to the key channel when stored.
var keyConsumableActions = map[string]struct{}{
	"tx":                  {},
	"publicnoncesrequest": {},
	"evmsigningrequest":   {},
	"wksigningrequest":    {},
}

// walletConsumableActions are routed to the wallet channel when stored.
var walletConsumableActions = map[string]struct{}{
	"txid":         {},
	"txrejected":   {},
	"publicnonces": {},
	"evmsigned":    {},
	"wksigned":     {},
}

// IsKeyConsumable reports whether the key side consumes the action type.
func IsKeyConsumable(action string) bool {
	_, ok := keyConsumableActions[action]
	return ok
}

// IsWalletConsumable reports whether the wallet side consumes the action type.
func IsWalletConsumable(action string) bool {
	_, ok := walletConsumableActions[action]
	return ok
}
