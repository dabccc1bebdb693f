package auth

// SignaturePayload is the JSON envelope clients sign. The nonce is single
// use within its validity window; the optional data field binds the payload
// to a hash of the surrounding request body.
type SignaturePayload struct {
	// Millisecond unix timestamp at signing time
	Timestamp int64 `json:"timestamp"`
	// One of sync, action, token, join
	Action string `json:"action"`
	// The identity the signer claims control over
	Identity string `json:"identity"`
	// 32-byte lowercase hex nonce
	Nonce string `json:"nonce"`
	// Optional sha256 hex of the canonical request body
	Data string `json:"data,omitempty"`
}

// Actions a signed payload may authorize.
const (
	ActionSync   = "sync"
	ActionAction = "action"
	ActionToken  = "token"
	ActionJoin   = "join"
)

var validPayloadActions = map[string]struct{}{
	ActionSync:   {},
	ActionAction: {},
	ActionToken:  {},
	ActionJoin:   {},
}
