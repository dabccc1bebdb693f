package types

// AuthFields carries the detached signature material every authenticated
// request embeds next to its domain fields. The fields are stripped before
// anything is persisted.
type AuthFields struct {
	// Base64 compact signature over the message
	Signature string `json:"signature,omitempty"`
	// UTF-8 JSON of the signed payload envelope
	Message string `json:"message,omitempty"`
	// 33-byte compressed public key, hex encoded
	PublicKey string `json:"publicKey,omitempty"`
	// Witness script hex, mandatory for multisig identities
	WitnessScript string `json:"witnessScript,omitempty"`
}

// AuthFieldNames lists the JSON keys removed from request bodies before
// persistence and before the tamper-binding body hash is computed.
var AuthFieldNames = []string{"signature", "message", "publicKey", "witnessScript"}

// Present reports whether the minimal set of auth fields was supplied.
func (a AuthFields) Present() bool {
	return a.Signature != "" && a.Message != "" && a.PublicKey != ""
}
