package store

import "time"

// SyncRecord is the short-lived pairing handshake artifact created by the
// key side and read once by the wallet. One live record per walletIdentity.
type SyncRecord struct {
	Chain            string    `bson:"chain" json:"chain"`
	WalletIdentity   string    `bson:"walletIdentity" json:"walletIdentity"`
	KeyXpub          string    `bson:"keyXpub" json:"keyXpub"`
	WkIdentity       string    `bson:"wkIdentity" json:"wkIdentity"`
	GeneratedAddress string    `bson:"generatedAddress,omitempty" json:"generatedAddress,omitempty"`
	PublicNonces     string    `bson:"publicNonces,omitempty" json:"publicNonces,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	ExpireAt         time.Time `bson:"expireAt" json:"expireAt"`
}

// ActionRecord is the single outstanding cross-device request for a
// wkIdentity. An upsert replaces any prior pending action.
type ActionRecord struct {
	Chain      string                   `bson:"chain" json:"chain"`
	Path       string                   `bson:"path,omitempty" json:"path,omitempty"`
	WkIdentity string                   `bson:"wkIdentity" json:"wkIdentity"`
	Action     string                   `bson:"action" json:"action"`
	Payload    string                   `bson:"payload" json:"payload"`
	Utxos      []map[string]interface{} `bson:"utxos,omitempty" json:"utxos,omitempty"`
	CreatedAt  time.Time                `bson:"createdAt" json:"createdAt"`
	ExpireAt   time.Time                `bson:"expireAt" json:"expireAt"`
}

// TokenRecord is a registered push delivery token. Multiple records per
// identity are allowed (one per install) up to the configured cap; a
// keyToken must be globally unique across identities.
type TokenRecord struct {
	WkIdentity  string    `bson:"wkIdentity" json:"wkIdentity"`
	KeyToken    string    `bson:"keyToken,omitempty" json:"keyToken,omitempty"`
	WalletToken string    `bson:"walletToken,omitempty" json:"walletToken,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
