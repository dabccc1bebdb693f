package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/bitcoin"
	"github.com/btcsuite/btcd/btcutil"
)

// signJoin fills the auth fields of a join payload with a freshly signed
// envelope for the given identity.
func signJoin(join *joinPayload, wif, wkIdentity, witnessScript string) error {
	decoded, err := btcutil.DecodeWIF(wif)
	if err != nil {
		return err
	}

	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return err
	}

	envelope, err := json.Marshal(map[string]interface{}{
		"timestamp": time.Now().UnixMilli(),
		"action":    "join",
		"identity":  wkIdentity,
		"nonce":     hex.EncodeToString(nonce),
	})
	if err != nil {
		return err
	}

	signature, err := bitcoin.SignMessage(string(envelope), decoded.PrivKey, bitcoin.DefaultMessagePrefix)
	if err != nil {
		return err
	}

	join.Message = string(envelope)
	join.Signature = signature
	join.PublicKey = hex.EncodeToString(decoded.PrivKey.PubKey().SerializeCompressed())
	join.WitnessScript = witnessScript

	return nil
}
