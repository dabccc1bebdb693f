package test

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/bitcoin"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/stretchr/testify/require"
)

// Known key material used across the test suites. The WIF's compressed
// public key derives the P2PKH address below; SecondPubKeyHex is an
// unrelated valid key for building 2-of-2 witness scripts.
const (
	KeyWIF          = "L1TnU2zbNaAqMoVh65Cyvmcjzbrj41Gs9iTLcWbpJCMynXuap6UN"
	KeyPubKeyHex    = "0278d4aa2a1c643fc68a0de5454e47c520cf59643526474e63b320144de9e0d59a"
	KeyP2PKHAddress = "15hETetDmcXm1mM4sEf7U2KXC9hDHFMSzz"
	SecondPubKeyHex = "0354dae65cc6eede1d82b4a68a97c28b1f2cd44f7d99b86a2bdcfe89e9fd5c7f9e"
)

// PrivKey decodes the fixture WIF.
func PrivKey(t *testing.T) *btcec.PrivateKey {
	t.Helper()

	wif, err := btcutil.DecodeWIF(KeyWIF)
	require.NoError(t, err)

	return wif.PrivKey
}

// SecondPrivKey returns a deterministic second key for multisig scenarios
// where both halves need to sign.
func SecondPrivKey(t *testing.T) *btcec.PrivateKey {
	t.Helper()

	seed := sha256.Sum256([]byte("ssp-relay-second-fixture-key"))
	priv, _ := btcec.PrivKeyFromBytes(seed[:])

	return priv
}

// PubKeyHex returns the lowercase compressed public key of a private key.
func PubKeyHex(priv *btcec.PrivateKey) string {
	return hex.EncodeToString(priv.PubKey().SerializeCompressed())
}

// NewNonce returns a fresh 32-byte lowercase hex nonce.
func NewNonce(t *testing.T) string {
	t.Helper()

	b := make([]byte, 32)
	_, err := rand.Read(b)
	require.NoError(t, err)

	return hex.EncodeToString(b)
}

// TwoOfTwoScript encodes a 2-of-2 witness script over the given keys.
func TwoOfTwoScript(t *testing.T, pubKeysHex ...string) string {
	t.Helper()

	script, err := bitcoin.EncodeMultisigScript(2, pubKeysHex)
	require.NoError(t, err)

	return script
}

// SignedEnvelope builds and signs the payload envelope clients embed in
// their requests. dataHash may be empty for payloads without body binding.
func SignedEnvelope(t *testing.T, priv *btcec.PrivateKey, action, identity, nonce, dataHash string) (message string, signature string) {
	t.Helper()

	envelope := map[string]interface{}{
		"timestamp": time.Now().UnixMilli(),
		"action":    action,
		"identity":  identity,
		"nonce":     nonce,
	}
	if dataHash != "" {
		envelope["data"] = dataHash
	}

	raw, err := json.Marshal(envelope)
	require.NoError(t, err)

	signature, err = bitcoin.SignMessage(string(raw), priv, bitcoin.DefaultMessagePrefix)
	require.NoError(t, err)

	return string(raw), signature
}
