package bitcoin

import (
	"bytes"
	"encoding/base64"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
)

// DefaultMessagePrefix is the standard signed-message magic, without the
// leading varint length byte (the wire encoder writes it).
const DefaultMessagePrefix = "Bitcoin Signed Message:\n"

// messageDigest computes the double-sha256 of the prefixed message per the
// Bitcoin signed-message scheme: dsha256(varstr(prefix) || varstr(message)).
func messageDigest(message, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	if err := wire.WriteVarString(&buf, 0, prefix); err != nil {
		return nil, err
	}
	if err := wire.WriteVarString(&buf, 0, message); err != nil {
		return nil, err
	}

	return chainhash.DoubleHashB(buf.Bytes()), nil
}

// VerifySignedMessage checks a base64 compact signature over message against
// the P2PKH address of the recovered signer. Any decoding or recovery error
// is a verification failure, never propagated.
func VerifySignedMessage(message, signatureB64, address string, network Network, prefix string) bool {
	if prefix == "" {
		prefix = DefaultMessagePrefix
	}

	signature, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		return false
	}

	digest, err := messageDigest(message, prefix)
	if err != nil {
		return false
	}

	pubKey, wasCompressed, err := ecdsa.RecoverCompact(signature, digest)
	if err != nil {
		return false
	}

	var serialized []byte
	if wasCompressed {
		serialized = pubKey.SerializeCompressed()
	} else {
		serialized = pubKey.SerializeUncompressed()
	}

	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(serialized), network.Params())
	if err != nil {
		return false
	}

	return addr.EncodeAddress() == address
}

// SignMessage produces the base64 compact signature over message with the
// given key, recoverable to the compressed public key. Used by the test
// client and the test suites; the relay itself never signs.
func SignMessage(message string, privKey *btcec.PrivateKey, prefix string) (string, error) {
	if prefix == "" {
		prefix = DefaultMessagePrefix
	}

	digest, err := messageDigest(message, prefix)
	if err != nil {
		return "", err
	}

	signature := ecdsa.SignCompact(privKey, digest, true)

	return base64.StdEncoding.EncodeToString(signature), nil
}
