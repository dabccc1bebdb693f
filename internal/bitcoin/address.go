package bitcoin

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/pkg/errors"
)

// Network selects the chain parameters used for address encoding.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// Params returns the btcsuite chain parameters for the network.
func (n Network) Params() *chaincfg.Params {
	if n == NetworkTestnet {
		return &chaincfg.TestNet3Params
	}

	return &chaincfg.MainNetParams
}

var (
	ErrInvalidPublicKey = errors.New("invalid public key")
)

const compressedPubKeyLen = 33

// DeriveP2PKH derives the base58 pay-to-pubkey-hash address of a compressed
// public key.
func DeriveP2PKH(pubKeyHex string, network Network) (string, error) {
	pubKey, err := hex.DecodeString(pubKeyHex)
	if err != nil {
		return "", errors.Wrap(ErrInvalidPublicKey, err.Error())
	}

	if len(pubKey) != compressedPubKeyLen {
		return "", errors.Wrapf(ErrInvalidPublicKey, "got %d bytes, want %d", len(pubKey), compressedPubKeyLen)
	}

	addr, err := btcutil.NewAddressPubKeyHash(btcutil.Hash160(pubKey), network.Params())
	if err != nil {
		return "", errors.Wrap(ErrInvalidPublicKey, err.Error())
	}

	return addr.EncodeAddress(), nil
}

// DeriveP2WSH derives the bech32 pay-to-witness-script-hash address of a
// witness script (OP_0 <sha256(script)>).
func DeriveP2WSH(witnessScriptHex string, network Network) (string, error) {
	script, err := hex.DecodeString(witnessScriptHex)
	if err != nil {
		return "", errors.Wrap(ErrInvalidWitnessScript, err.Error())
	}

	scriptHash := sha256.Sum256(script)

	addr, err := btcutil.NewAddressWitnessScriptHash(scriptHash[:], network.Params())
	if err != nil {
		return "", errors.Wrap(ErrInvalidWitnessScript, err.Error())
	}

	return addr.EncodeAddress(), nil
}

// IsMultisigIdentity reports whether the address is a relay multisig
// (wallet+key) identity, i.e. a native segwit script address.
func IsMultisigIdentity(address string) bool {
	return strings.HasPrefix(address, "bc1q") || strings.HasPrefix(address, "tb1q")
}

// DetectNetwork infers the network from the address prefix, defaulting to
// mainnet for unknown prefixes.
func DetectNetwork(address string) Network {
	switch {
	case strings.HasPrefix(address, "bc1"):
		return NetworkMainnet
	case strings.HasPrefix(address, "tb1"):
		return NetworkTestnet
	case strings.HasPrefix(address, "1"), strings.HasPrefix(address, "3"):
		return NetworkMainnet
	case strings.HasPrefix(address, "m"), strings.HasPrefix(address, "n"), strings.HasPrefix(address, "2"):
		return NetworkTestnet
	}

	return NetworkMainnet
}
