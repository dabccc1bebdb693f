package bitcoin

import (
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/txscript"
	"github.com/pkg/errors"
)

var (
	ErrInvalidWitnessScript = errors.New("invalid witness script")
)

// WitnessScript is a decompiled m-of-n multisig witness script.
type WitnessScript struct {
	M          int
	N          int
	PublicKeys []string
}

// ContainsKey reports whether pubKeyHex is one of the script keys,
// case-insensitively.
func (w *WitnessScript) ContainsKey(pubKeyHex string) bool {
	needle := strings.ToLower(pubKeyHex)
	for _, k := range w.PublicKeys {
		if k == needle {
			return true
		}
	}

	return false
}

// ParseWitnessScript decompiles a hex multisig witness script of the form
// OP_m <pk_1>...<pk_n> OP_n OP_CHECKMULTISIG. Every interior element must be
// a 33-byte public key push.
func ParseWitnessScript(scriptHex string) (*WitnessScript, error) {
	script, err := hex.DecodeString(scriptHex)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidWitnessScript, err.Error())
	}

	type scriptToken struct {
		opcode byte
		data   []byte
	}

	var tokens []scriptToken
	tokenizer := txscript.MakeScriptTokenizer(0, script)
	for tokenizer.Next() {
		tokens = append(tokens, scriptToken{opcode: tokenizer.Opcode(), data: tokenizer.Data()})
	}
	if err := tokenizer.Err(); err != nil {
		return nil, errors.Wrap(ErrInvalidWitnessScript, err.Error())
	}

	if len(tokens) < 4 {
		return nil, errors.Wrap(ErrInvalidWitnessScript, "too few script elements")
	}

	last := tokens[len(tokens)-1]
	if last.opcode != txscript.OP_CHECKMULTISIG {
		return nil, errors.Wrap(ErrInvalidWitnessScript, "missing OP_CHECKMULTISIG")
	}

	m := smallIntOpcodeValue(tokens[0].opcode)
	n := smallIntOpcodeValue(tokens[len(tokens)-2].opcode)
	if m < 1 || n < 1 {
		return nil, errors.Wrap(ErrInvalidWitnessScript, "m/n opcodes out of OP_1..OP_16 range")
	}

	interior := tokens[1 : len(tokens)-2]
	publicKeys := make([]string, 0, len(interior))
	for _, tok := range interior {
		if tok.opcode != txscript.OP_DATA_33 || len(tok.data) != compressedPubKeyLen {
			return nil, errors.Wrap(ErrInvalidWitnessScript, "interior element is not a 33-byte key push")
		}
		publicKeys = append(publicKeys, strings.ToLower(hex.EncodeToString(tok.data)))
	}

	if len(publicKeys) != n {
		return nil, errors.Wrapf(ErrInvalidWitnessScript, "script declares %d keys, found %d", n, len(publicKeys))
	}

	if m > n {
		return nil, errors.Wrapf(ErrInvalidWitnessScript, "m (%d) exceeds n (%d)", m, n)
	}

	return &WitnessScript{M: m, N: n, PublicKeys: publicKeys}, nil
}

// EncodeMultisigScript builds the hex m-of-n witness script for the given
// compressed public keys, in the given key order.
func EncodeMultisigScript(m int, pubKeysHex []string) (string, error) {
	n := len(pubKeysHex)
	if m < 1 || m > 16 || n < 1 || n > 16 || m > n {
		return "", errors.Wrapf(ErrInvalidWitnessScript, "unsupported multisig shape %d-of-%d", m, n)
	}

	builder := txscript.NewScriptBuilder()
	builder.AddOp(smallIntOpcode(m))
	for _, keyHex := range pubKeysHex {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return "", errors.Wrap(ErrInvalidWitnessScript, err.Error())
		}
		if len(key) != compressedPubKeyLen {
			return "", errors.Wrapf(ErrInvalidWitnessScript, "key %s is not a 33-byte compressed key", keyHex)
		}
		builder.AddData(key)
	}
	builder.AddOp(smallIntOpcode(n))
	builder.AddOp(txscript.OP_CHECKMULTISIG)

	script, err := builder.Script()
	if err != nil {
		return "", errors.Wrap(ErrInvalidWitnessScript, err.Error())
	}

	return hex.EncodeToString(script), nil
}

// smallIntOpcodeValue maps OP_1..OP_16 to 1..16, returning -1 for any other
// opcode.
func smallIntOpcodeValue(opcode byte) int {
	if opcode < txscript.OP_1 || opcode > txscript.OP_16 {
		return -1
	}

	return int(opcode-txscript.OP_1) + 1
}

func smallIntOpcode(v int) byte {
	return txscript.OP_1 + byte(v-1)
}
