package auth

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/bitcoin"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/dropbox/godropbox/time2"
)

var nonceRegex = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Authenticator verifies that a caller controls a relay identity by checking
// a Bitcoin-style signed message against the address derived from the
// caller's key material.
type Authenticator struct {
	guard    *ReplayGuard
	clock    time2.Clock
	prefix   string
	maxDrift time.Duration
}

func NewAuthenticator(cfg config.Auth, guard *ReplayGuard, clock time2.Clock) *Authenticator {
	prefix := cfg.MessagePrefix
	if prefix == "" {
		prefix = bitcoin.DefaultMessagePrefix
	}

	return &Authenticator{
		guard:    guard,
		clock:    clock,
		prefix:   prefix,
		maxDrift: cfg.MaxTimestampDrift,
	}
}

// Verify dispatches on the shape of the expected identity: bech32 script
// addresses take the multisig path, base58 addresses the single-sig one.
func (a *Authenticator) Verify(fields Fields, expectedIdentity string) (*VerifiedIdentity, error) {
	if bitcoin.IsMultisigIdentity(expectedIdentity) {
		return a.VerifyMultisig(fields, expectedIdentity)
	}

	return a.VerifySingleSig(fields, expectedIdentity)
}

// VerifySingleSig proves control of a single-sig (P2PKH) identity.
func (a *Authenticator) VerifySingleSig(fields Fields, expectedIdentity string) (*VerifiedIdentity, error) {
	payload, err := a.parseAndValidate(fields.Message, expectedIdentity)
	if err != nil {
		return nil, err
	}

	network := bitcoin.DetectNetwork(expectedIdentity)

	signerAddress, err := bitcoin.DeriveP2PKH(fields.PublicKey, network)
	if err != nil {
		return nil, NewErrorWithCause(ReasonAddressMismatch, err)
	}
	if signerAddress != expectedIdentity {
		return nil, NewError(ReasonAddressMismatch)
	}

	if !bitcoin.VerifySignedMessage(fields.Message, fields.Signature, signerAddress, network, a.prefix) {
		return nil, NewError(ReasonInvalidSignature)
	}

	return &VerifiedIdentity{
		Identity:        expectedIdentity,
		SignerPublicKey: strings.ToLower(fields.PublicKey),
		Payload:         payload,
	}, nil
}

// VerifyMultisig proves control of one half of a 2-of-2 multisig identity.
// The signature is produced by the signer's individual key, so it is checked
// against the P2PKH address of that key, while the witness script must hash
// to the multisig identity and contain the signer.
func (a *Authenticator) VerifyMultisig(fields Fields, expectedWkIdentity string) (*VerifiedIdentity, error) {
	if fields.WitnessScript == "" {
		return nil, NewError(ReasonWitnessScriptRequired)
	}

	payload, err := a.parseAndValidate(fields.Message, expectedWkIdentity)
	if err != nil {
		return nil, err
	}

	script, err := bitcoin.ParseWitnessScript(fields.WitnessScript)
	if err != nil {
		return nil, NewErrorWithCause(ReasonUnexpectedMultisigType, err)
	}

	// The relay only supports 2-of-2 wallet+key identities.
	if script.M != 2 || script.N != 2 {
		return nil, NewError(ReasonUnexpectedMultisigType)
	}

	if !script.ContainsKey(fields.PublicKey) {
		return nil, NewError(ReasonSignerNotInScript)
	}

	network := bitcoin.DetectNetwork(expectedWkIdentity)

	scriptAddress, err := bitcoin.DeriveP2WSH(fields.WitnessScript, network)
	if err != nil {
		return nil, NewErrorWithCause(ReasonAddressMismatch, err)
	}
	if scriptAddress != expectedWkIdentity {
		return nil, NewError(ReasonAddressMismatch)
	}

	signerAddress, err := bitcoin.DeriveP2PKH(fields.PublicKey, network)
	if err != nil {
		return nil, NewErrorWithCause(ReasonAddressMismatch, err)
	}

	if !bitcoin.VerifySignedMessage(fields.Message, fields.Signature, signerAddress, network, a.prefix) {
		return nil, NewError(ReasonInvalidSignature)
	}

	return &VerifiedIdentity{
		Identity:        expectedWkIdentity,
		SignerPublicKey: strings.ToLower(fields.PublicKey),
		Payload:         payload,
	}, nil
}

func (a *Authenticator) parseAndValidate(message, expectedIdentity string) (*SignaturePayload, error) {
	var payload SignaturePayload
	if err := json.Unmarshal([]byte(message), &payload); err != nil {
		return nil, NewErrorWithCause(ReasonInvalidMessageFormat, err)
	}

	if err := a.ValidatePayload(&payload); err != nil {
		return nil, err
	}

	if payload.Identity != expectedIdentity {
		return nil, NewError(ReasonIdentityMismatch)
	}

	return &payload, nil
}

// ValidatePayload checks the envelope invariants and burns the nonce. The
// nonce record is a side effect: a payload that fails a later verification
// step cannot be retried with the same nonce.
func (a *Authenticator) ValidatePayload(payload *SignaturePayload) error {
	drift := a.clock.Now().UnixMilli() - payload.Timestamp
	if drift < 0 {
		drift = -drift
	}
	if drift > a.maxDrift.Milliseconds() {
		return NewError(ReasonTimestampOutOfRange)
	}

	if !nonceRegex.MatchString(payload.Nonce) {
		return NewError(ReasonInvalidNonce)
	}

	if err := a.guard.CheckAndRecord(payload.Nonce); err != nil {
		return err
	}

	if _, ok := validPayloadActions[payload.Action]; !ok {
		return NewError(ReasonInvalidAction)
	}

	if payload.Identity == "" {
		return NewError(ReasonEmptyIdentity)
	}

	return nil
}
