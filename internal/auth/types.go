package auth

import (
	"fmt"

	"github.com/pkg/errors"
)

// Reason is the server-side detail of an authentication failure. Reasons are
// logged in full but never exposed beyond the generic 401 body.
type Reason string

const (
	ReasonInvalidMessageFormat   Reason = "InvalidMessageFormat"
	ReasonTimestampOutOfRange    Reason = "TimestampOutOfRange"
	ReasonInvalidNonce           Reason = "InvalidNonce"
	ReasonNonceAlreadyUsed       Reason = "NonceAlreadyUsed"
	ReasonInvalidAction          Reason = "InvalidAction"
	ReasonEmptyIdentity          Reason = "EmptyIdentity"
	ReasonIdentityMismatch       Reason = "IdentityMismatch"
	ReasonAddressMismatch        Reason = "AddressMismatch"
	ReasonInvalidSignature       Reason = "InvalidSignature"
	ReasonWitnessScriptRequired  Reason = "WitnessScriptRequired"
	ReasonUnexpectedMultisigType Reason = "UnexpectedMultisigType"
	ReasonSignerNotInScript      Reason = "SignerNotInScript"
	ReasonBodyHashMismatch       Reason = "BodyHashMismatch"

	ReasonMalformedSignMessage  Reason = "MalformedSignMessage"
	ReasonSignMessageExpired    Reason = "SignMessageExpired"
	ReasonSignMessageFromFuture Reason = "SignMessageFromFuture"
)

// Error is a typed authentication failure.
type Error struct {
	Reason Reason
	cause  error
}

// NewError returns a new authentication error for the given reason.
func NewError(reason Reason) *Error {
	return &Error{Reason: reason}
}

// NewErrorWithCause wraps an underlying error under a reason.
func NewErrorWithCause(reason Reason, cause error) *Error {
	return &Error{Reason: reason, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.cause)
	}

	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ReasonOf extracts the failure reason from an error chain.
func ReasonOf(err error) (Reason, bool) {
	var authErr *Error
	if errors.As(err, &authErr) {
		return authErr.Reason, true
	}

	return "", false
}

// VerifiedIdentity is the result of a successful verification.
type VerifiedIdentity struct {
	// The identity the caller proved control over.
	Identity string
	// Lowercase hex compressed public key of the individual signer.
	SignerPublicKey string
	// The validated signed payload envelope.
	Payload *SignaturePayload
}

// Fields is the detached signature material of a request or socket join.
type Fields struct {
	Signature     string
	Message       string
	PublicKey     string
	WitnessScript string
}

// Present reports whether the minimal field set was supplied.
func (f Fields) Present() bool {
	return f.Signature != "" && f.Message != "" && f.PublicKey != ""
}

// Policy controls whether unauthenticated access is tolerated. The optional
// mode exists for pre-auth clients and is meant to be deleted once all of
// them sign their joins.
type Policy string

const (
	PolicyRequired Policy = "required"
	PolicyOptional Policy = "optional"
)

// ParsePolicy parses a policy string, defaulting to optional.
func ParsePolicy(s string) Policy {
	if s == string(PolicyRequired) {
		return PolicyRequired
	}

	return PolicyOptional
}
