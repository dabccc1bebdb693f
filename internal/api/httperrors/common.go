package httperrors

import (
	"net/http"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/types"
)

var (
	// ErrUnauthorizedSignature is the single public response for every
	// authentication failure (bad signature, replayed nonce, stale
	// timestamp, body-hash mismatch). The concrete reason is only logged.
	ErrUnauthorizedSignature = NewHTTPError(http.StatusUnauthorized, types.PublicHTTPErrorTypeAuthenticationFailed, "Request signature could not be verified.")

	// ErrBadRequestInvalidIdentity rejects malformed identity strings.
	ErrBadRequestInvalidIdentity = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidIdentity, "Identity is malformed.")

	// ErrNotFoundRecord is returned when no live record exists for an identity.
	ErrNotFoundRecord = NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeRecordNotFound, "No record found for identity.")

	// ErrInternalStore is returned on store round-trip failures. Safe to retry.
	ErrInternalStore = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeStoreUnavailable, "Storage temporarily unavailable.")

	// ErrBadRequestTokenCap rejects token registrations past the per-identity cap.
	ErrBadRequestTokenCap = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeValidation, "Token limit reached for identity.")
)
