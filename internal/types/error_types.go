package types

// Public HTTP error types. These are part of the API contract, keep stable.
const (
	PublicHTTPErrorTypeGeneric              = "generic"
	PublicHTTPErrorTypeValidation           = "VALIDATION_ERROR"
	PublicHTTPErrorTypeAuthenticationFailed = "AUTHENTICATION_FAILED"
	PublicHTTPErrorTypeInvalidIdentity      = "INVALID_IDENTITY"
	PublicHTTPErrorTypeRecordNotFound       = "RECORD_NOT_FOUND"
	PublicHTTPErrorTypeStoreUnavailable     = "STORE_UNAVAILABLE"
)
