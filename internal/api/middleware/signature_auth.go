package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"regexp"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/httperrors"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/auth"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/metrics"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/types"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/util"
	"github.com/labstack/echo/v4"
)

type contextKey string

// VerifiedIdentityContextKey is where the middleware stores the verification
// result for downstream handlers.
const VerifiedIdentityContextKey contextKey = "verified_identity"

var publicKeyRegex = regexp.MustCompile(`^[0-9a-fA-F]{66}$`)

// SignatureAuthConfig configures the signed-request middleware for one route
// group.
type SignatureAuthConfig struct {
	Authenticator *auth.Authenticator
	Metrics       *metrics.Service
	// JSON key of the identity the request must prove control over,
	// "walletIdentity" or "wkIdentity".
	IdentityField string
	// The payload action this route accepts (sync, action or token). A
	// signature minted for another endpoint must not authorize this one.
	ExpectedAction string
	// Optional lets unsigned requests through unauthenticated during the
	// client transition window.
	Policy auth.Policy
}

// SignatureAuth verifies the detached Bitcoin-message signature embedded in
// the JSON request body and binds it to the body content via the payload
// data hash. The parsed body is restored so handlers can bind it again.
func SignatureAuth(config SignatureAuthConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			log := util.LogFromContext(ctx)

			// Reads carry no body to sign; they only return what the
			// identity published.
			if c.Request().Method == http.MethodGet || c.Request().Method == http.MethodHead {
				return next(c)
			}

			raw, err := io.ReadAll(c.Request().Body)
			if err != nil {
				return httperrors.ErrBadRequestInvalidIdentity
			}
			c.Request().Body = io.NopCloser(bytes.NewReader(raw))

			var body map[string]interface{}
			if err := json.Unmarshal(raw, &body); err != nil {
				log.Debug().Err(err).Msg("Rejecting non-JSON request body")
				return httperrors.ErrBadRequestInvalidIdentity
			}

			identity, _ := body[config.IdentityField].(string)
			if !types.ValidIdentity(identity) {
				return httperrors.ErrBadRequestInvalidIdentity
			}

			fields := extractAuthFields(body)
			if !fields.Present() {
				if config.Policy == auth.PolicyRequired {
					log.Warn().Str("identity_field", config.IdentityField).Msg("Rejecting unsigned request")
					config.Metrics.VerificationsTotal.WithLabelValues(schemeOf(identity), "missing").Inc()
					return httperrors.ErrUnauthorizedSignature
				}

				// Transitional compatibility for pre-auth clients.
				log.Debug().Str("identity_field", config.IdentityField).Msg("Accepting unsigned request")
				return next(c)
			}

			if !publicKeyRegex.MatchString(fields.PublicKey) {
				log.Warn().Msg("Rejecting request with malformed public key")
				config.Metrics.VerificationsTotal.WithLabelValues(schemeOf(identity), "rejected").Inc()
				return httperrors.ErrUnauthorizedSignature
			}

			verified, err := config.Authenticator.Verify(fields, identity)
			if err != nil {
				reason, _ := auth.ReasonOf(err)
				log.Warn().Err(err).Str("reason", string(reason)).Msg("Request signature verification failed")
				config.Metrics.VerificationsTotal.WithLabelValues(schemeOf(identity), "rejected").Inc()
				if reason == auth.ReasonNonceAlreadyUsed {
					config.Metrics.ReplaysRejected.Inc()
				}
				return httperrors.ErrUnauthorizedSignature
			}

			if verified.Payload.Action != config.ExpectedAction {
				log.Warn().Str("action", verified.Payload.Action).Str("expected", config.ExpectedAction).Msg("Request signed for a different action")
				config.Metrics.VerificationsTotal.WithLabelValues(schemeOf(identity), "rejected").Inc()
				return httperrors.ErrUnauthorizedSignature
			}

			if verified.Payload.Data == "" {
				log.Debug().Str("identity_field", config.IdentityField).Msg("Accepting signature without body binding")
			}

			if err := checkBodyBinding(body, verified); err != nil {
				reason, _ := auth.ReasonOf(err)
				log.Warn().Err(err).Str("reason", string(reason)).Msg("Request body does not match signed payload")
				config.Metrics.VerificationsTotal.WithLabelValues(schemeOf(identity), "rejected").Inc()
				return httperrors.ErrUnauthorizedSignature
			}

			config.Metrics.VerificationsTotal.WithLabelValues(schemeOf(identity), "ok").Inc()
			c.Set(string(VerifiedIdentityContextKey), verified)

			return next(c)
		}
	}
}

// VerifiedIdentityFromEchoContext returns the verification result stored by
// the middleware, or nil for an unauthenticated (transitional) request.
func VerifiedIdentityFromEchoContext(c echo.Context) *auth.VerifiedIdentity {
	verified, ok := c.Get(string(VerifiedIdentityContextKey)).(*auth.VerifiedIdentity)
	if !ok {
		return nil
	}

	return verified
}

func extractAuthFields(body map[string]interface{}) auth.Fields {
	str := func(key string) string {
		v, _ := body[key].(string)
		return v
	}

	return auth.Fields{
		Signature:     str("signature"),
		Message:       str("message"),
		PublicKey:     str("publicKey"),
		WitnessScript: str("witnessScript"),
	}
}

// checkBodyBinding compares the signed payload's data hash against the hash
// of the body with the auth fields stripped. A signed payload without a data
// hash is accepted; older clients do not bind their bodies yet.
func checkBodyBinding(body map[string]interface{}, verified *auth.VerifiedIdentity) error {
	if verified.Payload.Data == "" {
		return nil
	}

	stripped := make(map[string]interface{}, len(body))
	for k, v := range body {
		stripped[k] = v
	}
	for _, name := range types.AuthFieldNames {
		delete(stripped, name)
	}

	hash, err := util.CanonicalJSONHash(stripped)
	if err != nil {
		return auth.NewErrorWithCause(auth.ReasonBodyHashMismatch, err)
	}

	if hash != verified.Payload.Data {
		return auth.NewError(auth.ReasonBodyHashMismatch)
	}

	return nil
}

// schemeOf labels the verification metric by identity shape.
func schemeOf(identity string) string {
	if len(identity) >= 4 && (identity[:4] == "bc1q" || identity[:4] == "tb1q") {
		return "multisig"
	}

	return "singlesig"
}
