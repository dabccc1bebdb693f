package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/httperrors"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/middleware"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/auth"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/bitcoin"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/config"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/metrics"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/test"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/util"
	"github.com/dropbox/godropbox/time2"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho(t *testing.T, policy auth.Policy, expectedAction string) (*echo.Echo, *capturedIdentity) {
	t.Helper()

	cfg := config.Auth{
		MessagePrefix:     bitcoin.DefaultMessagePrefix,
		MaxTimestampDrift: 10 * time.Minute,
		NonceTTL:          10 * time.Minute,
		NonceCapacity:     1000,
		NonceSweep:        10 * time.Minute,
	}
	clock := time2.NewMockClock(time.Now())
	authenticator := auth.NewAuthenticator(cfg, auth.NewReplayGuard(cfg, clock), clock)

	captured := &capturedIdentity{}

	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if httpErr, ok := err.(*httperrors.HTTPError); ok {
			_ = c.JSON(int(*httpErr.Code), httpErr.PublicHTTPError)
			return
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
	group := e.Group("/v1/sync", middleware.SignatureAuth(middleware.SignatureAuthConfig{
		Authenticator:  authenticator,
		Metrics:        metrics.New(),
		IdentityField:  "walletIdentity",
		ExpectedAction: expectedAction,
		Policy:         policy,
	}))
	group.POST("", func(c echo.Context) error {
		captured.verified = middleware.VerifiedIdentityFromEchoContext(c)
		captured.called = true
		return c.NoContent(http.StatusOK)
	})
	group.GET("/:identity", func(c echo.Context) error {
		captured.called = true
		return c.NoContent(http.StatusOK)
	})

	return e, captured
}

type capturedIdentity struct {
	called   bool
	verified *auth.VerifiedIdentity
}

func performJSON(e *echo.Echo, method, path string, body map[string]interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	return res
}

// signedBody signs the domain body for the fixture identity and embeds the
// auth fields, binding the body via the data hash.
func signedBody(t *testing.T, body map[string]interface{}, action string) map[string]interface{} {
	t.Helper()

	hash, err := util.CanonicalJSONHash(body)
	require.NoError(t, err)

	message, signature := test.SignedEnvelope(t, test.PrivKey(t), action, test.KeyP2PKHAddress, test.NewNonce(t), hash)

	signed := make(map[string]interface{}, len(body)+3)
	for k, v := range body {
		signed[k] = v
	}
	signed["signature"] = signature
	signed["message"] = message
	signed["publicKey"] = test.KeyPubKeyHex

	return signed
}

func TestSignatureAuthAcceptsSignedRequest(t *testing.T) {
	e, captured := newTestEcho(t, auth.PolicyRequired, auth.ActionSync)

	body := signedBody(t, map[string]interface{}{
		"walletIdentity": test.KeyP2PKHAddress,
		"chain":          "btc",
	}, auth.ActionSync)

	res := performJSON(e, http.MethodPost, "/v1/sync", body)
	require.Equal(t, http.StatusOK, res.Code)
	require.True(t, captured.called)
	require.NotNil(t, captured.verified)
	assert.Equal(t, test.KeyP2PKHAddress, captured.verified.Identity)
}

func TestSignatureAuthRejectsTamperedBody(t *testing.T) {
	e, captured := newTestEcho(t, auth.PolicyRequired, auth.ActionSync)

	body := signedBody(t, map[string]interface{}{
		"walletIdentity": test.KeyP2PKHAddress,
		"chain":          "btc",
	}, auth.ActionSync)

	// Mutate a domain field after signing.
	body["chain"] = "evm"

	res := performJSON(e, http.MethodPost, "/v1/sync", body)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.False(t, captured.called)
}

func TestSignatureAuthAcceptsUnboundLegacyEnvelope(t *testing.T) {
	e, captured := newTestEcho(t, auth.PolicyRequired, auth.ActionSync)

	var logBuf bytes.Buffer
	origLogger := log.Logger
	log.Logger = zerolog.New(&logBuf)
	defer func() { log.Logger = origLogger }()

	// Envelope without a data hash: older clients do not bind their bodies.
	message, signature := test.SignedEnvelope(t, test.PrivKey(t), auth.ActionSync, test.KeyP2PKHAddress, test.NewNonce(t), "")

	res := performJSON(e, http.MethodPost, "/v1/sync", map[string]interface{}{
		"walletIdentity": test.KeyP2PKHAddress,
		"chain":          "btc",
		"signature":      signature,
		"message":        message,
		"publicKey":      test.KeyPubKeyHex,
	})
	assert.Equal(t, http.StatusOK, res.Code)
	assert.True(t, captured.called)

	// The unbound signature is accepted but leaves a trace in the logs.
	assert.Contains(t, logBuf.String(), "without body binding")
}

func TestSignatureAuthOptionalPolicyAllowsUnsigned(t *testing.T) {
	e, captured := newTestEcho(t, auth.PolicyOptional, auth.ActionSync)

	res := performJSON(e, http.MethodPost, "/v1/sync", map[string]interface{}{
		"walletIdentity": test.KeyP2PKHAddress,
		"chain":          "btc",
	})
	require.Equal(t, http.StatusOK, res.Code)
	require.True(t, captured.called)
	assert.Nil(t, captured.verified)
}

func TestSignatureAuthRequiredPolicyRejectsUnsigned(t *testing.T) {
	e, captured := newTestEcho(t, auth.PolicyRequired, auth.ActionSync)

	res := performJSON(e, http.MethodPost, "/v1/sync", map[string]interface{}{
		"walletIdentity": test.KeyP2PKHAddress,
		"chain":          "btc",
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.False(t, captured.called)
}

func TestSignatureAuthRejectsMalformedIdentity(t *testing.T) {
	e, captured := newTestEcho(t, auth.PolicyOptional, auth.ActionSync)

	tests := []interface{}{"", "has spaces", 42, nil}
	for _, identity := range tests {
		res := performJSON(e, http.MethodPost, "/v1/sync", map[string]interface{}{
			"walletIdentity": identity,
		})
		assert.Equal(t, http.StatusBadRequest, res.Code)
	}
	assert.False(t, captured.called)
}

func TestSignatureAuthRejectsWrongAction(t *testing.T) {
	e, captured := newTestEcho(t, auth.PolicyRequired, auth.ActionSync)

	// Signed for the token endpoint, replayed against sync.
	body := signedBody(t, map[string]interface{}{
		"walletIdentity": test.KeyP2PKHAddress,
		"chain":          "btc",
	}, auth.ActionToken)

	res := performJSON(e, http.MethodPost, "/v1/sync", body)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.False(t, captured.called)
}

func TestSignatureAuthSkipsReads(t *testing.T) {
	e, captured := newTestEcho(t, auth.PolicyRequired, auth.ActionSync)

	req := httptest.NewRequest(http.MethodGet, "/v1/sync/some-identity", nil)
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	assert.Equal(t, http.StatusOK, res.Code)
	assert.True(t, captured.called)
}
