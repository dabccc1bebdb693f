package sign_test

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/httperrors"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wkSignChallenge(age time.Duration) string {
	ts := time.Now().Add(-age).UnixMilli()
	return hex.EncodeToString([]byte(fmt.Sprintf("%013d%s", ts, strings.Repeat("r", 32))))
}

func signPayload(message string) test.GenericPayload {
	return test.GenericPayload{
		"message":         message,
		"walletSignature": "IGfakecompactsignature=",
		"walletPubKey":    test.KeyPubKeyHex,
		"witnessScript":   "52ae",
		"wkIdentity":      "bc1qtestidentity000",
		"requestId":       "req-1",
	}
}

func TestPostSignStoresPendingAction(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, http.MethodPost, "/v1/sign", signPayload(wkSignChallenge(time.Minute)).Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Code)

		rec, err := s.Store.GetActionByWkIdentity(context.Background(), "bc1qtestidentity000")
		require.NoError(t, err)
		assert.Equal(t, "wksigningrequest", rec.Action)
		assert.Contains(t, rec.Payload, "req-1")
	})
}

func TestPostSignRejectsStaleChallenge(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, http.MethodPost, "/v1/sign", signPayload(wkSignChallenge(time.Hour)).Reader(t), nil)
		test.RequireHTTPError(t, res, httperrors.ErrUnauthorizedSignature)

		_, err := s.Store.GetActionByWkIdentity(context.Background(), "bc1qtestidentity000")
		assert.ErrorIs(t, err, store.ErrNoRecord)
	})
}

func TestPostSignRejectsMalformedBody(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := test.GenericPayload{
			"message": wkSignChallenge(time.Minute),
		}

		res := test.PerformRequest(t, s, http.MethodPost, "/v1/sign", payload.Reader(t), nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}
