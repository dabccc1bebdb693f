package token_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostToken(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := test.GenericPayload{
			"wkIdentity": "bc1qtestidentity000",
			"keyToken":   "fcm-token-1",
		}

		res := test.PerformRequest(t, s, http.MethodPost, "/v1/token", payload.Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Code)

		// Identical registration is idempotent.
		res = test.PerformRequest(t, s, http.MethodPost, "/v1/token", payload.Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Code)

		tokens, err := s.Store.GetTokensByWkIdentity(context.Background(), "bc1qtestidentity000")
		require.NoError(t, err)
		assert.Len(t, tokens, 1)
	})
}

func TestPostTokenRequiresSomeToken(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := test.GenericPayload{
			"wkIdentity": "bc1qtestidentity000",
		}

		res := test.PerformRequest(t, s, http.MethodPost, "/v1/token", payload.Reader(t), nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}
