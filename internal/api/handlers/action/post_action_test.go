package action_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/httperrors"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostAndGetAction(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := test.GenericPayload{
			"chain":      "btc",
			"wkIdentity": "bc1qtestidentity000",
			"action":     "tx",
			"payload":    "0200aabbccdd",
		}

		res := test.PerformRequest(t, s, http.MethodPost, "/v1/action", payload.Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Code)

		res = test.PerformRequest(t, s, http.MethodGet, "/v1/action/bc1qtestidentity000", nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var rec store.ActionRecord
		test.ParseResponseBody(t, res, &rec)
		assert.Equal(t, "tx", rec.Action)
		assert.Equal(t, "0200aabbccdd", rec.Payload)
		assert.False(t, rec.ExpireAt.IsZero())
	})
}

func TestGetActionNotFound(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, http.MethodGet, "/v1/action/bc1qnobodyhome0000", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrNotFoundRecord)
	})
}

func TestGetActionRejectsMalformedIdentity(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, http.MethodGet, "/v1/action/bad.identity", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrBadRequestInvalidIdentity)

		res = test.PerformRequest(t, s, http.MethodGet, "/v1/action/"+strings.Repeat("a", 201), nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrBadRequestInvalidIdentity)
	})
}

func TestPostActionSupersedesPrior(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		first := test.GenericPayload{
			"chain":      "btc",
			"wkIdentity": "bc1qtestidentity000",
			"action":     "tx",
			"payload":    "first",
		}
		second := test.GenericPayload{
			"chain":      "btc",
			"wkIdentity": "bc1qtestidentity000",
			"action":     "txrejected",
			"payload":    "second",
		}

		res := test.PerformRequest(t, s, http.MethodPost, "/v1/action", first.Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Code)
		res = test.PerformRequest(t, s, http.MethodPost, "/v1/action", second.Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Code)

		rec, err := s.Store.GetActionByWkIdentity(context.Background(), "bc1qtestidentity000")
		require.NoError(t, err)
		assert.Equal(t, "txrejected", rec.Action)
		assert.Equal(t, "second", rec.Payload)
	})
}

func TestPostActionRejectsIncompleteBody(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := test.GenericPayload{
			"chain":      "btc",
			"wkIdentity": "bc1qtestidentity000",
		}

		res := test.PerformRequest(t, s, http.MethodPost, "/v1/action", payload.Reader(t), nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}
