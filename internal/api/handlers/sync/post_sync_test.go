package sync_test

import (
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

func TestPostAndGetSync(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := test.GenericPayload{
			"chain":          "btc",
			"walletIdentity": test.KeyP2PKHAddress,
			"keyXpub":        "xpub-test",
			"wkIdentity":     "bc1qtestidentity000",
		}

		res := test.PerformRequest(t, s, http.MethodPost, "/v1/sync", payload.Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Code)

		res = test.PerformRequest(t, s, http.MethodGet, "/v1/sync/"+test.KeyP2PKHAddress, nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var rec store.SyncRecord
		test.ParseResponseBody(t, res, &rec)
		assert.Equal(t, "btc", rec.Chain)
		assert.Equal(t, test.KeyP2PKHAddress, rec.WalletIdentity)
		assert.Equal(t, "xpub-test", rec.KeyXpub)
		assert.False(t, rec.ExpireAt.IsZero())
	})
}

func TestGetSyncNotFound(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, http.MethodGet, "/v1/sync/1UnknownIdentity", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrNotFoundRecord)
	})
}

func TestGetSyncRejectsMalformedIdentity(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, http.MethodGet, "/v1/sync/bad.identity", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrBadRequestInvalidIdentity)

		res = test.PerformRequest(t, s, http.MethodGet, "/v1/sync/"+strings.Repeat("a", 201), nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrBadRequestInvalidIdentity)
	})
}

func TestPostSyncRejectsIncompleteBody(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		payload := test.GenericPayload{
			"chain":          "btc",
			"walletIdentity": test.KeyP2PKHAddress,
		}

		res := test.PerformRequest(t, s, http.MethodPost, "/v1/sync", payload.Reader(t), nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
	})
}

func TestPostSyncReplacesPriorRecord(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		first := test.GenericPayload{
			"chain":          "btc",
			"walletIdentity": test.KeyP2PKHAddress,
			"keyXpub":        "xpub-first",
			"wkIdentity":     "bc1qtestidentity000",
		}
		second := test.GenericPayload{
			"chain":          "btc",
			"walletIdentity": test.KeyP2PKHAddress,
			"keyXpub":        "xpub-second",
			"wkIdentity":     "bc1qtestidentity000",
		}

		res := test.PerformRequest(t, s, http.MethodPost, "/v1/sync", first.Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Code)
		res = test.PerformRequest(t, s, http.MethodPost, "/v1/sync", second.Reader(t), nil)
		require.Equal(t, http.StatusOK, res.Code)

		res = test.PerformRequest(t, s, http.MethodGet, "/v1/sync/"+test.KeyP2PKHAddress, nil, nil)
		require.Equal(t, http.StatusOK, res.Code)

		var rec store.SyncRecord
		test.ParseResponseBody(t, res, &rec)
		assert.Equal(t, "xpub-second", rec.KeyXpub)
	})
}
