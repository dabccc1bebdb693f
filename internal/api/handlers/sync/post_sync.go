package sync

import (
	"net/http"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/api"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/api/httperrors"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/relay/store"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/types"
	"github.com/RunOnFlux/ssp-relay-sub000/internal/util"
	"github.com/labstack/echo/v4"
)

func PostSyncRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Sync.POST("", postSyncHandler(s))
}

// postSyncHandler stores the key side's pairing handshake. One live record
// per wallet identity; posting again replaces it and restarts the TTL.
func postSyncHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostSyncPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		rec, err := s.Store.UpsertSync(ctx, &store.SyncRecord{
			Chain:            body.Chain,
			WalletIdentity:   body.WalletIdentity,
			KeyXpub:          body.KeyXpub,
			WkIdentity:       body.WkIdentity,
			GeneratedAddress: body.GeneratedAddress,
			PublicNonces:     body.PublicNonces,
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to store sync record")
			return httperrors.ErrInternalStore
		}

		log.Debug().Str("walletIdentity", rec.WalletIdentity).Msg("Stored sync record")

		return c.JSON(http.StatusOK, rec)
	}
}
